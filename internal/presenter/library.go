package presenter

import (
	"context"
	"log"
	"strings"
	"time"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/loader"
	"github.com/rcliao/cyoa/internal/model"
	"github.com/rcliao/cyoa/internal/registry"
	"github.com/rcliao/cyoa/internal/search"
)

// Library lists, sorts, creates and deletes adventures.
type Library struct {
	store  Store
	reg    *registry.Registry
	view   View
	logger *log.Logger
}

// NewLibrary returns a library presenter. view and logger may be nil.
func NewLibrary(st Store, reg *registry.Registry, view View, logger *log.Logger) *Library {
	return &Library{store: st, reg: reg, view: orNop(view), logger: orDiscard(logger)}
}

// Load replaces the registry contents with everything in storage. On failure
// the registry is left untouched and the error is returned.
func (l *Library) Load(ctx context.Context) error {
	advs, err := loader.Load(ctx, l.store).Wait(ctx)
	if err != nil {
		l.logger.Printf("load adventures: %v", err)
		return err
	}
	l.reg.Reset(advs)
	l.logger.Printf("loaded %d adventure(s)", len(advs))
	l.view.Refresh()
	return nil
}

// Adventures returns every cached adventure ordered by id.
func (l *Library) Adventures() []*model.Adventure {
	return l.reg.All()
}

// Sort orders the cached adventures against query on field. An unknown
// field returns the error together with the unsorted listing so callers can
// fall back to it.
func (l *Library) Sort(query, field string) ([]*model.Adventure, error) {
	all := l.reg.All()
	sorted, err := search.SearchBy(all, query, field)
	if err != nil {
		return all, err
	}
	return sorted, nil
}

// Filter is Sort without the adventures that do not match.
func (l *Library) Filter(query, field string) ([]*model.Adventure, error) {
	return search.Filter(l.reg.All(), query, field)
}

// NewAdventure registers a new adventure with an empty start section. It is
// not saved until Save is called.
func (l *Library) NewAdventure(title, author string) (*model.Adventure, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "title is required")
	}
	now := time.Now().UTC()
	a := l.reg.Add(&model.Adventure{Title: title, Author: author, CreatedAt: now, UpdatedAt: now})
	// Building the graph gives the adventure its start section.
	if _, err := l.reg.Graph(a.ID); err != nil {
		return nil, err
	}
	l.logger.Printf("created adventure %d %q", a.ID, a.Title)
	l.view.Refresh()
	return a, nil
}

// Import registers an adventure read from elsewhere. A clashing id is
// replaced by a fresh one unless replace is set.
func (l *Library) Import(a *model.Adventure, replace bool) *model.Adventure {
	if _, err := l.reg.Get(a.ID); err == nil && !replace {
		a.ID = 0
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = time.Now().UTC()
	l.reg.Add(a)
	l.reg.Graph(a.ID)
	l.view.Refresh()
	return a
}

// Get returns a cached adventure.
func (l *Library) Get(id int) (*model.Adventure, error) {
	return l.reg.Get(id)
}

// DeleteAdventure removes an adventure from storage and the registry. An
// adventure that was never saved is only dropped from the registry.
func (l *Library) DeleteAdventure(ctx context.Context, id int) error {
	_, lookupErr := l.reg.Get(id)
	cached := lookupErr == nil
	if err := l.store.Delete(ctx, id); err != nil {
		if !cached || !apperrors.IsCode(err, apperrors.CodeNotFound) {
			return err
		}
	}
	l.reg.Remove(id)
	l.logger.Printf("deleted adventure %d", id)
	l.view.Refresh()
	return nil
}

// Save writes a cached adventure to storage.
func (l *Library) Save(ctx context.Context, id int) error {
	a, err := l.reg.Get(id)
	if err != nil {
		return err
	}
	if err := l.store.Save(ctx, a); err != nil {
		l.logger.Printf("save adventure %d: %v", id, err)
		return err
	}
	return nil
}
