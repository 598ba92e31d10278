// Package presenter drives the library, adventure editing and reading flows
// on top of the registry, the section graph and storage. A presenter is used
// from one goroutine; it tells its View to refresh after every change.
package presenter

import (
	"context"
	"io"
	"log"

	"github.com/rcliao/cyoa/internal/model"
)

// View is notified whenever presenter state changes.
type View interface {
	Refresh()
}

// ViewFunc adapts a function to View.
type ViewFunc func()

// Refresh calls f.
func (f ViewFunc) Refresh() { f() }

type nopView struct{}

func (nopView) Refresh() {}

// Store persists adventures.
type Store interface {
	LoadAll(ctx context.Context) ([]*model.Adventure, error)
	Save(ctx context.Context, a *model.Adventure) error
	Delete(ctx context.Context, id int) error
}

func orNop(v View) View {
	if v == nil {
		return nopView{}
	}
	return v
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}
