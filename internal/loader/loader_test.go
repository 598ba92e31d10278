package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

type fakeSource struct {
	advs  []*model.Adventure
	err   error
	block chan struct{}
}

func (f *fakeSource) LoadAll(ctx context.Context) ([]*model.Adventure, error) {
	if f.block != nil {
		<-f.block
	}
	return f.advs, f.err
}

// drain reads both channels to completion and counts the delivered values.
func drain(t *testing.T, p *Pending) ([][]*model.Adventure, []error) {
	t.Helper()
	var advs [][]*model.Adventure
	var errs []error
	timeout := time.After(2 * time.Second)
	a, e := p.Adventures, p.Err
	for a != nil || e != nil {
		select {
		case v, ok := <-a:
			if !ok {
				a = nil
				continue
			}
			advs = append(advs, v)
		case v, ok := <-e:
			if !ok {
				e = nil
				continue
			}
			errs = append(errs, v)
		case <-timeout:
			t.Fatal("channels were not closed")
		}
	}
	return advs, errs
}

func TestLoadDeliversAdventuresOnce(t *testing.T) {
	src := &fakeSource{advs: []*model.Adventure{{ID: 1, Title: "Cave"}}}
	advs, errs := drain(t, Load(context.Background(), src))
	if len(advs) != 1 || len(errs) != 0 {
		t.Fatalf("expected exactly one adventures value, got %d values and %d errors", len(advs), len(errs))
	}
	if len(advs[0]) != 1 || advs[0][0].Title != "Cave" {
		t.Errorf("unexpected adventures %+v", advs[0])
	}
}

func TestLoadDeliversErrorOnce(t *testing.T) {
	src := &fakeSource{err: errors.New("disk gone")}
	advs, errs := drain(t, Load(context.Background(), src))
	if len(advs) != 0 || len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d values and %d errors", len(advs), len(errs))
	}
}

func TestLoadEmptyIsNotNil(t *testing.T) {
	got, err := Load(context.Background(), &fakeSource{}).Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, &fakeSource{}).Wait(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeStorage) {
		t.Errorf("expected STORAGE error, got %v", err)
	}
}

func TestWaitReturnsSourceError(t *testing.T) {
	want := errors.New("boom")
	_, err := Load(context.Background(), &fakeSource{err: want}).Wait(context.Background())
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	src := &fakeSource{block: make(chan struct{})}
	defer close(src.block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := Load(context.Background(), src).Wait(ctx); err == nil {
		t.Error("expected an error when the wait context expires")
	}
}
