// Package loader fetches every stored adventure off the caller's goroutine.
//
// A Pending result delivers exactly one value: either the adventures on
// Adventures or a failure on Err, never both. Both channels are closed once
// that value has been sent, so a receiver may also range or select on them.
package loader

import (
	"context"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

// Source is the part of the store the loader needs.
type Source interface {
	LoadAll(ctx context.Context) ([]*model.Adventure, error)
}

// Pending is an in-flight load.
type Pending struct {
	Adventures <-chan []*model.Adventure
	Err        <-chan error
}

// Load starts loading from src and returns immediately.
func Load(ctx context.Context, src Source) *Pending {
	advs := make(chan []*model.Adventure, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(advs)
		defer close(errs)

		if err := ctx.Err(); err != nil {
			errs <- apperrors.Wrap(apperrors.CodeStorage, "load adventures", err)
			return
		}
		out, err := src.LoadAll(ctx)
		if err != nil {
			errs <- err
			return
		}
		if out == nil {
			out = []*model.Adventure{}
		}
		advs <- out
	}()

	return &Pending{Adventures: advs, Err: errs}
}

// Wait blocks until the load finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) ([]*model.Adventure, error) {
	select {
	case advs, ok := <-p.Adventures:
		if ok {
			return advs, nil
		}
		// Adventures closed empty: the value went to Err.
		return nil, <-p.Err
	case err, ok := <-p.Err:
		if ok {
			return nil, err
		}
		return <-p.Adventures, nil
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.CodeStorage, "load adventures", ctx.Err())
	}
}
