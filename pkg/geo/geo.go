// Package geo resolves the optional requester location used to bias map
// grounding. Resolution is best effort and bounded in time.
package geo

import (
	"context"
	"time"

	"github.com/helmcode/hotel-audit/pkg/model"
)

// Locator finds the requester's position.
type Locator interface {
	Locate(ctx context.Context) (*model.LocationHint, error)
}

// Static always returns the same position. A nil Static locates nothing.
type Static struct {
	Hint *model.LocationHint
}

func (s Static) Locate(context.Context) (*model.LocationHint, error) {
	return s.Hint, nil
}

// Func adapts a function to Locator.
type Func func(ctx context.Context) (*model.LocationHint, error)

func (f Func) Locate(ctx context.Context) (*model.LocationHint, error) {
	return f(ctx)
}

// Resolve asks l for a position, giving up after timeout. Any failure,
// including a timeout, yields nil. It never waits longer than timeout, and
// the locator goroutine exits once it returns, as long as the locator
// honors its context.
func Resolve(ctx context.Context, l Locator, timeout time.Duration) *model.LocationHint {
	if l == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		hint *model.LocationHint
		err  error
	}
	// Buffered so a late locator can still send and exit.
	done := make(chan result, 1)
	go func() {
		hint, err := l.Locate(ctx)
		done <- result{hint, err}
	}()

	select {
	case r := <-done:
		if r.err != nil || !valid(r.hint) {
			return nil
		}
		return r.hint
	case <-ctx.Done():
		return nil
	}
}

func valid(h *model.LocationHint) bool {
	return h != nil &&
		h.Latitude >= -90 && h.Latitude <= 90 &&
		h.Longitude >= -180 && h.Longitude <= 180
}
