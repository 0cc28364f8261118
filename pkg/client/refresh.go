package client

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// RefreshFunc performs one token refresh round trip.
type RefreshFunc func(ctx context.Context) error

// RefreshCoordinator guarantees at most one outstanding refresh call. Every
// caller that arrives while a refresh is running waits for, and receives,
// that refresh's result instead of starting another.
//
// The shared call runs on a context detached from the caller that started
// it, so one caller giving up does not fail the refresh for the rest.
type RefreshCoordinator struct {
	group     singleflight.Group
	refresh   RefreshFunc
	onFailure func(error)

	calls    atomic.Int64
	inFlight atomic.Bool
}

// NewRefreshCoordinator creates a coordinator around fn. onFailure, if set,
// runs once per failed refresh call (not once per waiter), before any waiter
// is released.
func NewRefreshCoordinator(fn RefreshFunc, onFailure func(error)) *RefreshCoordinator {
	return &RefreshCoordinator{
		refresh:   fn,
		onFailure: onFailure,
	}
}

// Do joins the in-flight refresh or starts a new one, and blocks until it
// settles or ctx is done.
func (r *RefreshCoordinator) Do(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)

	ch := r.group.DoChan(refreshKey, func() (interface{}, error) {
		r.inFlight.Store(true)
		defer r.inFlight.Store(false)

		r.calls.Add(1)
		err := r.refresh(shared)
		if err != nil && r.onFailure != nil {
			r.onFailure(err)
		}
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight reports whether a refresh call is currently running.
func (r *RefreshCoordinator) InFlight() bool {
	return r.inFlight.Load()
}

// Calls returns how many refresh round trips have been started.
func (r *RefreshCoordinator) Calls() int64 {
	return r.calls.Load()
}
