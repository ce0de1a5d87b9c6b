package location

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/go-drift/locator/pkg/errors"
)

var errDoubleDelivery = stderrors.New("result delivered more than once")

// Result is a single-use delivery slot for one location request. It is
// resolved or rejected exactly once by the dealer; callers observe completion
// through Done or Wait. A second delivery is a defect in the delivering code
// and is reported, never passed to the caller.
type Result struct {
	mu        sync.Mutex
	done      chan struct{}
	loc       Location
	err       error
	delivered bool
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

func (r *Result) resolve(loc Location) {
	r.deliver(loc, nil)
}

func (r *Result) reject(err error) {
	r.deliver(Location{}, err)
}

func (r *Result) deliver(loc Location, err error) {
	r.mu.Lock()
	if r.delivered {
		r.mu.Unlock()
		errors.Report(&errors.LocatorError{
			Op:   "location.Result.deliver",
			Kind: errors.KindContract,
			Err:  errDoubleDelivery,
		})
		return
	}
	r.delivered = true
	r.loc = loc
	r.err = err
	close(r.done)
	r.mu.Unlock()
}

// rejected returns a Result that is already rejected with err.
func rejected(err error) *Result {
	r := newResult()
	r.reject(err)
	return r
}

// Done returns a channel that is closed once the result is delivered.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Value returns the delivered location or rejection error.
// Before delivery it returns ErrPending.
func (r *Result) Value() (Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.delivered {
		return Location{}, ErrPending
	}
	return r.loc, r.err
}

// Wait blocks until the result is delivered or ctx ends, whichever comes
// first. The dealer imposes no timeout of its own; pass a deadline context to
// guard against a platform that never calls back.
func (r *Result) Wait(ctx context.Context) (Location, error) {
	select {
	case <-r.done:
		return r.Value()
	case <-ctx.Done():
		return Location{}, ctx.Err()
	}
}
