// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned to a caller whose request was replaced by a
// newer one before it finished.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Delivery is the single value sent on the channel returned by Start.
type Delivery struct {
	Result Result
	Err    error
}

// Latest serializes a caller's requests so only the newest one delivers a
// result. Starting a request cancels the one in flight; resolver calls the
// cancelled request started may still finish and fill the cache.
type Latest struct {
	Aggregator *Aggregator

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// Start cancels any request in flight on l and aggregates raw in the
// background. The request is registered before Start returns, so calls made
// in order supersede each other in that order. The channel receives exactly
// one Delivery; a superseded request delivers ErrSuperseded.
func (l *Latest) Start(ctx context.Context, raw string) <-chan Delivery {
	ctx, cancel := context.WithCancelCause(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel(ErrSuperseded)
	}
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	ch := make(chan Delivery, 1)
	go func() {
		defer cancel(nil)
		defer l.release(seq)

		res, err := l.Aggregator.Run(ctx, raw)
		if errors.Is(context.Cause(ctx), ErrSuperseded) {
			res, err = Result{}, ErrSuperseded
		}
		ch <- Delivery{Result: res, Err: err}
	}()
	return ch
}

// Run is Start followed by waiting for the delivery.
func (l *Latest) Run(ctx context.Context, raw string) (Result, error) {
	d := <-l.Start(ctx, raw)
	return d.Result, d.Err
}

func (l *Latest) release(seq uint64) {
	l.mu.Lock()
	if l.seq == seq {
		l.cancel = nil
	}
	l.mu.Unlock()
}
