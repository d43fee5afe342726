// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memo wraps single upstream calls with a (source, argument) keyed
// cache. Successful results are stored insert-if-absent; failures are never
// stored, so the next call for the same key simply tries again.
package memo

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/pubfetch/internal/reqlog"
)

// Client memoizes upstream calls against a Store. Concurrent calls for the
// same key share one in-flight perform; calls for different keys never wait
// on each other.
type Client struct {
	store   Store
	timeout time.Duration
	flights singleflight.Group
}

// NewClient returns a Client writing to store. timeout bounds every perform
// call; zero means no deadline beyond what perform applies itself.
func NewClient(store Store, timeout time.Duration) *Client {
	return &Client{store: store, timeout: timeout}
}

// Fetch returns the cached value for (source, argument) or invokes perform,
// caches a successful result, and returns it.
//
// perform runs detached from ctx's cancellation so that a call abandoned by
// its caller can still finish and populate the cache; the caller itself
// stops waiting as soon as ctx is done and receives ctx.Err(). Values
// round-trip through JSON, so every caller gets its own copy.
func Fetch[T any](ctx context.Context, c *Client, source, argument string, perform func(context.Context) (T, error)) (T, error) {
	var zero T
	log := reqlog.From(ctx)

	raw, ok, err := c.store.Get(ctx, source, argument)
	if err != nil {
		log.Warn("cache read failed", "source", source, "argument", argument, "err", err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			log.Debug("cache hit", "source", source, "argument", argument)
			return v, nil
		}
		log.Warn("discarding undecodable cache entry", "source", source, "argument", argument)
	}

	ch := c.flights.DoChan(source+"\x00"+argument, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, c.timeout)
			defer cancel()
		}

		v, err := perform(callCtx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := c.store.PutIfAbsent(callCtx, source, argument, data); err != nil {
			log.Warn("cache write failed", "source", source, "argument", argument, "err", err)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		var v T
		if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
			return zero, err
		}
		return v, nil
	}
}
