package tempmail

import (
	"context"
	"errors"
	"time"

	"github.com/patrick-siotti/temp-email/internal/api"
)

// maxConsecutivePollFailures is how many consecutive poll failures are
// swallowed as transient before the wait gives up. Repeated failure
// means the provider or session is broken, not momentarily busy.
const maxConsecutivePollFailures = 3

// WaitForMessage polls the mailbox until a message not seen before
// arrives, then returns it with its full body.
//
// Messages already in the mailbox when the seen set was first primed
// (by Messages or by this wait's first poll) are not "new". When a poll
// surfaces several unseen messages at once, the first in provider order
// is returned and the rest are marked seen so they are never
// re-surfaced by a later wait.
//
// The timeout is wall clock from the first poll attempt; when it
// elapses with no new message the wait fails with an error matching
// ErrWaitTimeout. Transient provider failures are swallowed and
// retried up to maxConsecutivePollFailures in a row. Cancelling ctx
// aborts the in-flight poll and returns ctx.Err().
func (c *Client) WaitForMessage(ctx context.Context, opts ...WaitOption) (*Message, error) {
	_, token, err := c.auth()
	if err != nil {
		return nil, err
	}

	cfg := &waitConfig{
		timeout:      c.timeout,
		pollInterval: c.pollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	deadline := time.Now().Add(cfg.timeout)
	failures := 0

	for {
		summaries, err := c.apiClient.GetMessages(ctx, token)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !isTransient(err) {
				return nil, wrapError(err)
			}
			failures++
			if failures > maxConsecutivePollFailures {
				return nil, wrapError(err)
			}

		default:
			failures = 0
			if id := c.takeFirstUnseen(summaries); id != "" {
				msg, err := c.GetMessage(ctx, id)
				if err != nil {
					return nil, err
				}
				return msg, nil
			}
		}

		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{Operation: "wait for message", Timeout: cfg.timeout}
		}

		timer := time.NewTimer(cfg.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// takeFirstUnseen records every unseen message ID from one poll and
// returns the first in provider order, or "" if the poll brought
// nothing new. The first list for an address only primes the seen set:
// whatever is already in the mailbox predates the wait.
func (c *Client) takeFirstUnseen(summaries []api.MessageSummary) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	primed := c.seenPrimed
	c.seenPrimed = true

	var first string
	for _, s := range summaries {
		if _, ok := c.seen[s.ID]; ok {
			continue
		}
		c.seen[s.ID] = struct{}{}
		if primed && first == "" {
			first = s.ID
		}
	}
	return first
}

// isTransient reports whether a poll failure should be retried rather
// than surfaced immediately. Provider errors and transport failures are
// transient; anything else (unsolvable challenge, broken handshake) is
// fatal to the wait.
func isTransient(err error) bool {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var netErr *api.NetworkError
	return errors.As(err, &netErr)
}
