// Package notify fans recorded submissions out to the event log and the
// message broker.
package notify

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/ledger"
)

// Multi calls every notifier and reports the first failure.
type Multi []ledger.Notifier

func (m Multi) Notify(ctx context.Context, rec ledger.Record) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, rec); err != nil && first == nil {
			first = errors.Wrapf(err, "notifier %T", n)
		}
	}
	return first
}
