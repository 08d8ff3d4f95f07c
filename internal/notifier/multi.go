package notifier

import (
	"context"
	"errors"

	"github.com/fitcal/fitcal-backend/internal/usecase"
)

// Multi fans a notification out to every configured sink. One sink failing
// does not stop the others; the joined error is returned for logging.
type Multi struct {
	sinks []usecase.Notifier
}

func NewMulti(sinks ...usecase.Notifier) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Notify(ctx context.Context, n *usecase.Notification) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
