package wire

import (
	"context"
	"errors"

	"github.com/alanyang/agent-status/internal/domain/loading"
	portnotifier "github.com/alanyang/agent-status/internal/port/notifier"
)

// fanout delivers each loading update to every observer transport.
type fanout []portnotifier.LoadingNotifier

func (f fanout) NotifyLoading(ctx context.Context, u loading.Update) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyLoading(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
