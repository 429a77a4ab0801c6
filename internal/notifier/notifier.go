package notifier

import (
	"context"
	"errors"

	"github.com/celidone/customers/internal/model"
)

// Notifier delivers customer change event to interested parties
type Notifier interface {
	Broadcast(context.Context, model.Event) error
}

// Subscriber streams customer change events until context is cancelled
type Subscriber interface {
	Subscribe(context.Context) (<-chan model.Event, error)
}

// NotifierFunc adapts plain function to Notifier
type NotifierFunc func(context.Context, model.Event) error

func (f NotifierFunc) Broadcast(ctx context.Context, e model.Event) error {
	return f(ctx, e)
}

// Nop discards every event
var Nop Notifier = NotifierFunc(func(context.Context, model.Event) error {
	return nil
})

type fanout struct {
	notifiers []Notifier
}

// Fanout broadcasts event with every notifier, failure of one notifier doesn't stop the others
func Fanout(notifiers ...Notifier) Notifier {
	if len(notifiers) == 1 {
		return notifiers[0]
	}
	return &fanout{notifiers: notifiers}
}

func (f *fanout) Broadcast(ctx context.Context, e model.Event) error {
	errs := make([]error, 0)
	for _, n := range f.notifiers {
		if err := n.Broadcast(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
