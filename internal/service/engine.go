package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
)

// EngineOptions is shared by the services that mutate bookings.
type EngineOptions struct {
	Location *time.Location
	Now      func() time.Time
	// Notifier may be nil, in which case every outcome is "skipped".
	Notifier notification.Notifier
	Logger   *slog.Logger
}

func (o EngineOptions) withDefaults(component string) EngineOptions {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With("component", component)
	return o
}

func (o EngineOptions) notify(ctx context.Context, msg notification.Message) notification.Outcome {
	return notification.Dispatch(ctx, o.Notifier, msg, o.Logger)
}

func slotMessage(kind notification.Kind, recipient, name string, slot *models.Slot, svc *models.Service) notification.Message {
	return notification.Message{
		Kind:      kind,
		Recipient: recipient,
		Name:      name,
		Date:      slot.DateString(),
		Time:      slot.TimeOfDay,
		Service:   svc.Name,
	}
}
