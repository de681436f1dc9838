package gaposa

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-logr/logr"

	"github.com/urmzd/gaposa/pkg/geo"
	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
	"github.com/urmzd/gaposa/pkg/schema"
)

// DefaultGraceDelay is the wait between issuing a command and the first poll.
const DefaultGraceDelay = 2 * time.Second

// API is the control service. backend.Client and emulator.Emulator implement
// it.
type API interface {
	Login(ctx context.Context) (*model.LoginResponse, error)
	Users(ctx context.Context, auth model.ClientAuth) (*model.UsersResponse, error)
	Control(ctx context.Context, auth model.ClientAuth, req model.ControlRequest) (*model.ControlResponse, error)
	AddSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, auth model.ClientAuth, serial, id string) (*model.ScheduleResponse, error)
	AddScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error)
	UpdateScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error)
	DeleteScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot) (*model.ScheduleEventResponse, error)
}

// DocumentStore reads documents by slash separated path. A missing document
// is returned as nil with a nil error.
type DocumentStore interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

// Options configures Open and NewDevice.
type Options struct {
	// Poll configures every device's coordinator.
	Poll poll.Config

	// GraceDelay is waited after each command before polling starts.
	GraceDelay time.Duration

	// Geo resolves user locations. Nil leaves locations unset.
	Geo geo.Resolver

	// Validator checks fetched documents. Nil uses a private one.
	Validator *schema.Validator

	// Observer, when set, returns the poll observer for a device serial.
	Observer func(serial string) poll.Observer

	Logger logr.Logger
}

// DefaultOptions returns the production timing.
func DefaultOptions() Options {
	return Options{
		Poll:       poll.DefaultConfig(),
		GraceDelay: DefaultGraceDelay,
		Logger:     logr.Discard(),
	}
}

func (o Options) withDefaults() Options {
	if o.Validator == nil {
		o.Validator = schema.NewValidator()
	}
	if o.GraceDelay < 0 {
		o.GraceDelay = 0
	}
	return o
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
