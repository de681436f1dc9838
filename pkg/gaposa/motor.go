package gaposa

import (
	"context"
	"fmt"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

// Motor is one shade channel of a hub. Its fields follow the hub document
// and change after every fetch.
type Motor struct {
	device *Device
	id     string
	ch     model.Channel
}

func (m *Motor) set(ch model.Channel) { m.ch = ch }

// ID returns the channel number as a string.
func (m *Motor) ID() string { return m.id }

// Device returns the owning hub.
func (m *Motor) Device() *Device { return m.device }

func (m *Motor) channel() model.Channel {
	m.device.mu.RLock()
	defer m.device.mu.RUnlock()
	return m.ch
}

func (m *Motor) Name() string     { return m.channel().Name }
func (m *Motor) State() string    { return m.channel().State }
func (m *Motor) StatusCode() int  { return m.channel().StatusCode }
func (m *Motor) Running() bool    { return m.channel().HomeRunning }
func (m *Motor) Percent() int     { return m.channel().HomePercent }
func (m *Motor) Paused() bool     { return m.channel().HomePaused }
func (m *Motor) Location() string { return m.channel().Location }
func (m *Motor) Icon() string     { return m.channel().Icon }

// Channel returns a copy of the motor's document entry.
func (m *Motor) Channel() model.Channel { return m.channel() }

func (m *Motor) Up(ctx context.Context) (poll.Outcome, error) {
	return m.Command(ctx, model.CommandUp)
}

func (m *Motor) Down(ctx context.Context) (poll.Outcome, error) {
	return m.Command(ctx, model.CommandDown)
}

func (m *Motor) Stop(ctx context.Context) (poll.Outcome, error) {
	return m.Command(ctx, model.CommandStop)
}

func (m *Motor) Preset(ctx context.Context) (poll.Outcome, error) {
	return m.Command(ctx, model.CommandPreset)
}

// Command sends cmd to this channel and waits until the motor reports the
// command's expected state.
func (m *Motor) Command(ctx context.Context, cmd model.Command) (poll.Outcome, error) {
	return m.device.control(ctx, model.ScopeChannel, m.id, cmd, func() bool {
		return m.State() == model.ExpectedState(cmd)
	})
}

func (d *Device) control(ctx context.Context, scope model.Scope, id string, cmd model.Command, done func() bool) (poll.Outcome, error) {
	return d.command(ctx,
		func(ctx context.Context) error {
			req := model.NewControlRequest(d.serial, cmd, scope, id)
			if _, err := d.api.Control(ctx, d.auth, req); err != nil {
				return fmt.Errorf("sending %s to %s %s: %w", cmd.Name(), scope, id, err)
			}
			d.log.V(1).Info("command sent", "scope", scope, "id", id, "cmd", cmd.Name())
			return nil
		},
		done,
	)
}
