package gaposa

import (
	"context"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

// Group is a set of motors addressed with one command.
type Group struct {
	device *Device
	id     string
	info   model.Group
}

func (g *Group) set(info model.Group) { g.info = info }

func (g *Group) ID() string { return g.id }

func (g *Group) Device() *Device { return g.device }

func (g *Group) Name() string {
	g.device.mu.RLock()
	defer g.device.mu.RUnlock()
	return g.info.Name
}

func (g *Group) Icon() string {
	g.device.mu.RLock()
	defer g.device.mu.RUnlock()
	return g.info.Icon
}

func (g *Group) Favourite() bool {
	g.device.mu.RLock()
	defer g.device.mu.RUnlock()
	return g.info.Favourite
}

// Motors returns the member motors that exist on the hub.
func (g *Group) Motors() []*Motor {
	g.device.mu.RLock()
	defer g.device.mu.RUnlock()
	return g.device.motorsLocked(g.info.Motors)
}

func (g *Group) Up(ctx context.Context) (poll.Outcome, error) {
	return g.Command(ctx, model.CommandUp)
}

func (g *Group) Down(ctx context.Context) (poll.Outcome, error) {
	return g.Command(ctx, model.CommandDown)
}

func (g *Group) Stop(ctx context.Context) (poll.Outcome, error) {
	return g.Command(ctx, model.CommandStop)
}

func (g *Group) Preset(ctx context.Context) (poll.Outcome, error) {
	return g.Command(ctx, model.CommandPreset)
}

// Command sends cmd to the group and waits until its first member reports
// the expected state. An empty group is done after one fetch.
func (g *Group) Command(ctx context.Context, cmd model.Command) (poll.Outcome, error) {
	return g.device.control(ctx, model.ScopeGroup, g.id, cmd, func() bool {
		motors := g.Motors()
		return len(motors) == 0 || motors[0].State() == model.ExpectedState(cmd)
	})
}
