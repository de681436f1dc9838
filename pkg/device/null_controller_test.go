package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urmzd/gaposa/pkg/model"
)

func TestNullController(t *testing.T) {
	ctx := context.Background()
	var c Controller = NewNullController()

	devices, err := c.ListDevices(ctx)
	assert.NoError(t, err)
	assert.Empty(t, devices)

	_, err = c.GetDevice(ctx, "serial")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Command(ctx, "serial", TargetMotor, "1", model.CommandUp)
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, c.DeleteSchedule(ctx, "serial", "1"), ErrNotConnected)
	assert.False(t, c.IsConnected())
}

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{"motor": TargetMotor, "channel": TargetMotor, "Groups": TargetGroup} {
		got, err := ParseTarget(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTarget("room")
	assert.ErrorIs(t, err, ErrValidation)
}
