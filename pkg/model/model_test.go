package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedState(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandUp, "UP"},
		{CommandDown, "DOWN"},
		{CommandStop, "STOP"},
		{CommandPreset, "STOP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpectedState(tt.cmd), tt.cmd.Name())
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{in: "up", want: CommandUp},
		{in: " DOWN ", want: CommandDown},
		{in: "0xcc", want: CommandStop},
		{in: "Preset", want: CommandPreset},
		{in: "open", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRepeatOn(t *testing.T) {
	tests := []struct {
		name string
		days []EventDays
		want EventRepeat
	}{
		{"all", []EventDays{AllDays}, EventRepeat{true, true, true, true, true, true, true}},
		{"weekdays", []EventDays{Weekdays}, EventRepeat{true, true, true, true, true, false, false}},
		{"weekends", []EventDays{Weekends}, EventRepeat{false, false, false, false, false, true, true}},
		{"single", []EventDays{Wednesday}, EventRepeat{false, false, true, false, false, false, false}},
		{"list", []EventDays{Monday, Sunday}, EventRepeat{true, false, false, false, false, false, true}},
		{"none", nil, EventRepeat{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepeatOn(tt.days...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RepeatOn() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	assert.Equal(t, []EventDays{Monday, Sunday}, RepeatOn(Monday, Sunday).Days())
}

func TestNewControlRequest(t *testing.T) {
	channel, err := json.Marshal(NewControlRequest("mock_serial", CommandDown, ScopeChannel, "1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"serial":"mock_serial","data":{"cmd":"0xee"},"channel":"1"}`, string(channel))

	group, err := json.Marshal(NewControlRequest("mock_serial", CommandDown, ScopeGroup, "1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"serial":"mock_serial","data":{"cmd":"0xee"},"group":"1"}`, string(group))
}

func TestScheduleUpdate_OmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(ScheduleUpdate{ID: "1", Active: Ptr(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Id":"1","Active":false}`, string(b))
}

func TestScheduleResponse_DeleteResult(t *testing.T) {
	var deleted ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(`{"apiStatus":"success","msg":"Schedule deleted","result":{"Schedule":true,"Down":true,"Up":false,"Preset":true}}`), &deleted))
	res, ok := deleted.DeleteResult()
	require.True(t, ok)
	assert.Equal(t, ScheduleDeleteResult{Schedule: true, Down: true, Preset: true}, res)

	var added ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(`{"apiStatus":"success","msg":"Schedule Add","result":"ok"}`), &added))
	_, ok = added.DeleteResult()
	assert.False(t, ok)
}

func TestEventSlotIndex(t *testing.T) {
	assert.Equal(t, 0, SlotUp.Index())
	assert.Equal(t, 2, SlotPreset.Index())
	assert.Equal(t, -1, EventSlot("SIDEWAYS").Index())
}
