package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/gaposa/pkg/model"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		in   string
		want model.EventRepeat
	}{
		{"all", model.RepeatOn(model.AllDays)},
		{"weekdays", model.RepeatOn(model.Weekdays)},
		{"Weekends", model.RepeatOn(model.Weekends)},
		{"mon,wed, fri", model.RepeatOn(model.Monday, model.Wednesday, model.Friday)},
		{"saturday,sunday", model.RepeatOn(model.Weekends)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDays(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseDays("mon,funday")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := parseTimeOfDay("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+30*time.Minute, got)

	for _, bad := range []string{"7", "24:00", "12:60", "ab:cd"} {
		_, err := parseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSlot(t *testing.T) {
	slot, err := parseSlot("down")
	require.NoError(t, err)
	assert.Equal(t, model.SlotDown, slot)

	_, err = parseSlot("noon")
	assert.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	out := map[string]any{"serial": "ABC", "motors": []int{1, 2}}

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, "json", out))
	assert.JSONEq(t, `{"serial":"ABC","motors":[1,2]}`, buf.String())

	buf.Reset()
	require.NoError(t, printResult(&buf, "yaml", out))
	assert.YAMLEq(t, "serial: ABC\nmotors: [1, 2]\n", buf.String())

	assert.Error(t, printResult(&buf, "xml", out))
}
