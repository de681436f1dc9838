package gaposa

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

const serial = "S1"

// fakeStore serves documents from memory and counts reads per path.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]any
	gets map[string]int
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]any{}, gets: map[string]int{}}
}

func (s *fakeStore) Get(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets[path]++
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *fakeStore) put(path string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = v
}

func (s *fakeStore) remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
}

// edit mutates the device document in place.
func (s *fakeStore) edit(fn func(doc *model.DeviceDocument)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs["Devices/"+serial].(*model.DeviceDocument)
	fn(doc)
}

func (s *fakeStore) reads(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[path]
}

func (s *fakeStore) resetReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = map[string]int{}
}

// fakeAPI records commands and lets tests react to them.
type fakeAPI struct {
	API

	mu            sync.Mutex
	controls      []model.ControlRequest
	updates       []model.ScheduleUpdate
	controlErr    error
	onControl     func(req model.ControlRequest)
	onAddSchedule func(update model.ScheduleUpdate)
	onSchedule    func(update model.ScheduleUpdate)
	onDelete      func(id string)
	onEvent       func(id string, slot model.EventSlot, event *model.ScheduleEvent)
}

func (a *fakeAPI) Control(_ context.Context, _ model.ClientAuth, req model.ControlRequest) (*model.ControlResponse, error) {
	a.mu.Lock()
	a.controls = append(a.controls, req)
	err, hook := a.controlErr, a.onControl
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(req)
	}
	return &model.ControlResponse{APICommand: model.StatusSuccess, Result: model.ControlResult{Success: model.StatusOK}}, nil
}

func (a *fakeAPI) AddSchedule(_ context.Context, _ model.ClientAuth, _ string, u model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	a.mu.Lock()
	a.updates = append(a.updates, u)
	a.mu.Unlock()
	if a.onAddSchedule != nil {
		a.onAddSchedule(u)
	}
	return &model.ScheduleResponse{APIStatus: "success", Result: json.RawMessage(`"ok"`)}, nil
}

func (a *fakeAPI) UpdateSchedule(_ context.Context, _ model.ClientAuth, _ string, u model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	a.mu.Lock()
	a.updates = append(a.updates, u)
	a.mu.Unlock()
	if a.onSchedule != nil {
		a.onSchedule(u)
	}
	return &model.ScheduleResponse{APIStatus: "success", Result: json.RawMessage(`"ok"`)}, nil
}

func (a *fakeAPI) DeleteSchedule(_ context.Context, _ model.ClientAuth, _ string, id string) (*model.ScheduleResponse, error) {
	if a.onDelete != nil {
		a.onDelete(id)
	}
	return &model.ScheduleResponse{APIStatus: "success", Result: json.RawMessage(`{"Schedule":true}`)}, nil
}

func (a *fakeAPI) AddScheduleEvent(_ context.Context, _ model.ClientAuth, _ string, id string, slot model.EventSlot, ev model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	if a.onEvent != nil {
		a.onEvent(id, slot, &ev)
	}
	return &model.ScheduleEventResponse{APIStatus: "success", Result: "ok"}, nil
}

func (a *fakeAPI) DeleteScheduleEvent(_ context.Context, _ model.ClientAuth, _ string, id string, slot model.EventSlot) (*model.ScheduleEventResponse, error) {
	if a.onEvent != nil {
		a.onEvent(id, slot, nil)
	}
	return &model.ScheduleEventResponse{APIStatus: "success", Result: "ok"}, nil
}

func (a *fakeAPI) controlCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.controls)
}

func testDocument() *model.DeviceDocument {
	return &model.DeviceDocument{
		State: model.DeviceState{OnLine: true, TimeStamp: "2024-01-01T00:00:00Z"},
		Info:  model.DeviceInfo{Name: "Hub", ClientID: "c1"},
		Channels: map[string]model.Channel{
			"1": {Name: "Left", State: model.StateDown},
			"2": {Name: "Right", State: model.StateDown},
			"3": {Name: "Gone", State: model.StateStop},
		},
		Rooms: map[string]model.Room{
			"Lounge": {Name: "Lounge", Motors: []int{1, 2}},
		},
		Groups: map[string]model.Group{
			"1": {Name: "Both", Motors: []int{1, 2}},
		},
		Schedule: map[string]model.Schedule{
			"1": {Name: "Morning", Groups: []int{}, Motors: []int{1}, Icon: "noImg", Active: false},
		},
		DeletedChannels: []int{3},
		Pending:         []any{},
		Uid:             []string{"u1"},
	}
}

func testOptions() Options {
	return Options{
		Poll:   poll.Config{Interval: 0, MaxRetries: 5, FetchTimeout: time.Second},
		Logger: logr.Discard(),
	}
}

func newTestDevice(t *testing.T) (*Device, *fakeAPI, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.put("Devices/"+serial, testDocument())
	api := &fakeAPI{}
	d := NewDevice(api, store, model.ClientAuth{Client: "c1", Role: 1}, model.DeviceRef{Serial: serial, Name: "Hub"}, testOptions())
	t.Cleanup(d.Close)

	_, err := d.Refresh(context.Background())
	require.NoError(t, err)
	require.NoError(t, d.LastError())
	store.resetReads()
	return d, api, store
}

func TestDeviceFetch(t *testing.T) {
	d, _, store := newTestDevice(t)

	require.True(t, d.Loaded())
	assert.Equal(t, "Hub", d.Name())
	assert.True(t, d.Online())

	// Deleted channels never become motors.
	var ids []string
	for _, m := range d.Motors() {
		ids = append(ids, m.ID())
	}
	assert.Equal(t, []string{"1", "2"}, ids)

	require.Len(t, d.Groups(), 1)
	assert.Len(t, d.Groups()[0].Motors(), 2)
	require.NotNil(t, d.Room("Lounge"))
	assert.Equal(t, "Left", d.Room("Lounge").Motors()[0].Name())

	_, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads("Devices/S1"))
	for _, slot := range model.EventSlots {
		assert.Equal(t, 1, store.reads("Devices/S1/Schedule/1."+string(slot)), slot)
	}
}

func TestDeviceScheduleEvents(t *testing.T) {
	d, _, store := newTestDevice(t)
	up := model.ScheduleEvent{EventRepeat: model.RepeatOn(model.Weekdays), TimeZone: "UTC", Motors: []int{1}, EventMode: model.EventMode{TimeDay: true}, EventEpoch: 3600}
	store.put("Devices/S1/Schedule/1.UP", up)

	_, err := d.Refresh(context.Background())
	require.NoError(t, err)

	s := d.Schedule("1")
	require.NotNil(t, s)
	events := s.Events()
	require.NotNil(t, events[0])
	assert.Equal(t, int64(3600), events[0].EventEpoch)
	assert.Nil(t, events[1])
	assert.Nil(t, events[2])
	assert.Equal(t, events[0], s.Event(model.SlotUp))
}

func TestDeviceReconcileKeepsIdentity(t *testing.T) {
	d, _, store := newTestDevice(t)
	left := d.Motor("1")
	group := d.Group("1")
	require.NotNil(t, left)

	store.edit(func(doc *model.DeviceDocument) {
		doc.Channels["1"] = model.Channel{Name: "Left Renamed", State: model.StateUp}
		delete(doc.Channels, "2")
		doc.Channels["10"] = model.Channel{Name: "New", State: model.StateStop}
		doc.Channels["4"] = model.Channel{Name: "Four", State: model.StateStop}
	})
	_, err := d.Refresh(context.Background())
	require.NoError(t, err)

	assert.Same(t, left, d.Motor("1"))
	assert.Same(t, group, d.Group("1"))
	assert.Equal(t, "Left Renamed", left.Name())
	assert.Equal(t, model.StateUp, left.State())
	assert.Nil(t, d.Motor("2"))

	var ids []string
	for _, m := range d.Motors() {
		ids = append(ids, m.ID())
	}
	assert.Equal(t, []string{"1", "4", "10"}, ids)

	// Group members that disappeared are skipped.
	assert.Len(t, group.Motors(), 1)
	_, err = d.MotorsByID([]int{1, 2})
	assert.ErrorIs(t, err, ErrMotorNotFound)
}

func TestDeviceFetchFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *fakeStore)
		want  error
	}{
		{"missing document", func(s *fakeStore) { s.remove("Devices/S1") }, ErrNoDocument},
		{"invalid document", func(s *fakeStore) { s.put("Devices/S1", map[string]any{"State": "broken"}) }, ErrInvalidDocument},
		{"store error", func(s *fakeStore) { s.err = errors.New("network down") }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, store := newTestDevice(t)
			before := d.Motor("1")
			tt.setup(store)

			outcome, err := d.Refresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, poll.Satisfied, outcome)

			require.Error(t, d.LastError())
			if tt.want != nil {
				assert.ErrorIs(t, d.LastError(), tt.want)
			}
			// The previous snapshot stays in place.
			assert.Same(t, before, d.Motor("1"))
		})
	}
}

func TestMotorCommandRoundTrip(t *testing.T) {
	d, api, store := newTestDevice(t)
	api.onControl = func(req model.ControlRequest) {
		store.edit(func(doc *model.DeviceDocument) {
			ch := doc.Channels[req.Channel]
			ch.State = model.ExpectedState(req.Data.Cmd)
			doc.Channels[req.Channel] = ch
		})
	}

	m := d.Motor("1")
	outcome, err := m.Up(context.Background())
	require.NoError(t, err)

	assert.Equal(t, poll.Satisfied, outcome)
	assert.Equal(t, model.StateUp, m.State())
	require.Equal(t, 1, api.controlCount())
	assert.Equal(t, model.ControlRequest{Serial: serial, Data: model.ControlData{Cmd: model.CommandUp}, Channel: "1"}, api.controls[0])
	assert.Equal(t, 1, store.reads("Devices/S1"))
}

func TestMotorPresetSettlesOnStop(t *testing.T) {
	d, api, store := newTestDevice(t)
	api.onControl = func(req model.ControlRequest) {
		store.edit(func(doc *model.DeviceDocument) {
			ch := doc.Channels[req.Channel]
			ch.State = model.StateStop
			doc.Channels[req.Channel] = ch
		})
	}

	outcome, err := d.Motor("2").Preset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.Equal(t, model.CommandPreset, api.controls[0].Data.Cmd)
}

func TestMotorCommandErrorPropagates(t *testing.T) {
	d, api, store := newTestDevice(t)
	boom := errors.New("rejected")
	api.controlErr = boom

	_, err := d.Motor("1").Down(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.reads("Devices/S1"))
}

func TestMotorCommandGivesUp(t *testing.T) {
	d, api, store := newTestDevice(t)

	outcome, err := d.Motor("1").Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Exhausted, outcome)
	assert.Equal(t, 1, api.controlCount())
	assert.Equal(t, 6, store.reads("Devices/S1"))
}

func TestGroupCommandWatchesFirstMotor(t *testing.T) {
	d, api, store := newTestDevice(t)
	api.onControl = func(req model.ControlRequest) {
		assert.Equal(t, "1", req.Group)
		store.edit(func(doc *model.DeviceDocument) {
			ch := doc.Channels["1"]
			ch.State = model.StateStop
			doc.Channels["1"] = ch
		})
	}

	outcome, err := d.Group("1").Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.Equal(t, 1, store.reads("Devices/S1"))
}

func TestCommandGraceDelay(t *testing.T) {
	store := newFakeStore()
	store.put("Devices/"+serial, testDocument())
	api := &fakeAPI{}
	opts := testOptions()
	opts.GraceDelay = 50 * time.Millisecond
	d := NewDevice(api, store, model.ClientAuth{}, model.DeviceRef{Serial: serial}, opts)
	defer d.Close()

	var issued time.Time
	api.onControl = func(model.ControlRequest) {
		issued = time.Now()
		store.edit(func(doc *model.DeviceDocument) {
			doc.Channels["1"] = model.Channel{Name: "Left", State: model.StateUp}
		})
	}
	_, err := d.Refresh(context.Background())
	require.NoError(t, err)

	m := d.Motor("1")
	require.NotNil(t, m)
	outcome, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.GreaterOrEqual(t, time.Since(issued), 50*time.Millisecond)

	// Cancelling during the grace delay abandons without polling.
	ctx, cancel := context.WithCancel(context.Background())
	api.onControl = func(model.ControlRequest) { cancel() }
	store.resetReads()
	outcome, err = m.Down(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, poll.Abandoned, outcome)
	assert.Equal(t, 0, store.reads("Devices/S1"))
}

func TestAddSchedule(t *testing.T) {
	d, api, store := newTestDevice(t)
	d.SetLocation(model.GeoPoint{Latitude: 10, Longitude: 20}, "Europe/Paris")

	_, _, err := d.AddSchedule(context.Background(), "Morning", model.ScheduleUpdate{})
	assert.ErrorIs(t, err, ErrScheduleExists)

	api.onAddSchedule = func(u model.ScheduleUpdate) {
		store.edit(func(doc *model.DeviceDocument) {
			doc.Schedule["2"] = model.Schedule{Name: *u.Name, Icon: *u.Icon, Location: *u.Location, Groups: []int{}, Motors: u.Motors}
		})
	}
	assert.Equal(t, 2, d.NextScheduleID())

	s, outcome, err := d.AddSchedule(context.Background(), "Evening", model.ScheduleUpdate{Motors: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	require.NotNil(t, s)
	assert.Equal(t, "2", s.ID())
	assert.Equal(t, "noImg", s.Icon())
	assert.Equal(t, model.GeoPoint{Latitude: 10, Longitude: 20}, s.Location())
	assert.Equal(t, []int{2}, s.MotorIDs())
	assert.Equal(t, 3, d.NextScheduleID())

	require.Len(t, api.updates, 1)
	assert.Empty(t, api.updates[0].ID)
}

func TestScheduleMutations(t *testing.T) {
	d, api, store := newTestDevice(t)
	s := d.Schedule("1")
	require.NotNil(t, s)

	api.onSchedule = func(u model.ScheduleUpdate) {
		store.edit(func(doc *model.DeviceDocument) {
			sched := doc.Schedule[u.ID]
			sched.Active = *u.Active
			doc.Schedule[u.ID] = sched
		})
	}
	outcome, err := s.SetActive(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.True(t, s.Active())
	assert.Equal(t, "1", api.updates[0].ID)

	event := model.ScheduleEvent{EventRepeat: model.RepeatOn(model.AllDays), Motors: []int{1}, EventMode: model.EventMode{Sunset: true}}
	api.onEvent = func(id string, slot model.EventSlot, ev *model.ScheduleEvent) {
		path := "Devices/S1/Schedule/" + id + "." + string(slot)
		if ev == nil {
			store.remove(path)
			return
		}
		store.put(path, *ev)
	}
	outcome, err = s.SetEvent(context.Background(), model.SlotDown, event)
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	require.NotNil(t, s.Event(model.SlotDown))
	assert.True(t, s.Event(model.SlotDown).EventMode.Sunset)

	outcome, err = s.DeleteEvent(context.Background(), model.SlotDown)
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.Nil(t, s.Event(model.SlotDown))

	_, err = s.SetEvent(context.Background(), "SIDEWAYS", event)
	assert.Error(t, err)

	api.onDelete = func(id string) {
		store.edit(func(doc *model.DeviceDocument) { delete(doc.Schedule, id) })
	}
	outcome, err = s.Delete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.False(t, d.HasSchedule("1"))
	assert.Empty(t, d.Schedules())
}

func TestEventBuilders(t *testing.T) {
	d, _, _ := newTestDevice(t)
	london := model.GeoPoint{Latitude: 51.5072, Longitude: -0.1276}
	d.SetLocation(london, "Europe/London")

	ev := d.TimeOfDayEvent(model.RepeatOn(model.Monday), 7*time.Hour+30*time.Minute, []int{1})
	assert.True(t, ev.EventMode.TimeDay)
	assert.Equal(t, int64(27000), ev.EventEpoch)
	assert.Equal(t, "Europe/London", ev.TimeZone)
	assert.Equal(t, london, ev.Location)
	assert.True(t, ev.Active)

	now := time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	rise, err := d.SunriseEvent(model.RepeatOn(model.Weekends), nil, now)
	require.NoError(t, err)
	assert.True(t, rise.EventMode.Sunrise)
	assert.Greater(t, rise.EventEpoch, now.Unix())
	assert.Equal(t, []int{}, rise.Motors)

	set, err := d.SunsetEvent(model.RepeatOn(model.AllDays), []int{2}, now)
	require.NoError(t, err)
	assert.True(t, set.EventMode.Sunset)
	assert.Less(t, set.EventEpoch, rise.EventEpoch)
}
