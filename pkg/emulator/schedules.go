package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/db"
	"github.com/urmzd/gaposa/pkg/model"
)

const (
	schedulesPath = "/v1/schedules"
	eventsPath    = "/v1/schedules/event"
)

func eventPath(serial, id string, slot model.EventSlot) string {
	return devicePath(serial) + "/Schedule/" + id + "." + string(slot)
}

func scheduleOK() *model.ScheduleResponse {
	return &model.ScheduleResponse{APIStatus: "success", Msg: "Schedule updated", Result: json.RawMessage(`"ok"`)}
}

// AddSchedule stores a new schedule under the next free numeric id.
func (e *Emulator) AddSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	if err := e.authorize(ctx, http.MethodPut, schedulesPath, auth, serial); err != nil {
		return nil, err
	}
	if update.Name == nil || *update.Name == "" {
		return nil, apiError(http.MethodPut, schedulesPath, http.StatusBadRequest, backend.ErrBadRequest, "schedule name required")
	}

	err := e.store.Update(ctx, devicePath(serial), func(doc map[string]any) error {
		schedules := mapAt(doc, "Schedule")
		next := 1
		for id := range schedules {
			if n, err := strconv.Atoi(id); err == nil && n >= next {
				next = n + 1
			}
		}
		sched := map[string]any{
			"Name":     *update.Name,
			"Groups":   []int{},
			"Motors":   []int{},
			"Icon":     "noImg",
			"Active":   false,
			"Location": model.GeoPoint{},
		}
		applyUpdate(sched, update)
		schedules[strconv.Itoa(next)] = sched
		return nil
	})
	if err != nil {
		return nil, e.mutationError(http.MethodPut, schedulesPath, err)
	}
	return scheduleOK(), nil
}

// UpdateSchedule merges the set fields of update into an existing schedule.
func (e *Emulator) UpdateSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	if err := e.authorize(ctx, http.MethodPut, schedulesPath, auth, serial); err != nil {
		return nil, err
	}

	err := e.store.Update(ctx, devicePath(serial), func(doc map[string]any) error {
		sched, ok := mapAt(doc, "Schedule")[update.ID].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: schedule %s", db.ErrNotFound, update.ID)
		}
		applyUpdate(sched, update)
		return nil
	})
	if err != nil {
		return nil, e.mutationError(http.MethodPut, schedulesPath, err)
	}
	return scheduleOK(), nil
}

// DeleteSchedule removes a schedule and its event documents.
func (e *Emulator) DeleteSchedule(ctx context.Context, auth model.ClientAuth, serial, id string) (*model.ScheduleResponse, error) {
	if err := e.authorize(ctx, http.MethodDelete, schedulesPath, auth, serial); err != nil {
		return nil, err
	}

	var result model.ScheduleDeleteResult
	err := e.store.Update(ctx, devicePath(serial), func(doc map[string]any) error {
		schedules := mapAt(doc, "Schedule")
		_, result.Schedule = schedules[id]
		delete(schedules, id)
		return nil
	})
	if err != nil {
		return nil, e.mutationError(http.MethodDelete, schedulesPath, err)
	}

	for _, slot := range model.EventSlots {
		existed, err := e.store.Delete(ctx, eventPath(serial, id, slot))
		if err != nil {
			return nil, err
		}
		switch slot {
		case model.SlotUp:
			result.Up = existed
		case model.SlotDown:
			result.Down = existed
		case model.SlotPreset:
			result.Preset = existed
		}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &model.ScheduleResponse{APIStatus: "success", Msg: "Schedule deleted", Result: raw}, nil
}

// AddScheduleEvent stores the event for one slot of a schedule.
func (e *Emulator) AddScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	return e.putEvent(ctx, auth, serial, id, slot, event)
}

// UpdateScheduleEvent replaces the event for one slot of a schedule.
func (e *Emulator) UpdateScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	return e.putEvent(ctx, auth, serial, id, slot, event)
}

func (e *Emulator) putEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	if err := e.authorize(ctx, http.MethodPut, eventsPath, auth, serial); err != nil {
		return nil, err
	}
	if err := e.checkSchedule(ctx, http.MethodPut, serial, id, slot); err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, eventPath(serial, id, slot), event); err != nil {
		return nil, err
	}
	return &model.ScheduleEventResponse{APIStatus: "success", Msg: "Event updated", Result: "ok"}, nil
}

// DeleteScheduleEvent removes the event for one slot of a schedule.
func (e *Emulator) DeleteScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot) (*model.ScheduleEventResponse, error) {
	if err := e.authorize(ctx, http.MethodDelete, eventsPath, auth, serial); err != nil {
		return nil, err
	}
	if err := e.checkSchedule(ctx, http.MethodDelete, serial, id, slot); err != nil {
		return nil, err
	}
	if _, err := e.store.Delete(ctx, eventPath(serial, id, slot)); err != nil {
		return nil, err
	}
	return &model.ScheduleEventResponse{APIStatus: "success", Msg: "Event deleted", Result: "ok"}, nil
}

func (e *Emulator) checkSchedule(ctx context.Context, method, serial, id string, slot model.EventSlot) error {
	if slot.Index() < 0 {
		return apiError(method, eventsPath, http.StatusBadRequest, backend.ErrBadRequest, "unknown event slot "+string(slot))
	}
	raw, err := e.store.Get(ctx, devicePath(serial))
	if err != nil {
		return err
	}
	var doc model.DeviceDocument
	if raw != nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	if _, ok := doc.Schedule[id]; !ok {
		return apiError(method, eventsPath, http.StatusBadRequest, backend.ErrBadRequest, "unknown schedule "+id)
	}
	return nil
}

func (e *Emulator) mutationError(method, path string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return apiError(method, path, http.StatusBadRequest, backend.ErrBadRequest, err.Error())
	}
	return err
}

func applyUpdate(sched map[string]any, u model.ScheduleUpdate) {
	if u.Name != nil {
		sched["Name"] = *u.Name
	}
	if u.Groups != nil {
		sched["Groups"] = u.Groups
	}
	if u.Motors != nil {
		sched["Motors"] = u.Motors
	}
	if u.Location != nil {
		sched["Location"] = *u.Location
	}
	if u.Icon != nil {
		sched["Icon"] = *u.Icon
	}
	if u.Active != nil {
		sched["Active"] = *u.Active
	}
}
