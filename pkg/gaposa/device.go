package gaposa

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
	"github.com/urmzd/gaposa/pkg/schema"
)

// Device is one hub. It owns the hub's poll coordinator and the entities
// derived from the last fetched document.
type Device struct {
	serial    string
	name      string
	api       API
	store     DocumentStore
	auth      model.ClientAuth
	validator *schema.Validator
	grace     time.Duration
	log       logr.Logger
	poll      *poll.Coordinator

	mu        sync.RWMutex
	doc       *model.DeviceDocument
	fetchedAt time.Time
	lastErr   error
	motors    []*Motor
	rooms     []*Room
	groups    []*Group
	schedules []*Schedule
	location  model.GeoPoint
	timezone  string
}

// NewDevice creates a hub acting for auth. No fetch happens until Update.
func NewDevice(api API, store DocumentStore, auth model.ClientAuth, ref model.DeviceRef, opts Options) *Device {
	opts = opts.withDefaults()
	d := &Device{
		serial:    ref.Serial,
		name:      ref.Name,
		api:       api,
		store:     store,
		auth:      auth,
		validator: opts.Validator,
		grace:     opts.GraceDelay,
		log:       opts.Logger.WithValues("serial", ref.Serial),
		timezone:  "UTC",
	}
	var obs poll.Observer
	if opts.Observer != nil {
		obs = opts.Observer(ref.Serial)
	}
	d.poll = poll.New(d.fetch, opts.Poll, d.log.WithName("poll"), obs)
	return d
}

// Serial returns the hub serial number.
func (d *Device) Serial() string { return d.serial }

// Name returns the hub name, preferring the fetched document's.
func (d *Device) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc != nil && d.doc.Info.Name != "" {
		return d.doc.Info.Name
	}
	return d.name
}

// Auth returns the client the hub's requests act for.
func (d *Device) Auth() model.ClientAuth { return d.auth }

// Path returns the hub's document path.
func (d *Device) Path() string {
	return "Devices/" + d.serial
}

func (d *Device) eventPath(scheduleID string, slot model.EventSlot) string {
	return d.Path() + "/Schedule/" + scheduleID + "." + string(slot)
}

// Update waits until cond holds after a fetch, or polling gives up.
func (d *Device) Update(ctx context.Context, cond poll.Condition) (poll.Outcome, error) {
	return d.poll.WaitForCondition(ctx, cond)
}

// Refresh waits for one fetch that starts after the call.
func (d *Device) Refresh(ctx context.Context) (poll.Outcome, error) {
	return d.poll.WaitForUpdate(ctx)
}

// Close stops polling and releases waiters.
func (d *Device) Close() {
	d.poll.Close()
}

// fetch is the coordinator's FetchFunc.
func (d *Device) fetch(ctx context.Context) error {
	raw, err := d.store.Get(ctx, d.Path())
	if err != nil {
		return d.failed(fmt.Errorf("fetching %s: %w", d.Path(), err))
	}
	if raw == nil {
		return d.failed(fmt.Errorf("%w: %s", ErrNoDocument, d.Path()))
	}
	if err := d.validator.ValidateJSON(schema.Device, raw); err != nil {
		return d.failed(fmt.Errorf("%w: %w", ErrInvalidDocument, err))
	}

	var doc model.DeviceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return d.failed(fmt.Errorf("%w: %w", ErrInvalidDocument, err))
	}
	for _, id := range doc.DeletedChannels {
		delete(doc.Channels, strconv.Itoa(id))
	}

	events, err := d.fetchEvents(ctx, doc.Schedule)
	if err != nil {
		return d.failed(err)
	}

	// A fetch the coordinator already gave up on must not overwrite state.
	if err := ctx.Err(); err != nil {
		return err
	}
	d.apply(&doc, events)
	return nil
}

func (d *Device) failed(err error) error {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
	return err
}

// fetchEvents reads the three event documents of every schedule
// concurrently.
func (d *Device) fetchEvents(ctx context.Context, schedules map[string]model.Schedule) (map[string][3]*model.ScheduleEvent, error) {
	var mu sync.Mutex
	events := make(map[string][3]*model.ScheduleEvent, len(schedules))

	g, gctx := errgroup.WithContext(ctx)
	for id := range schedules {
		for i, slot := range model.EventSlots {
			g.Go(func() error {
				ev, err := d.fetchEvent(gctx, id, slot)
				if err != nil {
					return err
				}
				mu.Lock()
				slots := events[id]
				slots[i] = ev
				events[id] = slots
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return events, nil
}

func (d *Device) fetchEvent(ctx context.Context, id string, slot model.EventSlot) (*model.ScheduleEvent, error) {
	path := d.eventPath(id, slot)
	raw, err := d.store.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if raw == nil {
		return nil, nil
	}
	if err := d.validator.ValidateJSON(schema.ScheduleEvent, raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, path, err)
	}
	var ev model.ScheduleEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, path, err)
	}
	return &ev, nil
}

// apply swaps in a new snapshot and reconciles entities by id, keeping the
// identity of entities that survive.
func (d *Device) apply(doc *model.DeviceDocument, events map[string][3]*model.ScheduleEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc = doc
	d.fetchedAt = time.Now()
	d.lastErr = nil

	d.motors = reconcile(d.motors, doc.Channels, func(id string) *Motor {
		return &Motor{device: d, id: id}
	})
	// Groups, rooms and schedules resolve motors, so they follow motors.
	d.groups = reconcile(d.groups, doc.Groups, func(id string) *Group {
		return &Group{device: d, id: id}
	})
	d.rooms = reconcile(d.rooms, doc.Rooms, func(id string) *Room {
		return &Room{device: d, id: id}
	})
	d.schedules = reconcile(d.schedules, doc.Schedule, func(id string) *Schedule {
		return &Schedule{device: d, id: id}
	})
	for _, s := range d.schedules {
		s.events = events[s.id]
	}

	d.log.V(1).Info("document applied",
		"motors", len(d.motors), "groups", len(d.groups), "rooms", len(d.rooms), "schedules", len(d.schedules))
}

type entity[T any] interface {
	ID() string
	set(T)
}

// reconcile updates items in place from update, drops items whose id is
// gone and appends new ones in id order.
func reconcile[T any, E entity[T]](items []E, update map[string]T, create func(id string) E) []E {
	out := make([]E, 0, len(update))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		v, ok := update[item.ID()]
		if !ok {
			continue
		}
		item.set(v)
		out = append(out, item)
		seen[item.ID()] = true
	}

	var added []string
	for id := range update {
		if !seen[id] {
			added = append(added, id)
		}
	}
	sortIDs(added)
	for _, id := range added {
		item := create(id)
		item.set(update[id])
		out = append(out, item)
	}
	return out
}

// sortIDs orders numeric ids numerically and everything else lexically.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
}

// Document returns a copy of the last fetched document, or nil.
func (d *Device) Document() *model.DeviceDocument {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return nil
	}
	doc := *d.doc
	return &doc
}

// Loaded reports whether a document has been fetched.
func (d *Device) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc != nil
}

// FetchedAt returns when the last successful fetch was applied.
func (d *Device) FetchedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fetchedAt
}

// LastError returns the error of the last failed fetch since the last
// successful one.
func (d *Device) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}

// State returns the hub connectivity block.
func (d *Device) State() model.DeviceState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return model.DeviceState{}
	}
	return d.doc.State
}

// Online reports whether the hub was online at the last fetch.
func (d *Device) Online() bool {
	return d.State().OnLine
}

// Info returns the hub's name and owning client.
func (d *Device) Info() model.DeviceInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return model.DeviceInfo{Name: d.name}
	}
	return d.doc.Info
}

// HeartBeat returns the hub's last network report.
func (d *Device) HeartBeat() model.HeartBeat {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return model.HeartBeat{}
	}
	return d.doc.HeartBeat
}

// SetLocation sets the point and zone used for new schedules and events.
func (d *Device) SetLocation(point model.GeoPoint, timezone string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = point
	if timezone != "" {
		d.timezone = timezone
	}
}

// Location returns the hub's location and time zone.
func (d *Device) Location() (model.GeoPoint, string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.location, d.timezone
}

// Motors returns the hub's motors, deleted channels excluded.
func (d *Device) Motors() []*Motor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Motor(nil), d.motors...)
}

// Groups returns the hub's groups.
func (d *Device) Groups() []*Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Group(nil), d.groups...)
}

// Rooms returns the hub's rooms.
func (d *Device) Rooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Room(nil), d.rooms...)
}

// Schedules returns the hub's schedules.
func (d *Device) Schedules() []*Schedule {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Schedule(nil), d.schedules...)
}

func findByID[E interface{ ID() string }](items []E, id string) E {
	for _, item := range items {
		if item.ID() == id {
			return item
		}
	}
	var zero E
	return zero
}

// Motor returns the motor with id, or nil.
func (d *Device) Motor(id string) *Motor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.motors, id)
}

// Group returns the group with id, or nil.
func (d *Device) Group(id string) *Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.groups, id)
}

// Room returns the room with id (its name), or nil.
func (d *Device) Room(id string) *Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.rooms, id)
}

// Schedule returns the schedule with id, or nil.
func (d *Device) Schedule(id string) *Schedule {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.schedules, id)
}

// HasSchedule reports whether a schedule with id exists.
func (d *Device) HasSchedule(id string) bool {
	return d.Schedule(id) != nil
}

// ScheduleNamed returns the schedule called name, or nil.
func (d *Device) ScheduleNamed(name string) *Schedule {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.schedules {
		if s.info.Name == name {
			return s
		}
	}
	return nil
}

// MotorsByID resolves ids, failing with ErrMotorNotFound if any is missing.
func (d *Device) MotorsByID(ids []int) ([]*Motor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Motor, 0, len(ids))
	for _, id := range ids {
		m := findByID(d.motors, strconv.Itoa(id))
		if m == nil {
			return nil, fmt.Errorf("%w: %d", ErrMotorNotFound, id)
		}
		out = append(out, m)
	}
	return out, nil
}

// motorsLocked resolves ids, skipping unknown ones. Callers hold d.mu.
func (d *Device) motorsLocked(ids []int) []*Motor {
	out := make([]*Motor, 0, len(ids))
	for _, id := range ids {
		if m := findByID(d.motors, strconv.Itoa(id)); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// NextScheduleID returns one more than the highest numeric schedule id.
func (d *Device) NextScheduleID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	highest := 0
	for _, s := range d.schedules {
		if n, err := strconv.Atoi(s.id); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// command runs the two-phase protocol: issue, wait the grace delay, then
// poll until done holds.
func (d *Device) command(ctx context.Context, issue func(context.Context) error, done func() bool) (poll.Outcome, error) {
	if err := issue(ctx); err != nil {
		return poll.Abandoned, err
	}
	if err := sleep(ctx, d.grace); err != nil {
		return poll.Abandoned, err
	}
	return d.Update(ctx, poll.Predicate(done))
}

// AddSchedule creates a schedule called name and waits until it appears.
// Icon defaults to "noImg" and Location to the hub's location.
func (d *Device) AddSchedule(ctx context.Context, name string, props model.ScheduleUpdate) (*Schedule, poll.Outcome, error) {
	if d.ScheduleNamed(name) != nil {
		return nil, poll.Abandoned, fmt.Errorf("%w: %q", ErrScheduleExists, name)
	}

	props.ID = ""
	props.Name = &name
	if props.Icon == nil {
		props.Icon = model.Ptr("noImg")
	}
	if loc, _ := d.Location(); props.Location == nil && !loc.IsZero() {
		props.Location = &loc
	}

	outcome, err := d.command(ctx,
		func(ctx context.Context) error {
			_, err := d.api.AddSchedule(ctx, d.auth, d.serial, props)
			if err != nil {
				return fmt.Errorf("adding schedule %q: %w", name, err)
			}
			return nil
		},
		func() bool { return d.ScheduleNamed(name) != nil },
	)
	return d.ScheduleNamed(name), outcome, err
}
