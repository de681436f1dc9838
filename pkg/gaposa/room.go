package gaposa

import "github.com/urmzd/gaposa/pkg/model"

// Room is a display grouping of motors. Rooms are keyed by name.
type Room struct {
	device *Device
	id     string
	info   model.Room
}

func (r *Room) set(info model.Room) { r.info = info }

func (r *Room) ID() string { return r.id }

func (r *Room) Name() string {
	r.device.mu.RLock()
	defer r.device.mu.RUnlock()
	if r.info.Name == "" {
		return r.id
	}
	return r.info.Name
}

func (r *Room) Icon() string {
	r.device.mu.RLock()
	defer r.device.mu.RUnlock()
	return r.info.Icon
}

func (r *Room) Favourite() bool {
	r.device.mu.RLock()
	defer r.device.mu.RUnlock()
	return r.info.Favourite
}

func (r *Room) Motors() []*Motor {
	r.device.mu.RLock()
	defer r.device.mu.RUnlock()
	return r.device.motorsLocked(r.info.Motors)
}
