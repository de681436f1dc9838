package model

// DeviceDocument is the server-held state of one hub, stored at
// Devices/<serial>.
type DeviceDocument struct {
	State           DeviceState         `json:"State"`
	Info            DeviceInfo          `json:"Info"`
	Assistant       Assistant           `json:"Assistant"`
	Channels        map[string]Channel  `json:"Channels"`
	Rooms           map[string]Room     `json:"Rooms"`
	Groups          map[string]Group    `json:"Groups"`
	Schedule        map[string]Schedule `json:"Schedule,omitempty"`
	HeartBeat       HeartBeat           `json:"HeartBeat"`
	DeletedChannels []int               `json:"DeletedChannels"`
	Pending         []any               `json:"Pending"`
	Uid             []string            `json:"Uid"`
}

// DeviceState is the hub's connectivity block.
type DeviceState struct {
	TimeStamp string `json:"TimeStamp"`
	OnLine    bool   `json:"OnLine"`
	LastCmd   string `json:"LastCmd"`
}

// DeviceInfo names the hub and its owning client.
type DeviceInfo struct {
	Name     string `json:"Name"`
	ClientID string `json:"ClientId"`
}

// Assistant flags voice assistant linking.
type Assistant struct {
	Alexa bool `json:"Alexa"`
	Home  bool `json:"Home"`
}

// HeartBeat is the hub's last radio/network report.
type HeartBeat struct {
	Subnet    string `json:"Subnet"`
	Channels  string `json:"Channels"`
	Software  string `json:"Software"`
	Signal    string `json:"Signal"`
	Mode      string `json:"Mode"`
	Frequency string `json:"Frequency"`
	Gateway   string `json:"Gateway"`
	IP        string `json:"Ip"`
}

// Channel is one motor as reported by the hub.
type Channel struct {
	StatusCode  int    `json:"StatusCode"`
	State       string `json:"State"`
	HomeRunning bool   `json:"HomeRunning"`
	Location    string `json:"Location"`
	HomePercent int    `json:"HomePercent"`
	Icon        string `json:"Icon"`
	Name        string `json:"Name"`
	HomePaused  bool   `json:"HomePaused"`
}

// Room groups motors for display. Rooms are keyed by name.
type Room struct {
	Favourite bool   `json:"Favourite"`
	Motors    []int  `json:"Motors"`
	Name      string `json:"Name"`
	Icon      string `json:"Icon"`
}

// Group is a set of motors addressable with one command.
type Group struct {
	Favourite bool   `json:"Favourite"`
	Icon      string `json:"Icon"`
	Name      string `json:"Name"`
	Motors    []int  `json:"Motors"`
}

// Schedule is a named automation over motors and groups.
type Schedule struct {
	ID       string   `json:"Id,omitempty"`
	Name     string   `json:"Name"`
	Groups   []int    `json:"Groups"`
	Location GeoPoint `json:"Location"`
	Motors   []int    `json:"Motors"`
	Icon     string   `json:"Icon"`
	Active   bool     `json:"Active"`
}

// GeoPoint uses the document store's geopoint field names.
type GeoPoint struct {
	Latitude  float64 `json:"_latitude"`
	Longitude float64 `json:"_longitude"`
}

// IsZero reports whether p is the null island placeholder.
func (p GeoPoint) IsZero() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// EventSlot names one of the three event documents under a schedule.
type EventSlot string

const (
	SlotUp     EventSlot = "UP"
	SlotDown   EventSlot = "DOWN"
	SlotPreset EventSlot = "PRESET"
)

// EventSlots lists the slots in document order.
var EventSlots = [3]EventSlot{SlotUp, SlotDown, SlotPreset}

// Index returns the slot's position in EventSlots, or -1.
func (s EventSlot) Index() int {
	for i, slot := range EventSlots {
		if slot == s {
			return i
		}
	}
	return -1
}

// ScheduleEvent is the document at Devices/<serial>/Schedule/<id>.<slot>.
type ScheduleEvent struct {
	EventRepeat EventRepeat `json:"EventRepeat"`
	TimeZone    string      `json:"TimeZone"`
	Active      bool        `json:"Active"`
	FutureEvent bool        `json:"FutureEvent"`
	Submit      bool        `json:"Submit"`
	EventEpoch  int64       `json:"EventEpoch"`
	Location    GeoPoint    `json:"Location"`
	Motors      []int       `json:"Motors"`
	EventMode   EventMode   `json:"EventMode"`
}

// EventMode selects how the event time is derived.
type EventMode struct {
	Sunrise bool `json:"Sunrise"`
	Sunset  bool `json:"Sunset"`
	TimeDay bool `json:"TimeDay"`
}
