package model

import "encoding/json"

// Status values returned by the control backend.
const (
	StatusSuccess = "Success"
	StatusOK      = "OK"
)

// ClientAuth selects the client (site) a request acts for. The zero value
// sends no client header.
type ClientAuth struct {
	Client string `json:"client"`
	Role   int    `json:"role"`
}

// IsZero reports whether no client is selected.
func (a ClientAuth) IsZero() bool {
	return a.Client == ""
}

// LoginResponse is returned by GET /v1/login.
type LoginResponse struct {
	APIStatus string      `json:"apiStatus"`
	Msg       string      `json:"msg"`
	Result    LoginResult `json:"result"`
}

// LoginResult lists the clients the account can act for.
type LoginResult struct {
	TermsAgreed bool                  `json:"TermsAgreed"`
	UserRole    int                   `json:"UserRole"`
	Clients     map[string]ClientInfo `json:"Clients"`
}

// ClientInfo is one client (site) entry of a login result.
type ClientInfo struct {
	Role    int         `json:"Role"`
	Name    string      `json:"Name"`
	Devices []DeviceRef `json:"Devices"`
}

// DeviceRef identifies a hub.
type DeviceRef struct {
	Serial string `json:"Serial"`
	Name   string `json:"Name"`
}

// UsersResponse is returned by GET /v1/users.
type UsersResponse struct {
	APIStatus string      `json:"apiStatus"`
	Msg       string      `json:"msg"`
	Result    UsersResult `json:"result"`
}

// UsersResult wraps the user profile.
type UsersResult struct {
	Info UserInfo `json:"Info"`
}

// UserInfo is the account profile of the signed-in user.
type UserInfo struct {
	UID              string         `json:"Uid"`
	Name             string         `json:"Name"`
	Email            string         `json:"Email"`
	Mobile           string         `json:"Mobile"`
	Country          string         `json:"Country"`
	CountryCode      string         `json:"CountryCode"`
	CountryID        string         `json:"CountryID"`
	Role             int            `json:"Role"`
	Active           bool           `json:"Active"`
	CompoundLocation string         `json:"CompoundLocation"`
	Joined           map[string]int `json:"Joined"`
	TermsAgreed      bool           `json:"TermsAgreed"`
	EmailAlert       bool           `json:"EmailAlert"`
}

// ControlRequest is the payload of POST /control. Exactly one of Channel and
// Group is set.
type ControlRequest struct {
	Serial  string      `json:"serial"`
	Data    ControlData `json:"data"`
	Channel string      `json:"channel,omitempty"`
	Group   string      `json:"group,omitempty"`
}

// ControlData carries the command code.
type ControlData struct {
	Cmd Command `json:"cmd"`
}

// NewControlRequest builds a control payload addressing id within scope.
func NewControlRequest(serial string, cmd Command, scope Scope, id string) ControlRequest {
	req := ControlRequest{Serial: serial, Data: ControlData{Cmd: cmd}}
	if scope == ScopeGroup {
		req.Group = id
	} else {
		req.Channel = id
	}
	return req
}

// ControlResponse is returned by POST /control.
type ControlResponse struct {
	APICommand string        `json:"apiCommand"`
	Msg        string        `json:"msg"`
	Result     ControlResult `json:"result"`
}

// ControlResult echoes the command outcome.
type ControlResult struct {
	Success string `json:"Success"`
}

// ScheduleUpdate is a partial schedule. Fields left nil are not sent; an
// empty ID creates a new schedule.
type ScheduleUpdate struct {
	ID       string    `json:"Id,omitempty"`
	Name     *string   `json:"Name,omitempty"`
	Groups   []int     `json:"Groups,omitempty"`
	Location *GeoPoint `json:"Location,omitempty"`
	Motors   []int     `json:"Motors,omitempty"`
	Icon     *string   `json:"Icon,omitempty"`
	Active   *bool     `json:"Active,omitempty"`
}

// ScheduleRequest is the payload of /v1/schedules.
type ScheduleRequest struct {
	Serial   string         `json:"serial"`
	Schedule ScheduleUpdate `json:"schedule"`
}

// ScheduleResponse is returned by /v1/schedules. Result is either the string
// "ok" or, for deletions, a ScheduleDeleteResult object.
type ScheduleResponse struct {
	APIStatus string          `json:"apiStatus"`
	Msg       string          `json:"msg"`
	Result    json.RawMessage `json:"result"`
}

// DeleteResult decodes Result as a ScheduleDeleteResult.
func (r *ScheduleResponse) DeleteResult() (ScheduleDeleteResult, bool) {
	var out ScheduleDeleteResult
	if len(r.Result) == 0 || r.Result[0] != '{' {
		return out, false
	}
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return out, false
	}
	return out, true
}

// ScheduleDeleteResult reports which parts of a schedule were removed.
type ScheduleDeleteResult struct {
	Schedule bool `json:"Schedule"`
	Down     bool `json:"Down"`
	Up       bool `json:"Up"`
	Preset   bool `json:"Preset"`
}

// ScheduleEventSelector addresses one event slot of a schedule.
type ScheduleEventSelector struct {
	ID   string    `json:"Id"`
	Mode EventSlot `json:"Mode"`
}

// ScheduleEventRequest is the payload of /v1/schedules/event. Event is
// omitted for deletions.
type ScheduleEventRequest struct {
	Serial   string                `json:"serial"`
	Schedule ScheduleEventSelector `json:"schedule"`
	Event    *ScheduleEvent        `json:"event,omitempty"`
}

// ScheduleEventResponse is returned by /v1/schedules/event.
type ScheduleEventResponse struct {
	APIStatus string `json:"apiStatus"`
	Msg       string `json:"msg"`
	Result    string `json:"result"`
}

// Envelope wraps every request body.
type Envelope struct {
	Payload any `json:"payload"`
}

// Ptr returns a pointer to v, for building ScheduleUpdate values.
func Ptr[T any](v T) *T {
	return &v
}
