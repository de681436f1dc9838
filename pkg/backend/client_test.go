package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/urmzd/gaposa/pkg/model"
)

type recorded struct {
	method  string
	path    string
	auth    string
	bearer  string
	payload json.RawMessage
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("auth"),
			bearer: r.Header.Get("authorization"),
		}
		if body, _ := io.ReadAll(r.Body); len(body) > 0 {
			var env struct {
				Payload json.RawMessage `json:"payload"`
			}
			assert.NoError(t, json.Unmarshal(body, &env))
			rec.payload = env.Payload
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(url string) *Client {
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "id-token"})
	return NewClient(url, tokens, nil, logr.Discard())
}

var testAuth = model.ClientAuth{Client: "mock_client_id", Role: 1}

func TestLogin(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{
		"apiStatus": "Success", "msg": "Auth",
		"result": {"TermsAgreed": true, "UserRole": 1, "Clients": {
			"mock_client_id": {"Role": 1, "Name": "mock_client_name",
				"Devices": [{"Serial": "mock_serial", "Name": "mock_device_name"}]}}}}`)

	resp, err := newTestClient(srv.URL).Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Success", resp.APIStatus)
	require.Contains(t, resp.Result.Clients, "mock_client_id")
	assert.Equal(t, []model.DeviceRef{{Serial: "mock_serial", Name: "mock_device_name"}}, resp.Result.Clients["mock_client_id"].Devices)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/v1/login", call.path)
	assert.Equal(t, "Bearer id-token", call.bearer)
	assert.Empty(t, call.auth, "login is not client scoped")
	assert.Nil(t, call.payload)
}

func TestUsers_SendsClientHeader(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{
		"apiStatus": "success", "msg": "Return user",
		"result": {"Info": {"Uid": "mock_uid", "Name": "mock_name", "Email": "mock_email",
			"Role": 1, "CompoundLocation": "London, UK", "Joined": {"mock_joined": 1}}}}`)

	resp, err := newTestClient(srv.URL).Users(context.Background(), testAuth)
	require.NoError(t, err)
	assert.Equal(t, "London, UK", resp.Result.Info.CompoundLocation)

	require.Len(t, *calls, 1)
	assert.JSONEq(t, `{"client":"mock_client_id","role":1}`, (*calls)[0].auth)
}

func TestControl(t *testing.T) {
	tests := []struct {
		name  string
		scope model.Scope
		want  string
	}{
		{"channel", model.ScopeChannel, `{"serial":"mock_serial","data":{"cmd":"0xee"},"channel":"1"}`},
		{"group", model.ScopeGroup, `{"serial":"mock_serial","data":{"cmd":"0xee"},"group":"1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newTestServer(t, http.StatusOK, `{"apiCommand":"Success","msg":"OK","result":{"Success":"OK"}}`)

			req := model.NewControlRequest("mock_serial", model.CommandDown, tt.scope, "1")
			resp, err := newTestClient(srv.URL).Control(context.Background(), testAuth, req)
			require.NoError(t, err)
			assert.Equal(t, "OK", resp.Result.Success)

			require.Len(t, *calls, 1)
			assert.Equal(t, http.MethodPost, (*calls)[0].method)
			assert.Equal(t, "/control", (*calls)[0].path)
			assert.JSONEq(t, tt.want, string((*calls)[0].payload))
		})
	}
}

func TestControl_RejectsAmbiguousTarget(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`)

	_, err := newTestClient(srv.URL).Control(context.Background(), testAuth, model.ControlRequest{Serial: "s"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Empty(t, *calls)
}

func TestControl_Forbidden(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusForbidden, `{"error":"forbidden"}`)

	req := model.NewControlRequest("mock_serial", model.CommandUp, model.ScopeChannel, "1")
	_, err := newTestClient(srv.URL).Control(context.Background(), testAuth, req)

	assert.ErrorIs(t, err, ErrForbidden)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestControl_BadResponse(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"apiCommand":"Failed"}`)

	req := model.NewControlRequest("mock_serial", model.CommandUp, model.ScopeChannel, "1")
	_, err := newTestClient(srv.URL).Control(context.Background(), testAuth, req)

	assert.ErrorIs(t, err, ErrBadResponse)
	assert.Len(t, *calls, 1)
}

func TestSchedules(t *testing.T) {
	ctx := context.Background()
	update := model.ScheduleUpdate{
		Name:     model.Ptr("mock_name"),
		Groups:   []int{1},
		Location: &model.GeoPoint{Latitude: 1, Longitude: 1},
		Icon:     model.Ptr("mock_icon"),
		Active:   model.Ptr(true),
	}

	t.Run("add", func(t *testing.T) {
		srv, calls := newTestServer(t, http.StatusOK, `{"apiStatus":"success","msg":"Schedule Add","result":"ok"}`)
		resp, err := newTestClient(srv.URL).AddSchedule(ctx, testAuth, "mock_serial", update)
		require.NoError(t, err)
		assert.Equal(t, "Schedule Add", resp.Msg)
		assert.Equal(t, http.MethodPut, (*calls)[0].method)
		assert.Equal(t, "/v1/schedules", (*calls)[0].path)
		assert.JSONEq(t, `{"serial":"mock_serial","schedule":{"Name":"mock_name","Groups":[1],
			"Location":{"_latitude":1,"_longitude":1},"Icon":"mock_icon","Active":true}}`, string((*calls)[0].payload))
	})

	t.Run("update requires id", func(t *testing.T) {
		_, err := newTestClient("http://unused").UpdateSchedule(ctx, testAuth, "mock_serial", update)
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("delete", func(t *testing.T) {
		srv, calls := newTestServer(t, http.StatusOK, `{"apiStatus":"success","msg":"Schedule deleted",
			"result":{"Schedule":true,"Down":true,"Up":true,"Preset":true}}`)
		resp, err := newTestClient(srv.URL).DeleteSchedule(ctx, testAuth, "mock_serial", "1")
		require.NoError(t, err)
		res, ok := resp.DeleteResult()
		require.True(t, ok)
		assert.True(t, res.Schedule)
		assert.Equal(t, http.MethodDelete, (*calls)[0].method)
		assert.JSONEq(t, `{"serial":"mock_serial","schedule":{"Id":"1"}}`, string((*calls)[0].payload))
	})

	t.Run("bad response", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, `{"apiStatus":"Failed"}`)
		_, err := newTestClient(srv.URL).AddSchedule(ctx, testAuth, "mock_serial", update)
		assert.ErrorIs(t, err, ErrBadResponse)
	})
}

func TestScheduleEvents(t *testing.T) {
	ctx := context.Background()
	event := model.ScheduleEvent{
		EventRepeat: model.RepeatOn(model.AllDays),
		TimeZone:    "mock_timezone",
		Active:      true,
		FutureEvent: true,
		Submit:      true,
		EventEpoch:  1,
		Location:    model.GeoPoint{Latitude: 1, Longitude: 1},
		Motors:      []int{2, 3},
		EventMode:   model.EventMode{Sunrise: true},
	}

	srv, calls := newTestServer(t, http.StatusOK, `{"apiStatus":"success","msg":"Schedule Add","result":"ok"}`)
	client := newTestClient(srv.URL)

	_, err := client.AddScheduleEvent(ctx, testAuth, "mock_serial", "1", model.SlotUp, event)
	require.NoError(t, err)
	_, err = client.DeleteScheduleEvent(ctx, testAuth, "mock_serial", "1", model.SlotUp)
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/v1/schedules/event", (*calls)[0].path)
	assert.JSONEq(t, `{"serial":"mock_serial","schedule":{"Id":"1","Mode":"UP"},"event":{
		"EventRepeat":[true,true,true,true,true,true,true],"TimeZone":"mock_timezone","Active":true,
		"FutureEvent":true,"Submit":true,"EventEpoch":1,"Location":{"_latitude":1,"_longitude":1},
		"Motors":[2,3],"EventMode":{"Sunrise":true,"Sunset":false,"TimeDay":false}}}`, string((*calls)[0].payload))

	assert.Equal(t, http.MethodDelete, (*calls)[1].method)
	assert.JSONEq(t, `{"serial":"mock_serial","schedule":{"Id":"1","Mode":"UP"}}`, string((*calls)[1].payload))
}

func TestServerError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, `upstream down`)

	_, err := newTestClient(srv.URL).Login(context.Background())
	assert.ErrorIs(t, err, ErrServer)
}
