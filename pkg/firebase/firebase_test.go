package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "verifyPassword") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "key-1", r.URL.Query().Get("key"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"INVALID_PASSWORD"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"idToken":"id-1","refreshToken":"r-1","expiresIn":"3600","localId":"uid-1","email":"a@b.c"}`)
	}))
	defer srv.Close()

	cfg := Config{APIKey: "key-1", IdentityEndpoint: srv.URL + "/"}

	t.Run("accepted", func(t *testing.T) {
		s, err := SignIn(context.Background(), cfg, "a@b.c", "secret")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", s.UID)
		assert.Equal(t, DefaultProjectID, s.Config().ProjectID)

		tok, err := s.TokenSource().Token()
		require.NoError(t, err)
		assert.Equal(t, "id-1", tok.AccessToken)
		assert.True(t, tok.Expiry.After(time.Now().Add(50*time.Minute)))
	})

	t.Run("rejected", func(t *testing.T) {
		_, err := SignIn(context.Background(), cfg, "a@b.c", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignIn)
	})
}

func TestSessionRefresh(t *testing.T) {
	var refreshes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		assert.Equal(t, "key-1", r.URL.Query().Get("key"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "r-1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"id-2","token_type":"Bearer","refresh_token":"r-2","expires_in":3600}`)
	}))
	defer srv.Close()

	s := NewSession(context.Background(), Config{APIKey: "key-1", TokenEndpoint: srv.URL + "/token"}, "uid-1", &oauth2.Token{
		AccessToken:  "id-1",
		RefreshToken: "r-1",
		Expiry:       time.Now().Add(-time.Minute),
	})

	tok, err := s.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "id-2", tok.AccessToken)

	tok, err = s.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "id-2", tok.AccessToken)
	assert.Equal(t, 1, refreshes)
}

const deviceDoc = `{
  "name": "projects/gaposa-prod/databases/(default)/documents/Devices/ABC",
  "fields": {
    "State": {"mapValue": {"fields": {
      "OnLine": {"booleanValue": false},
      "LastCmd": {"stringValue": ""},
      "TimeStamp": {"timestampValue": "2024-03-01T10:00:00Z"}
    }}},
    "Channels": {"mapValue": {"fields": {
      "1": {"mapValue": {"fields": {
        "StatusCode": {"integerValue": "0"},
        "HomePercent": {"integerValue": "42"},
        "State": {"stringValue": "UP"}
      }}}
    }}},
    "DeletedChannels": {"arrayValue": {"values": [{"integerValue": "3"}]}},
    "Pending": {"arrayValue": {}},
    "Location": {"geoPointValue": {"latitude": 51.5, "longitude": -0.1}},
    "Ratio": {"doubleValue": 0.5},
    "Note": {"nullValue": null}
  }
}`

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewSession(context.Background(), Config{APIKey: "k", FirestoreEndpoint: srv.URL + "/v1/"}, "uid-1", &oauth2.Token{AccessToken: "tok"})
	return NewStore(context.Background(), s, logr.Discard())
}

func TestStoreGet(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/projects/gaposa-prod/databases/(default)/documents/Devices/ABC":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, deviceDoc)
		case "/v1/projects/gaposa-prod/databases/(default)/documents/Devices/ABC/Schedule/1.UP":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"fields":{"Active":{"booleanValue":true}}}`)
		case "/v1/projects/gaposa-prod/databases/(default)/documents/Devices/DENIED":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Missing or insufficient permissions."}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	t.Run("flattens typed values", func(t *testing.T) {
		raw, err := store.Get(context.Background(), "Devices/ABC")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		want := map[string]any{
			"State": map[string]any{
				"OnLine":    false,
				"LastCmd":   "",
				"TimeStamp": "2024-03-01T10:00:00Z",
			},
			"Channels": map[string]any{
				"1": map[string]any{"StatusCode": 0.0, "HomePercent": 42.0, "State": "UP"},
			},
			"DeletedChannels": []any{3.0},
			"Pending":         []any{},
			"Location":        map[string]any{"_latitude": 51.5, "_longitude": -0.1},
			"Ratio":           0.5,
			"Note":            nil,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dotted document id", func(t *testing.T) {
		raw, err := store.Get(context.Background(), "Devices/ABC/Schedule/1.UP")
		require.NoError(t, err)
		assert.JSONEq(t, `{"Active":true}`, string(raw))
	})

	t.Run("missing document", func(t *testing.T) {
		raw, err := store.Get(context.Background(), "Devices/NOPE")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("permission denied", func(t *testing.T) {
		_, err := store.Get(context.Background(), "Devices/DENIED")
		require.Error(t, err)
		var gerr *googleapi.Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, http.StatusForbidden, gerr.Code)
	})
}

func TestDecodeEmptyValue(t *testing.T) {
	_, err := decodeFields(map[string]value{"x": {}})
	assert.Error(t, err)
}
