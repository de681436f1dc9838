package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// DefaultFirestoreEndpoint is the Firestore REST root.
const DefaultFirestoreEndpoint = "https://firestore.googleapis.com/v1/"

// Store reads Firestore documents as plain JSON.
type Store struct {
	client *http.Client
	root   string
	log    logr.Logger
}

// NewStore creates a store for the session's project.
func NewStore(ctx context.Context, session *Session, log logr.Logger) *Store {
	cfg := session.Config()
	return &Store{
		client: oauth2.NewClient(ctx, session.TokenSource()),
		root: strings.TrimRight(cfg.FirestoreEndpoint, "/") +
			"/projects/" + cfg.ProjectID + "/databases/(default)/documents",
		log: log.WithName("firestore"),
	}
}

// Get returns the document at path (for example "Devices/<serial>") with
// typed values flattened to JSON. A missing document yields nil, nil.
func (s *Store) Get(ctx context.Context, path string) (json.RawMessage, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.root+"/"+strings.Join(segments, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		s.log.V(1).Info("document not found", "path", path)
		return nil, nil
	}
	if err := googleapi.CheckResponse(res); err != nil {
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}

	var doc struct {
		Name   string           `json:"name"`
		Fields map[string]value `json:"fields"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	plain, err := decodeFields(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return json.Marshal(plain)
}

// value mirrors the Firestore REST Value union.
type value struct {
	NullValue      *string  `json:"nullValue"`
	BooleanValue   *bool    `json:"booleanValue"`
	IntegerValue   *string  `json:"integerValue"`
	DoubleValue    *float64 `json:"doubleValue"`
	TimestampValue *string  `json:"timestampValue"`
	StringValue    *string  `json:"stringValue"`
	BytesValue     *string  `json:"bytesValue"`
	ReferenceValue *string  `json:"referenceValue"`
	GeoPointValue  *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoPointValue"`
	ArrayValue *struct {
		Values []value `json:"values"`
	} `json:"arrayValue"`
	MapValue *struct {
		Fields map[string]value `json:"fields"`
	} `json:"mapValue"`
}

func decodeFields(fields map[string]value) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		d, err := v.decode()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		out[k] = d
	}
	return out, nil
}

func (v value) decode() (any, error) {
	switch {
	case v.NullValue != nil:
		return nil, nil
	case v.BooleanValue != nil:
		return *v.BooleanValue, nil
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case v.DoubleValue != nil:
		return *v.DoubleValue, nil
	case v.TimestampValue != nil:
		return *v.TimestampValue, nil
	case v.StringValue != nil:
		return *v.StringValue, nil
	case v.BytesValue != nil:
		return *v.BytesValue, nil
	case v.ReferenceValue != nil:
		return *v.ReferenceValue, nil
	case v.GeoPointValue != nil:
		return map[string]any{
			"_latitude":  v.GeoPointValue.Latitude,
			"_longitude": v.GeoPointValue.Longitude,
		}, nil
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for i, item := range v.ArrayValue.Values {
			d, err := item.decode()
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, d)
		}
		return out, nil
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	default:
		return nil, fmt.Errorf("empty value")
	}
}
