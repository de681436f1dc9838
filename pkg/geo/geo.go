// Package geo resolves street addresses to coordinates and time zones and
// computes sun times for schedule events.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/urmzd/gaposa/pkg/model"
)

// DefaultEndpoint is the Google Maps web service root.
const DefaultEndpoint = "https://maps.googleapis.com/maps/api"

var (
	// ErrNoResult indicates the address or point could not be resolved.
	ErrNoResult = errors.New("no geocoding result")
	// ErrService indicates the maps service rejected the request.
	ErrService = errors.New("maps service error")
)

// Resolver converts a user's compound location into a point and time zone.
type Resolver interface {
	ResolveLocation(ctx context.Context, address string) (model.GeoPoint, error)
	ResolveTimezone(ctx context.Context, point model.GeoPoint) (string, error)
}

// Google resolves through the Maps geocoding and time zone services.
type Google struct {
	key      string
	endpoint string
	client   *http.Client
	now      func() time.Time
	log      logr.Logger
}

// NewGoogle creates a resolver using apiKey. An empty endpoint selects
// DefaultEndpoint.
func NewGoogle(apiKey, endpoint string, log logr.Logger) *Google {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Google{
		key:      apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
		log:      log.WithName("geo"),
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type timezoneResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	TimeZoneID   string `json:"timeZoneId"`
}

// ResolveLocation geocodes address.
func (g *Google) ResolveLocation(ctx context.Context, address string) (model.GeoPoint, error) {
	var resp geocodeResponse
	if err := g.get(ctx, "/geocode/json", url.Values{"address": {address}}, &resp); err != nil {
		return model.GeoPoint{}, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return model.GeoPoint{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	if len(resp.Results) == 0 {
		return model.GeoPoint{}, fmt.Errorf("geocoding %q: %w", address, ErrNoResult)
	}

	loc := resp.Results[0].Geometry.Location
	g.log.V(1).Info("resolved location", "address", address, "lat", loc.Lat, "lng", loc.Lng)
	return model.GeoPoint{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// ResolveTimezone returns the IANA zone containing point.
func (g *Google) ResolveTimezone(ctx context.Context, point model.GeoPoint) (string, error) {
	q := url.Values{
		"location":  {strconv.FormatFloat(point.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(point.Longitude, 'f', -1, 64)},
		"timestamp": {strconv.FormatInt(g.now().Unix(), 10)},
	}
	var resp timezoneResponse
	if err := g.get(ctx, "/timezone/json", q, &resp); err != nil {
		return "", err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return "", fmt.Errorf("resolving time zone: %w", err)
	}
	if resp.TimeZoneID == "" {
		return "", fmt.Errorf("resolving time zone: %w", ErrNoResult)
	}
	return resp.TimeZoneID, nil
}

func (g *Google) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", g.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrService, path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func checkStatus(status, msg string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrNoResult
	default:
		if msg != "" {
			return fmt.Errorf("%w: %s: %s", ErrService, status, msg)
		}
		return fmt.Errorf("%w: %s", ErrService, status)
	}
}

// Static answers with a fixed point and zone, for configured locations.
type Static struct {
	Point    model.GeoPoint
	TimeZone string
}

func (s Static) ResolveLocation(context.Context, string) (model.GeoPoint, error) {
	return s.Point, nil
}

func (s Static) ResolveTimezone(context.Context, model.GeoPoint) (string, error) {
	if s.TimeZone == "" {
		return "UTC", nil
	}
	return s.TimeZone, nil
}
