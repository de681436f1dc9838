package gaposa

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/urmzd/gaposa/pkg/geo"
	"github.com/urmzd/gaposa/pkg/model"
)

// User is the account profile as seen by one client.
type User struct {
	model.UserInfo
	Location model.GeoPoint
	TimeZone string
}

// resolveLocation geocodes the user's compound location.
func (u *User) resolveLocation(ctx context.Context, resolver geo.Resolver) error {
	point, err := resolver.ResolveLocation(ctx, u.CompoundLocation)
	if err != nil {
		return fmt.Errorf("resolving location of %s: %w", u.UID, err)
	}
	tz, err := resolver.ResolveTimezone(ctx, point)
	if err != nil {
		return fmt.Errorf("resolving time zone of %s: %w", u.UID, err)
	}
	u.Location, u.TimeZone = point, tz
	return nil
}

// Client is a site the account can act for, with its hubs.
type Client struct {
	id      string
	name    string
	role    int
	api     API
	devices []*Device
	user    *User
}

func newClient(api API, store DocumentStore, id string, info model.ClientInfo, opts Options) *Client {
	c := &Client{id: id, name: info.Name, role: info.Role, api: api}
	auth := c.Auth()
	for _, ref := range info.Devices {
		c.devices = append(c.devices, NewDevice(api, store, auth, ref, opts))
	}
	return c
}

func (c *Client) ID() string   { return c.id }
func (c *Client) Name() string { return c.name }
func (c *Client) Role() int    { return c.role }

// Auth returns the client selector sent with this client's requests.
func (c *Client) Auth() model.ClientAuth {
	return model.ClientAuth{Client: c.id, Role: c.role}
}

// Devices returns the client's hubs.
func (c *Client) Devices() []*Device {
	return append([]*Device(nil), c.devices...)
}

// User returns the profile loaded by Open, or nil.
func (c *Client) User() *User {
	return c.user
}

// loadUser fetches the profile, resolves its location when resolver is set
// and hands the location to every hub.
func (c *Client) loadUser(ctx context.Context, resolver geo.Resolver) (*User, error) {
	resp, err := c.api.Users(ctx, c.Auth())
	if err != nil {
		return nil, fmt.Errorf("loading user of client %s: %w", c.id, err)
	}
	user := &User{UserInfo: resp.Result.Info, TimeZone: "UTC"}
	if resolver != nil {
		if err := user.resolveLocation(ctx, resolver); err != nil {
			return nil, err
		}
	}
	for _, d := range c.devices {
		d.SetLocation(user.Location, user.TimeZone)
	}
	c.user = user
	return user, nil
}

// Update refreshes every hub of the client concurrently.
func (c *Client) Update(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range c.devices {
		g.Go(func() error {
			_, err := d.Refresh(gctx)
			return err
		})
	}
	return g.Wait()
}

func (c *Client) close() {
	for _, d := range c.devices {
		d.Close()
	}
}
