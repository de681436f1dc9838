// Package gaposa is a client for the Gaposa motorized shade service. It signs
// in, discovers the account's hubs and mirrors their documents, and sends
// motor, group and schedule commands that wait for the hub to confirm them.
package gaposa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

// Gaposa is an open session with every client of one account.
type Gaposa struct {
	api   API
	store DocumentStore
	opts  Options
	log   logr.Logger

	mu      sync.RWMutex
	clients []*Client
	closed  bool
}

// Open signs in through conn, loads every client's user profile and fetches
// every hub once.
func Open(ctx context.Context, conn Connector, email, password string, opts Options) (*Gaposa, error) {
	opts = opts.withDefaults()

	api, store, err := conn.Connect(ctx, email, password)
	if err != nil {
		return nil, err
	}
	g := &Gaposa{api: api, store: store, opts: opts, log: opts.Logger}

	login, err := api.Login(ctx)
	if err != nil {
		g.closeBackends()
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if !strings.EqualFold(login.APIStatus, "success") {
		g.closeBackends()
		return nil, fmt.Errorf("%w: login status %q", ErrAuthFailed, login.APIStatus)
	}

	ids := make([]string, 0, len(login.Result.Clients))
	for id := range login.Result.Clients {
		ids = append(ids, id)
	}
	sortIDs(ids)

	for _, id := range ids {
		c := newClient(api, store, id, login.Result.Clients[id], opts)
		if _, err := c.loadUser(ctx, opts.Geo); err != nil {
			g.clients = append(g.clients, c)
			_ = g.Close()
			return nil, err
		}
		g.clients = append(g.clients, c)
	}

	if err := g.Update(ctx); err != nil {
		_ = g.Close()
		return nil, err
	}
	for _, d := range g.Devices() {
		if err := d.LastError(); err != nil {
			g.log.Error(err, "initial fetch failed", "serial", d.Serial())
		}
	}
	g.log.Info("opened", "clients", len(g.clients), "devices", len(g.Devices()))
	return g, nil
}

// Clients returns the account's clients in id order.
func (g *Gaposa) Clients() []*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Client(nil), g.clients...)
}

// Devices returns every hub of every client.
func (g *Gaposa) Devices() []*Device {
	var out []*Device
	for _, c := range g.Clients() {
		out = append(out, c.devices...)
	}
	return out
}

// Device returns the hub with serial, or nil.
func (g *Gaposa) Device(serial string) *Device {
	for _, d := range g.Devices() {
		if d.Serial() == serial {
			return d
		}
	}
	return nil
}

// Update refreshes every client concurrently.
func (g *Gaposa) Update(ctx context.Context) error {
	g.mu.RLock()
	closed := g.closed
	g.mu.RUnlock()
	if closed {
		return ErrNotOpen
	}

	eg, ectx := errgroup.WithContext(ctx)
	for _, c := range g.Clients() {
		eg.Go(func() error { return c.Update(ectx) })
	}
	return eg.Wait()
}

// Close stops polling on every hub and closes the backends when they hold
// resources.
func (g *Gaposa) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	clients := g.clients
	g.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	return g.closeBackends()
}

func (g *Gaposa) closeBackends() error {
	var errs []error
	if c, ok := g.api.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := g.store.(io.Closer); ok && any(g.store) != any(g.api) {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
