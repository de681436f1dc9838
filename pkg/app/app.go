// Package app turns a loaded configuration into an open session shared by
// the binaries.
package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/urmzd/gaposa/pkg/config"
	"github.com/urmzd/gaposa/pkg/db"
	"github.com/urmzd/gaposa/pkg/emulator"
	"github.com/urmzd/gaposa/pkg/firebase"
	"github.com/urmzd/gaposa/pkg/gaposa"
	"github.com/urmzd/gaposa/pkg/geo"
	"github.com/urmzd/gaposa/pkg/metrics"
	"github.com/urmzd/gaposa/pkg/model"
)

// Credentials of the account seeded into a fresh emulator database.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo"
)

// demoLocation matches the fixture account's address.
var demoLocation = model.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}

// Session is an open account plus the resources it holds.
type Session struct {
	*gaposa.Gaposa
	Controller *gaposa.Controller
	Metrics    *metrics.Metrics

	store *db.DB
	log   logr.Logger
}

// Open signs in against the cloud service, or the emulator when
// cfg.Emulate is set.
func Open(ctx context.Context, cfg *config.Config, log logr.Logger) (*Session, error) {
	s := &Session{Metrics: metrics.New(), log: log}

	opts := gaposa.Options{
		Poll:       cfg.Poll,
		GraceDelay: cfg.Command.GraceDelay,
		Observer:   s.Metrics.Observer,
		Logger:     log,
	}
	if cfg.Location.IsSet() {
		opts.Geo = cfg.Location.Resolver()
	}

	var (
		conn     gaposa.Connector
		email    = cfg.Email
		password = cfg.Password
	)
	if cfg.Emulate || cfg.DB.Path != "" {
		store, err := openStore(ctx, cfg.DB.Path, cfg.Emulate)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	if cfg.Emulate {
		emu := emulator.New(s.store, emulator.Options{PropagationDelay: emulator.DefaultPropagationDelay}, log.WithName("emulator"))
		conn = gaposa.EmulatorConnector{Emulator: emu}
		if email == "" {
			email, password = DemoEmail, DemoPassword
		}
		if opts.Geo == nil {
			tz := cfg.Location.TimeZone
			if tz == "" {
				tz = db.DetectTimezone()
			}
			opts.Geo = geo.Static{Point: demoLocation, TimeZone: tz}
		}
		log.Info("using emulator", "db", s.store.Path())
	} else {
		conn = gaposa.CloudConnector{
			Firebase:  firebase.Config{APIKey: cfg.APIKey},
			ServerURL: cfg.ServerURL,
			Logger:    log,
		}
		if s.store != nil {
			conn = snapshotConnector{Connector: conn, store: s.store, log: log.WithName("snapshot")}
		}
		if opts.Geo == nil {
			opts.Geo = geo.NewGoogle(cfg.APIKey, "", log.WithName("geo"))
		}
	}

	g, err := gaposa.Open(ctx, conn, email, password, opts)
	if err != nil {
		s.closeStore()
		return nil, err
	}
	s.Gaposa = g
	s.Controller = gaposa.NewController(g)
	return s, nil
}

// Store returns the local database, or nil in cloud mode without db.path.
func (s *Session) Store() *db.DB {
	return s.store
}

// Close stops polling and releases the database.
func (s *Session) Close() error {
	err := s.Gaposa.Close()
	s.closeStore()
	return err
}

func (s *Session) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Error(err, "failed to close database")
	}
}

func openStore(ctx context.Context, path string, seed bool) (*db.DB, error) {
	store, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	if seed {
		if err := store.Bootstrap(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to bootstrap database: %w", err)
		}
	}
	return store, nil
}

// snapshotConnector writes every fetched document through to the local
// database.
type snapshotConnector struct {
	gaposa.Connector
	store *db.DB
	log   logr.Logger
}

func (c snapshotConnector) Connect(ctx context.Context, email, password string) (gaposa.API, gaposa.DocumentStore, error) {
	api, docs, err := c.Connector.Connect(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	return api, &snapshotStore{remote: docs, local: c.store, log: c.log}, nil
}

type snapshotStore struct {
	remote gaposa.DocumentStore
	local  *db.DB
	log    logr.Logger
}

// Get reads from the remote store. Snapshot failures are logged and never
// fail the read.
func (s *snapshotStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := s.remote.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		if _, derr := s.local.Delete(ctx, path); derr != nil {
			s.log.Error(derr, "failed to drop snapshot", "path", path)
		}
		return nil, nil
	}
	if perr := s.local.Put(ctx, path, raw); perr != nil {
		s.log.Error(perr, "failed to store snapshot", "path", path)
	}
	return raw, nil
}
