package gaposa

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/emulator"
	"github.com/urmzd/gaposa/pkg/firebase"
	"github.com/urmzd/gaposa/pkg/schema"
)

// Connector signs in and returns the control service and document store
// acting for that account.
type Connector interface {
	Connect(ctx context.Context, email, password string) (API, DocumentStore, error)
}

// CloudConnector signs in to Firebase and talks to the hosted service.
type CloudConnector struct {
	Firebase  firebase.Config
	ServerURL string
	Validator *schema.Validator
	Logger    logr.Logger
}

func (c CloudConnector) Connect(ctx context.Context, email, password string) (API, DocumentStore, error) {
	session, err := firebase.SignIn(ctx, c.Firebase, email, password)
	if err != nil {
		if errors.Is(err, firebase.ErrSignIn) {
			return nil, nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
		return nil, nil, err
	}
	c.Logger.Info("signed in", "uid", session.UID)

	api := backend.NewClient(c.ServerURL, session.TokenSource(), c.Validator, c.Logger)
	store := firebase.NewStore(ctx, session, c.Logger)
	return api, store, nil
}

// EmulatorConnector signs in to a local emulator, which serves as both the
// control service and the document store.
type EmulatorConnector struct {
	Emulator *emulator.Emulator
}

func (c EmulatorConnector) Connect(ctx context.Context, email, password string) (API, DocumentStore, error) {
	if err := c.Emulator.SignIn(ctx, email, password); err != nil {
		if errors.Is(err, emulator.ErrAuthFailed) {
			return nil, nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
		return nil, nil, err
	}
	return c.Emulator, c.Emulator, nil
}
