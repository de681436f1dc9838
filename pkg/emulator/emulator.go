// Package emulator serves the control service and document store from a
// local SQLite database, so the library can run without a cloud account.
package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/db"
	"github.com/urmzd/gaposa/pkg/model"
)

// DefaultPropagationDelay is how long a motor takes to report a new state.
const DefaultPropagationDelay = time.Second

// ErrAuthFailed is returned for an unknown account or a wrong password.
var ErrAuthFailed = errors.New("invalid email or password")

// Options tunes the emulator.
type Options struct {
	// PropagationDelay is the time between accepting a command and
	// writing the motor's new state. Zero applies it synchronously.
	PropagationDelay time.Duration
}

// Emulator implements the control service on top of a db.DB.
type Emulator struct {
	store *db.DB
	opts  Options
	log   logr.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	account string
}

// New creates an emulator over store. The store must be migrated.
func New(store *db.DB, opts Options, log logr.Logger) *Emulator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Emulator{
		store:  store,
		opts:   opts,
		log:    log.WithName("emulator"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// account is the stored form of an emulated user.
type account struct {
	Password string            `json:"Password"`
	UID      string            `json:"Uid"`
	Login    model.LoginResult `json:"Login"`
	Info     model.UserInfo    `json:"Info"`
}

func accountPath(email string) string {
	return "Accounts/" + email
}

// SignIn checks credentials against the stored accounts and makes email the
// account subsequent requests act for.
func (e *Emulator) SignIn(ctx context.Context, email, password string) error {
	acct, err := e.loadAccount(ctx, email)
	if err != nil {
		return err
	}
	if acct.Password != password {
		return ErrAuthFailed
	}

	e.mu.Lock()
	e.account = email
	e.mu.Unlock()
	e.log.Info("signed in", "email", email, "uid", acct.UID)
	return nil
}

func (e *Emulator) loadAccount(ctx context.Context, email string) (*account, error) {
	raw, err := e.store.Get(ctx, accountPath(email))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrAuthFailed
	}
	var acct account
	if err := json.Unmarshal(raw, &acct); err != nil {
		return nil, fmt.Errorf("decoding account %s: %w", email, err)
	}
	return &acct, nil
}

func (e *Emulator) current(ctx context.Context, method, path string) (*account, error) {
	e.mu.RLock()
	email := e.account
	e.mu.RUnlock()
	if email == "" {
		return nil, apiError(method, path, http.StatusUnauthorized, backend.ErrForbidden, "not signed in")
	}
	return e.loadAccount(ctx, email)
}

// authorize checks that the signed-in account may act for auth.Client on
// serial.
func (e *Emulator) authorize(ctx context.Context, method, path string, auth model.ClientAuth, serial string) error {
	acct, err := e.current(ctx, method, path)
	if err != nil {
		return err
	}
	client, ok := acct.Login.Clients[auth.Client]
	if !ok {
		return apiError(method, path, http.StatusForbidden, backend.ErrForbidden, "unknown client "+auth.Client)
	}
	for _, d := range client.Devices {
		if d.Serial == serial {
			return nil
		}
	}
	return apiError(method, path, http.StatusForbidden, backend.ErrForbidden, "device "+serial+" not owned by client")
}

func apiError(method, path string, status int, kind error, msg string) error {
	return &backend.APIError{Method: method, Path: path, Status: status, Body: msg, Err: kind}
}

// Get reads a document, making the emulator the document store as well.
func (e *Emulator) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return e.store.Get(ctx, path)
}

// Login lists the signed-in account's clients.
func (e *Emulator) Login(ctx context.Context) (*model.LoginResponse, error) {
	acct, err := e.current(ctx, http.MethodGet, "/v1/login")
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{APIStatus: "success", Msg: "Login successful", Result: acct.Login}, nil
}

// Users returns the signed-in account's profile.
func (e *Emulator) Users(ctx context.Context, auth model.ClientAuth) (*model.UsersResponse, error) {
	acct, err := e.current(ctx, http.MethodGet, "/v1/users")
	if err != nil {
		return nil, err
	}
	if _, ok := acct.Login.Clients[auth.Client]; !ok {
		return nil, apiError(http.MethodGet, "/v1/users", http.StatusForbidden, backend.ErrForbidden, "unknown client "+auth.Client)
	}
	return &model.UsersResponse{APIStatus: "success", Msg: "User info", Result: model.UsersResult{Info: acct.Info}}, nil
}

// Close stops pending state propagation.
func (e *Emulator) Close() error {
	e.cancel()
	e.wg.Wait()
	return nil
}
