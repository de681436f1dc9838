// Package schema validates device documents and backend responses against
// JSON Schema documents.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Names of the embedded schemas.
const (
	Device                = "device.json"
	ScheduleEvent         = "schedule_event.json"
	Login                 = "login.json"
	Users                 = "users.json"
	Control               = "control.json"
	Schedule              = "schedule.json"
	ScheduleEventResponse = "schedule_event_response.json"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("schema validation failed")

//go:embed schemas/*.json
var builtin embed.FS

// Validator validates JSON payloads against JSON Schema documents.
// It caches compiled schemas keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate validates payload against the given JSON Schema document.
// Returns nil if valid, or an error describing the validation failures.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil // No schema = no validation
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ValidateNamed validates payload against one of the embedded schemas.
func (v *Validator) ValidateNamed(name string, payload any) error {
	doc, err := builtin.ReadFile("schemas/" + name)
	if err != nil {
		return fmt.Errorf("unknown schema %q: %w", name, err)
	}
	return v.Validate(doc, payload)
}

// ValidateJSON decodes raw and validates it against an embedded schema.
// Numbers keep their exact representation so integer checks are precise.
func (v *Validator) ValidateJSON(name string, raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalid, err)
	}
	return v.ValidateNamed(name, inst)
}

// Schema returns the raw bytes of an embedded schema.
func Schema(name string) (json.RawMessage, error) {
	return builtin.ReadFile("schemas/" + name)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	schemaMap, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
