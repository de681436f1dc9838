package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

//go:embed fixture/demo.json
var demoFixture []byte

// DemoFixture returns the embedded demo account and hub documents.
func DemoFixture() json.RawMessage {
	return demoFixture
}

// Fixture is a set of documents keyed by path.
type Fixture struct {
	Documents map[string]json.RawMessage `json:"documents"`
}

// Bootstrap seeds the demo fixture into an empty database.
func (db *DB) Bootstrap(ctx context.Context) error {
	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check documents: %w", err)
	}
	if !needs {
		return nil
	}
	return db.Seed(ctx, demoFixture)
}

// NeedsBootstrap reports whether the database holds no documents.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	n, err := db.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Seed writes every document of a fixture in one transaction, replacing
// documents that already exist.
func (db *DB) Seed(ctx context.Context, fixture json.RawMessage) error {
	var f Fixture
	if err := json.Unmarshal(fixture, &f); err != nil {
		return fmt.Errorf("failed to decode fixture: %w", err)
	}

	return db.Tx(ctx, func(tx *sql.Tx) error {
		for path, doc := range f.Documents {
			raw, err := compact(doc)
			if err != nil {
				return fmt.Errorf("failed to compact %s: %w", path, err)
			}
			if err := put(ctx, tx, cleanPath(path), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// DetectTimezone returns the host's IANA zone, or UTC.
func DetectTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" && !strings.HasPrefix(tz, ":") {
		return tz
	}

	switch runtime.GOOS {
	case "darwin":
		if out, err := exec.Command("systemsetup", "-gettimezone").Output(); err == nil {
			if parts := strings.SplitN(string(out), ": ", 2); len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
		}
	case "linux":
		if out, err := exec.Command("timedatectl", "show", "--property=Timezone", "--value").Output(); err == nil {
			if tz := strings.TrimSpace(string(out)); tz != "" {
				return tz
			}
		}
		if data, err := os.ReadFile("/etc/timezone"); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	if link, err := os.Readlink("/etc/localtime"); err == nil {
		if idx := strings.Index(link, "zoneinfo/"); idx != -1 {
			return link[idx+len("zoneinfo/"):]
		}
	}
	return "UTC"
}
