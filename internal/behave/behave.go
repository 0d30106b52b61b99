// Package behave reads smoke batteries from TOML files.
package behave

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/smoke/internal/harness"
)

//go:embed default.toml
var defaultBattery []byte

const (
	defaultBurst = 3
	defaultPause = 500 * time.Millisecond
)

// SpecLanguage pins a language to a runtime version
type SpecLanguage struct {
	ID      string `toml:"id"`
	Version string `toml:"version"`
}

// SpecCheck maps to a [[checks]] entry
type SpecCheck struct {
	Name   string `toml:"name"`
	Kind   string `toml:"kind"`
	LangID string `toml:"lang_id"`
	Code   string `toml:"code"`
	Expect string `toml:"expect"`

	Burst int `toml:"burst"`
	// PauseMs is nil when unset; an explicit 0 disables pacing
	PauseMs *int `toml:"pause_ms"`
}

type specRoot struct {
	Languages []SpecLanguage `toml:"languages"`
	Checks    []SpecCheck    `toml:"checks"`
}

// Default returns the built-in battery.
func Default() harness.Battery {
	b, err := Parse(defaultBattery)
	if err != nil {
		panic(fmt.Errorf("built-in battery is invalid: %w", err))
	}
	return b
}

// Load reads a battery file.
func Load(path string) (harness.Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return harness.Battery{}, fmt.Errorf("failed to read battery file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return harness.Battery{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse converts a battery TOML document to runnable checks.
func Parse(data []byte) (harness.Battery, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return harness.Battery{}, fmt.Errorf("failed to parse TOML at %d:%d: %w", row, col, err)
		}
		return harness.Battery{}, fmt.Errorf("failed to parse TOML: %w", err)
	}

	versions := make(map[string]string, len(root.Languages))
	for _, l := range root.Languages {
		if l.ID == "" {
			continue
		}
		if _, dup := versions[l.ID]; dup {
			return harness.Battery{}, fmt.Errorf("language %q declared twice", l.ID)
		}
		// an empty version is resolved from the runtimes listing
		versions[l.ID] = l.Version
	}

	checks := make([]harness.Check, 0, len(root.Checks))
	for i, sc := range root.Checks {
		c, err := toCheck(sc, versions)
		if err != nil {
			return harness.Battery{}, fmt.Errorf("check %d (%s): %w", i+1, sc.Name, err)
		}
		checks = append(checks, c)
	}

	return harness.Battery{Versions: versions, Checks: checks}, nil
}

func toCheck(sc SpecCheck, versions map[string]string) (harness.Check, error) {
	kind := harness.CheckKind(sc.Kind)
	if !kind.Valid() {
		return harness.Check{}, fmt.Errorf("unknown kind %q", sc.Kind)
	}
	if sc.Name == "" {
		return harness.Check{}, fmt.Errorf("missing name")
	}

	c := harness.Check{
		Name:   sc.Name,
		Kind:   kind,
		Expect: sc.Expect,
	}
	if !kind.NeedsCode() {
		return c, nil
	}

	if sc.LangID == "" || sc.Code == "" {
		return harness.Check{}, fmt.Errorf("%s check requires lang_id and code", kind)
	}
	if _, ok := versions[sc.LangID]; !ok {
		return harness.Check{}, fmt.Errorf("unknown language id: %s", sc.LangID)
	}
	c.Language = sc.LangID
	c.Code = sc.Code

	if kind == harness.RateLimit {
		c.Burst = sc.Burst
		if c.Burst <= 0 {
			c.Burst = defaultBurst
		}
		c.Pause = defaultPause
		if sc.PauseMs != nil {
			if *sc.PauseMs < 0 {
				return harness.Check{}, fmt.Errorf("pause_ms must not be negative, got %d", *sc.PauseMs)
			}
			c.Pause = time.Duration(*sc.PauseMs) * time.Millisecond
		}
	}
	return c, nil
}
