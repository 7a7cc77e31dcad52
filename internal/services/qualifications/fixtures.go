// Copyright 2025 The ephios team
// Licensed under the MIT license

package qualifications

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed fixtures/*.toml
var fixtureFS embed.FS

// Fixture is a built-in qualification set shipped with the application.
type Fixture struct {
	Name           string                 `toml:"name"`
	Categories     []FixtureCategory      `toml:"categories"`
	Qualifications []FixtureQualification `toml:"qualifications"`
}

// FixtureCategory describes a category within a fixture.
type FixtureCategory struct {
	UUID  string `toml:"uuid"`
	Title string `toml:"title"`
}

// FixtureQualification describes a qualification within a fixture.
// Category and Includes reference other fixture entries by uuid.
type FixtureQualification struct {
	UUID         string   `toml:"uuid"`
	Title        string   `toml:"title"`
	Abbreviation string   `toml:"abbreviation"`
	Category     string   `toml:"category"`
	Includes     []string `toml:"includes"`
}

// ListFixtures returns the names of all embedded fixture sets.
func ListFixtures() []string {
	entries, err := fs.ReadDir(fixtureFS, "fixtures")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// LoadFixture parses the named embedded fixture set.
func LoadFixture(name string) (*Fixture, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFixture, name)
	}

	var fixture Fixture
	if err := toml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %q: %w", name, err)
	}
	return &fixture, nil
}
