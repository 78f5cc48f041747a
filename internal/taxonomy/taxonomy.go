// Package taxonomy loads the three static reference documents that bound
// what the generator is allowed to produce. The taxonomies are load-bearing:
// a missing or unparsable file is fatal, because generation without them
// yields output nothing downstream can trust.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Standard filenames within the taxonomy directory.
const (
	FrictionFile = "friction_taxonomy.json"
	ActionFile   = "action_taxonomy.json"
	OutcomeFile  = "outcome_taxonomy.json"
)

// Document is one loaded taxonomy. The decoded form is retained so Render
// produces byte-stable text regardless of the whitespace in the source file.
type Document struct {
	Name string
	data any
}

// Set holds the three taxonomies every generation run requires.
type Set struct {
	Friction Document // allowable time delays per friction type
	Action   Document // action intent categories
	Outcome  Document // state transition triggers
}

// Load reads the three taxonomy files from dir. Any missing or unparsable
// file is an error; the caller must not proceed to generation without a
// complete set.
func Load(dir string) (Set, error) {
	var set Set
	var err error
	if set.Friction, err = loadOne(dir, FrictionFile); err != nil {
		return Set{}, err
	}
	if set.Action, err = loadOne(dir, ActionFile); err != nil {
		return Set{}, err
	}
	if set.Outcome, err = loadOne(dir, OutcomeFile); err != nil {
		return Set{}, err
	}
	return set, nil
}

func loadOne(dir, name string) (Document, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("taxonomy: read %s: %w", name, err)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Document{}, fmt.Errorf("taxonomy: parse %s: %w", name, err)
	}
	return Document{Name: name, data: decoded}, nil
}

// Render serializes the taxonomy as indented JSON. Go maps marshal with
// sorted keys, so the output is stable across runs — a requirement for
// deterministic prompt composition.
func (d Document) Render() string {
	b, err := json.MarshalIndent(d.data, "", "  ")
	if err != nil {
		// Decoded JSON values always re-marshal; this branch is unreachable
		// for documents produced by Load.
		return "{}"
	}
	return string(b)
}
