// Package config generalizes the teacher's db/config.go -- a handful
// of hardcoded constants plus one client-id-on-first-use helper -- into
// a loadable document (SPEC_FULL.md §2.3). It covers the local session
// id, a peer-branch retention duration, the UnrelatedBranches
// precondition toggle (RebaseBranch's Options), and enrichment-cache
// sizing (Enricher's approxCommits). EditManager takes no retention
// setting, so the retention duration is carried in the document only.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lithammer/shortuuid"

	"github.com/synctreeio/synctree/graph"
)

// Config is the document loaded from a synctree.toml file.
type Config struct {
	// Session identifies this process's local session id, used to
	// distinguish echoed-back local commits from peer commits
	// (EditManager.New's localSessionID). Generated on first load if
	// empty and never persisted back automatically -- the host decides
	// whether and where to save a generated id.
	Session SessionConfig `toml:"session"`

	// Retention governs how long EditManager remembers peer branches
	// after they've caught up (spec.md §4.6 step 4).
	Retention RetentionConfig `toml:"retention"`

	// Rebase tunes graph.RebaseBranch's optional precondition checking.
	Rebase RebaseConfig `toml:"rebase"`

	// Enrich sizes the enrichment cache (enrich.New's approxCommits).
	Enrich EnrichConfig `toml:"enrich,omitempty"`
}

// SessionConfig is the "config" dataset's analogue: a small, local,
// never-synced identity document.
type SessionConfig struct {
	ID string `toml:"id,omitempty"`
}

// RetentionConfig controls peer-branch pruning.
type RetentionConfig struct {
	// StaleAfter is loaded and saved with the document, but no package
	// reads it: EditManager always prunes eagerly, dropping a peer's
	// branch the moment minimumSequenceNumber passes that peer's last
	// known position, whatever this value is.
	StaleAfter time.Duration `toml:"stale_after,omitempty"`
}

// RebaseConfig mirrors graph.Options.
type RebaseConfig struct {
	RequireRelatedBranches bool `toml:"require_related_branches"`
}

// ToOptions converts RebaseConfig to the graph package's runtime form.
func (c RebaseConfig) ToOptions() graph.Options {
	return graph.Options{RequireRelated: c.RequireRelatedBranches}
}

// EnrichConfig sizes the Enricher's ristretto cache.
type EnrichConfig struct {
	ApproxCommits int64 `toml:"approx_commits,omitempty"`
}

const defaultApproxCommits = 100_000

// Default returns the configuration a fresh session starts with absent
// any file on disk: a freshly minted session id, eager peer pruning, the
// UnrelatedBranches precondition enabled, and a cache sized for a
// moderate-sized document history.
func Default() Config {
	return Config{
		Session:   SessionConfig{ID: newSessionID()},
		Retention: RetentionConfig{StaleAfter: 0},
		Rebase:    RebaseConfig{RequireRelatedBranches: true},
		Enrich:    EnrichConfig{ApproxCommits: defaultApproxCommits},
	}
}

var newSessionID = func() string {
	return shortuuid.New()
}

// Load reads a TOML document from path, filling any field the document
// omits with Default's value. A missing file is not an error: Load
// returns Default() unchanged, exactly like the teacher's
// initClientID minting a ClientID the first time a client runs with no
// "config" dataset yet.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a TOML document from r on top of Default's values.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Session.ID == "" {
		cfg.Session.ID = newSessionID()
	}
	if cfg.Enrich.ApproxCommits == 0 {
		cfg.Enrich.ApproxCommits = defaultApproxCommits
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating or truncating the file.
func Save(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
