package network

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ErrNetworkNotFound is returned when no configuration has the requested ID.
var ErrNetworkNotFound = errors.New("network not found")

// Provenance sources.
const (
	SourceDapp   = "dapp"
	SourcePreset = "preset"
	SourceUser   = "user"
)

// Configuration is a registered network.
type Configuration struct {
	ID               string    `json:"id"`
	ChainID          string    `json:"chain_id"` // canonical 0x-prefixed hex
	Nickname         string    `json:"nickname"`
	RPCURL           string    `json:"rpc_url"`
	Ticker           string    `json:"ticker"`
	BlockExplorerURL string    `json:"block_explorer_url,omitempty"`
	Source           string    `json:"source"`
	Referrer         string    `json:"referrer,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Provenance records who asked for a configuration to be written.
type Provenance struct {
	Source   string
	Referrer string
}

type storeFile struct {
	Networks []Configuration `json:"networks"`
}

// Store is the network registry. Entries are kept oldest first; the newest
// entry for a chain id is the current one. A file-backed Store re-reads its
// file before every lookup and does each write as one locked
// read-modify-write, so several processes can share it. A Store opened with
// an empty path lives in memory only.
type Store struct {
	mu       sync.RWMutex
	path     string
	now      func() time.Time
	networks []Configuration
}

// OpenStore loads the registry at path, seeding it with Presets when empty.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	err := s.update(func(networks []Configuration) ([]Configuration, error) {
		if len(networks) > 0 {
			return networks, nil
		}
		seeded := make([]Configuration, 0, len(Presets()))
		for _, p := range Presets() {
			cfg := p.Configuration()
			cfg.ID = uuid.New().String()
			cfg.Source = SourcePreset
			cfg.UpdatedAt = s.now().UTC()
			seeded = append(seeded, cfg)
		}
		return seeded, nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore returns an unpersisted registry holding exactly networks.
func NewMemoryStore(networks ...Configuration) *Store {
	return &Store{now: time.Now, networks: slices.Clone(networks)}
}

// FindByChainID returns the current configuration for chainID, or nil.
// chainID may use any hex spelling.
func (s *Store) FindByChainID(chainID string) *Configuration {
	canonical, err := quantity.Canonicalize(chainID)
	if err != nil {
		return nil
	}
	networks, err := s.snapshot()
	if err != nil {
		return nil
	}
	for i := len(networks) - 1; i >= 0; i-- {
		if networks[i].ChainID == canonical {
			cfg := networks[i]
			return &cfg
		}
	}
	return nil
}

// Get returns the configuration with the given ID.
func (s *Store) Get(id string) (*Configuration, error) {
	networks, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	for _, n := range networks {
		if n.ID == id {
			cfg := n
			return &cfg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
}

// All returns every configuration, oldest first. A file that cannot be read
// yields the last successfully loaded entries.
func (s *Store) All() []Configuration {
	networks, err := s.snapshot()
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return slices.Clone(s.networks)
	}
	return networks
}

// Upsert writes cfg and returns its ID. An entry with the same chain id and
// RPC URL is updated in place and keeps its ID; otherwise a new entry is
// created. Either way the written entry becomes current for its chain id.
func (s *Store) Upsert(cfg Configuration, prov Provenance) (string, error) {
	chainID, err := quantity.Canonicalize(cfg.ChainID)
	if err != nil {
		return "", fmt.Errorf("chain id: %w", err)
	}
	cfg.ChainID = chainID
	cfg.Source = prov.Source
	cfg.Referrer = prov.Referrer

	err = s.update(func(networks []Configuration) ([]Configuration, error) {
		cfg.UpdatedAt = s.now().UTC()
		idx := slices.IndexFunc(networks, func(n Configuration) bool {
			return n.ChainID == cfg.ChainID && n.RPCURL == cfg.RPCURL
		})
		if idx >= 0 {
			cfg.ID = networks[idx].ID
			networks = slices.Delete(networks, idx, idx+1)
		} else {
			cfg.ID = uuid.New().String()
		}
		return append(networks, cfg), nil
	})
	if err != nil {
		return "", err
	}
	return cfg.ID, nil
}

// Remove deletes the configuration with the given ID.
func (s *Store) Remove(id string) error {
	return s.update(func(networks []Configuration) ([]Configuration, error) {
		idx := slices.IndexFunc(networks, func(n Configuration) bool { return n.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
		}
		return slices.Delete(networks, idx, idx+1), nil
	})
}

// snapshot returns a private copy of the entries, re-read from disk for a
// file-backed store.
func (s *Store) snapshot() ([]Configuration, error) {
	if s.path == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return slices.Clone(s.networks), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := withFileLock(s.path, false, s.reloadLocked)
	return slices.Clone(s.networks), err
}

// update applies fn to the freshest entries and persists the result. fn gets
// a copy it may modify; on error nothing is written.
func (s *Store) update(fn func([]Configuration) ([]Configuration, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return withFileLock(s.path, true, func() error {
		if s.path != "" {
			if err := s.reloadLocked(); err != nil {
				return err
			}
		}
		next, err := fn(slices.Clone(s.networks))
		if err != nil {
			return err
		}
		if s.path != "" {
			if err := config.SaveJSON(s.path, storeFile{Networks: next}); err != nil {
				return fmt.Errorf("writing networks: %w", err)
			}
		}
		s.networks = next
		return nil
	})
}

func (s *Store) reloadLocked() error {
	f, err := config.LoadJSON[storeFile](s.path)
	if err != nil {
		return fmt.Errorf("reading networks: %w", err)
	}
	s.networks = f.Networks
	return nil
}
