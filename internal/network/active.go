package network

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ErrActivation is returned when a network cannot be made active.
var ErrActivation = errors.New("activation failed")

// Active is the network selected for an origin.
type Active struct {
	ChainID  string
	RPCURL   string
	ConfigID string
}

type activeFile struct {
	Origins map[string]string `json:"origins"` // origin -> configuration ID
}

// ActiveStore tracks the active network per origin. Origins without a
// selection use the current registry entry for the default chain id. Like
// Store, a file-backed ActiveStore re-reads its file on every access.
type ActiveStore struct {
	mu             sync.RWMutex
	path           string
	registry       *Store
	defaultChainID string
	origins        map[string]string
}

// OpenActiveStore loads per-origin selections from path. An empty path keeps
// them in memory only.
func OpenActiveStore(path string, registry *Store, defaultChainID string) (*ActiveStore, error) {
	canonical, err := quantity.Canonicalize(defaultChainID)
	if err != nil {
		return nil, fmt.Errorf("default chain id: %w", err)
	}
	a := &ActiveStore{
		path:           path,
		registry:       registry,
		defaultChainID: canonical,
		origins:        make(map[string]string),
	}
	if _, err := a.snapshot(); err != nil {
		return nil, err
	}
	return a, nil
}

// Current returns the active network for origin.
func (a *ActiveStore) Current(origin string) (Active, error) {
	origins, err := a.snapshot()
	if err != nil {
		return Active{}, err
	}

	if id := origins[origin]; id != "" {
		if cfg, err := a.registry.Get(id); err == nil {
			return Active{ChainID: cfg.ChainID, RPCURL: cfg.RPCURL, ConfigID: cfg.ID}, nil
		}
	}
	if cfg := a.registry.FindByChainID(a.defaultChainID); cfg != nil {
		return Active{ChainID: cfg.ChainID, RPCURL: cfg.RPCURL, ConfigID: cfg.ID}, nil
	}
	return Active{ChainID: a.defaultChainID}, nil
}

// SetActive makes the configuration with configID active for origin.
func (a *ActiveStore) SetActive(origin, configID string) error {
	if _, err := a.registry.Get(configID); err != nil {
		return fmt.Errorf("%w: %w", ErrActivation, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return withFileLock(a.path, true, func() error {
		if a.path != "" {
			if err := a.reloadLocked(); err != nil {
				return fmt.Errorf("%w: %w", ErrActivation, err)
			}
		}
		next := maps.Clone(a.origins)
		next[origin] = configID
		if a.path != "" {
			if err := config.SaveJSON(a.path, activeFile{Origins: next}); err != nil {
				return fmt.Errorf("%w: writing active networks: %w", ErrActivation, err)
			}
		}
		a.origins = next
		return nil
	})
}

// Origins returns a copy of every explicit origin selection.
func (a *ActiveStore) Origins() map[string]string {
	origins, err := a.snapshot()
	if err != nil {
		a.mu.RLock()
		defer a.mu.RUnlock()
		return maps.Clone(a.origins)
	}
	return origins
}

func (a *ActiveStore) snapshot() (map[string]string, error) {
	if a.path == "" {
		a.mu.RLock()
		defer a.mu.RUnlock()
		return maps.Clone(a.origins), nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	err := withFileLock(a.path, false, a.reloadLocked)
	return maps.Clone(a.origins), err
}

func (a *ActiveStore) reloadLocked() error {
	f, err := config.LoadJSON[activeFile](a.path)
	if err != nil {
		return fmt.Errorf("reading active networks: %w", err)
	}
	a.origins = f.Origins
	if a.origins == nil {
		a.origins = make(map[string]string)
	}
	return nil
}
