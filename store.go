package netwayste

import (
	"context"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/renameio"
)

// ServerStore persists a list of recently used server addresses
// (host:port) to a YAML file, so a CLI client can offer a saved list
// instead of requiring the address on every launch.
type ServerStore struct {
	path      string
	addresses []string
	mu        sync.RWMutex
}

// NewServerStore opens (or initializes, if absent) a YAML file at
// path as a ServerStore.
func NewServerStore(path string) (*ServerStore, error) {
	addresses := []string{}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &addresses); err != nil {
			return nil, err
		}
	}

	return &ServerStore{path: path, addresses: addresses}, nil
}

// Get returns the stored addresses, most recently added last.
func (s *ServerStore) Get(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]string, len(s.addresses))
	copy(ret, s.addresses)
	return ret, nil
}

// Add appends addr to the store if not already present and persists
// the result atomically.
func (s *ServerStore) Add(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.addresses {
		if existing == addr {
			return nil
		}
	}
	addresses := append(s.addresses, addr)

	data, err := yaml.Marshal(addresses)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.addresses = addresses
	return nil
}
