package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// FileStore persists credentials in a local YAML file keyed by identity.
type FileStore struct {
	path     string
	mu       sync.Mutex
	generate func() (Credential, error)
}

type fileState struct {
	Credentials map[string]Credential `yaml:"credentials"`
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, generate: Generate}
}

// Issue returns the credential stored for identity, creating it if absent.
func (s *FileStore) Issue(ctx context.Context, identity string) (Credential, error) {
	if _, _, err := SplitIdentity(identity); err != nil {
		return Credential{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return Credential{}, err
	}
	if cred, ok := state.Credentials[identity]; ok {
		if err := cred.Validate(); err != nil {
			return Credential{}, fmt.Errorf("stored credential for %s is corrupt: %w", identity, err)
		}
		return cred, nil
	}

	cred, err := s.generate()
	if err != nil {
		return Credential{}, err
	}
	state.Credentials[identity] = cred

	if err := s.write(state); err != nil {
		return Credential{}, err
	}

	log.FromContext(ctx).Info("stored new credential", "identity", identity, "file", s.path)
	return cred, nil
}

// Lookup returns the stored credential without creating one.
func (s *FileStore) Lookup(_ context.Context, identity string) (Credential, bool, error) {
	if _, _, err := SplitIdentity(identity); err != nil {
		return Credential{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return Credential{}, false, err
	}
	cred, ok := state.Credentials[identity]
	if !ok {
		return Credential{}, false, nil
	}
	if err := cred.Validate(); err != nil {
		return Credential{}, false, fmt.Errorf("stored credential for %s is corrupt: %w", identity, err)
	}
	return cred, true, nil
}

// Delete removes the stored credential. A missing entry is not an error.
func (s *FileStore) Delete(_ context.Context, identity string) error {
	if _, _, err := SplitIdentity(identity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := state.Credentials[identity]; !ok {
		return nil
	}
	delete(state.Credentials, identity)
	return s.write(state)
}

func (s *FileStore) read() (*fileState, error) {
	state := &fileState{Credentials: map[string]Credential{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", s.path, err)
	}
	if state.Credentials == nil {
		state.Credentials = map[string]Credential{}
	}
	return state, nil
}

// write replaces the file atomically.
func (s *FileStore) write(state *fileState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary credential file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict credential file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
