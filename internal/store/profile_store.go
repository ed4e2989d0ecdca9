package store

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"dhchat/internal/domain"
)

const profilesFile = "profiles.json"

var ErrProfileName = errors.New("profile name must be non-empty and contain no path separators")

// ProfileFileStore persists named peer profiles to disk.
type ProfileFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewProfileFileStore returns a ProfileFileStore rooted at dir.
func NewProfileFileStore(dir string) *ProfileFileStore {
	return &ProfileFileStore{dir: dir}
}

func (s *ProfileFileStore) path() string { return filepath.Join(s.dir, profilesFile) }

func (s *ProfileFileStore) load() (map[string]domain.Profile, error) {
	profiles := make(map[string]domain.Profile)
	if err := readJSON(s.path(), &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveProfile stores or replaces the profile with p.Name.
func (s *ProfileFileStore) SaveProfile(p domain.Profile) error {
	if p.Name == "" || strings.ContainsAny(p.Name, `/\`) {
		return ErrProfileName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	profiles[p.Name] = p
	return writeJSON(s.path(), profiles, 0o600)
}

// LoadProfile retrieves a profile by name.
func (s *ProfileFileStore) LoadProfile(name string) (domain.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return domain.Profile{}, false, err
	}
	p, ok := profiles[name]
	return p, ok, nil
}

// ListProfiles returns all profiles sorted by name.
func (s *ProfileFileStore) ListProfiles() ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteProfile removes a profile, reporting whether it existed.
func (s *ProfileFileStore) DeleteProfile(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := profiles[name]; !ok {
		return false, nil
	}
	delete(profiles, name)
	return true, writeJSON(s.path(), profiles, 0o600)
}

// Compile-time assertion that ProfileFileStore implements domain.ProfileStore.
var _ domain.ProfileStore = (*ProfileFileStore)(nil)
