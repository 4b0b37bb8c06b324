package preferences

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dom/league-rest-explorer/internal/domain"
	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
	fileName     = "preferences.yaml"
	appDir       = "league-rest-explorer"
)

func ParseTheme(raw string) (Theme, error) {
	switch t := Theme(raw); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTheme, raw)
	}
}

type file struct {
	Theme Theme `yaml:"theme"`
}

// Store persists the theme preference in a YAML file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore uses dir, or the user config directory when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, appDir)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Theme returns the saved theme. A missing file or an unrecognized value
// yields the default.
func (s *Store) Theme() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return DefaultTheme, err
	}
	if t, err := ParseTheme(string(f.Theme)); err == nil {
		return t, nil
	}
	return DefaultTheme, nil
}

func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	f.Theme = t

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) read() (file, error) {
	var f file
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse preferences: %w", err)
	}
	return f, nil
}
