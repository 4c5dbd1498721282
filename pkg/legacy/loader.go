package legacy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileEntry is the on-disk shape of a registry entry.
//
//	- email: owner@example.com
//	  user_id: 3f1c...
//	  start_date: 2023-01-01
//	  end_date: 2025-12-31
type fileEntry struct {
	Email     string `yaml:"email"`
	UserID    string `yaml:"user_id"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// Parse decodes a YAML list of entries and builds a registry.
func Parse(r io.Reader, opts ...Option) (*Registry, error) {
	var raw []fileEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrFailedToLoadRegistry, err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, fe := range raw {
		start, err := parseDate(fe.StartDate)
		if err != nil {
			return nil, errors.Join(ErrInvalidEntry, fmt.Errorf("entry %d start_date: %w", i, err))
		}
		end, err := parseDate(fe.EndDate)
		if err != nil {
			return nil, errors.Join(ErrInvalidEntry, fmt.Errorf("entry %d end_date: %w", i, err))
		}
		entries = append(entries, Entry{
			Email:     strings.TrimSpace(fe.Email),
			UserID:    strings.TrimSpace(fe.UserID),
			StartDate: start,
			EndDate:   end,
		})
	}

	return New(entries, opts...)
}

// LoadFile reads the registry from a YAML file.
// An empty path yields an empty registry.
func LoadFile(path string, opts ...Option) (*Registry, error) {
	if path == "" {
		return New(nil, opts...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadRegistry, err)
	}
	defer f.Close()

	return Parse(f, opts...)
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input returns the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
