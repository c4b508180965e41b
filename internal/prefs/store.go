package prefs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/inclove/inclove/internal/a11y"
)

// DefaultKey is the single slot shared by every page.
const DefaultKey = "inclove.accessibility"

// Store loads and saves the preference record under one key.
type Store struct {
	kv  KV
	key string
}

// NewStore creates a store over kv. An empty key uses DefaultKey.
func NewStore(kv KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// record is the persisted shape. colorBlindEnabled is the boolean written by
// older builds of the about page.
type record struct {
	a11y.Preferences
	LegacyColorBlind *bool `json:"colorBlindEnabled,omitempty"`
}

// Load returns the persisted preferences, or the defaults when the slot is
// missing or malformed. It never fails.
func (s *Store) Load() a11y.Preferences {
	blob, ok := s.kv.Get(s.key)
	if !ok || strings.TrimSpace(blob) == "" {
		log.Debug("No stored preferences, using defaults", "key", s.key)
		return a11y.Defaults()
	}

	p, err := decode(blob)
	if err != nil {
		log.Warn("Ignoring malformed preferences", "key", s.key,
			"error", a11y.NewError(a11y.ErrorCodeMalformedState, "decode preferences", err))
		return a11y.Defaults()
	}
	return p
}

// Save writes p synchronously.
func (s *Store) Save(p a11y.Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("unable to encode preferences: %w", err)
	}
	if err := s.kv.Set(s.key, string(b)); err != nil {
		return fmt.Errorf("unable to save preferences: %w", err)
	}
	return nil
}

func decode(blob string) (a11y.Preferences, error) {
	rec := record{Preferences: a11y.Defaults()}
	rec.ColorBlind = ""
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return a11y.Preferences{}, err
	}

	p := rec.Preferences
	if p.ColorBlind == "" {
		p.ColorBlind = a11y.ColorBlindNone
		if rec.LegacyColorBlind != nil && *rec.LegacyColorBlind {
			p.ColorBlind = a11y.ColorBlindDeuteranopia
		}
	}
	return p.Normalize(), nil
}
