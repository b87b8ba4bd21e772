// Package settings persists per-profile game settings and the UI theme as
// JSON documents in a KV backend. Stored values are normalized on read, so
// callers always get a playable configuration.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/memory/internal/memory"
)

const (
	settingsKey = "memory:settings"
	themeKey    = "memory:theme"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Patch holds the fields of an update; nil fields keep their current value.
type Patch struct {
	BoardSize      *int           `json:"boardSize,omitempty"`
	StartingPlayer *memory.Player `json:"startingPlayer,omitempty"`
}

// storedSettings accepts whatever an older client may have written.
// PlayerColor is the field name used before startingPlayer existed.
type storedSettings struct {
	BoardSize      any `json:"boardSize"`
	StartingPlayer any `json:"startingPlayer"`
	PlayerColor    any `json:"playerColor"`
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func key(profile, name string) string {
	return profile + ":" + name
}

// GameSettings returns the settings of profile, falling back to defaults
// for a missing or unreadable document and for each invalid field.
func (s *Store) GameSettings(ctx context.Context, profile string) (memory.Settings, error) {
	data, err := s.kv.Get(ctx, key(profile, settingsKey))
	if errors.Is(err, ErrNotFound) {
		return memory.DefaultSettings(), nil
	}
	if err != nil {
		return memory.DefaultSettings(), fmt.Errorf("loading settings: %w", err)
	}
	return decodeSettings(data), nil
}

func decodeSettings(data []byte) memory.Settings {
	var doc storedSettings
	if err := json.Unmarshal(data, &doc); err != nil {
		return memory.DefaultSettings()
	}

	out := memory.DefaultSettings()
	if n, ok := doc.BoardSize.(float64); ok && n == float64(int(n)) && memory.ValidBoardSize(int(n)) {
		out.BoardSize = int(n)
	}

	raw := doc.StartingPlayer
	if raw == nil {
		raw = doc.PlayerColor
	}
	if p, ok := raw.(string); ok && memory.Player(p).Valid() {
		out.StartingPlayer = memory.Player(p)
	}
	return out
}

// UpdateGameSettings merges the valid fields of patch over the current
// settings and stores the result.
func (s *Store) UpdateGameSettings(ctx context.Context, profile string, patch Patch) (memory.Settings, error) {
	current, err := s.GameSettings(ctx, profile)
	if err != nil {
		return current, err
	}

	if patch.BoardSize != nil && memory.ValidBoardSize(*patch.BoardSize) {
		current.BoardSize = *patch.BoardSize
	}
	if patch.StartingPlayer != nil && patch.StartingPlayer.Valid() {
		current.StartingPlayer = *patch.StartingPlayer
	}

	data, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	if err := s.kv.Put(ctx, key(profile, settingsKey), data); err != nil {
		return current, fmt.Errorf("saving settings: %w", err)
	}
	return current, nil
}

// Theme returns the stored theme of profile. Without one it returns
// preferred, or light when preferred is not a known theme.
func (s *Store) Theme(ctx context.Context, profile string, preferred Theme) (Theme, error) {
	fallback := ThemeLight
	if preferred.Valid() {
		fallback = preferred
	}

	data, err := s.kv.Get(ctx, key(profile, themeKey))
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("loading theme: %w", err)
	}

	var stored Theme
	if err := json.Unmarshal(data, &stored); err != nil || !stored.Valid() {
		return fallback, nil
	}
	return stored, nil
}

func (s *Store) SetTheme(ctx context.Context, profile string, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	data, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, key(profile, themeKey), data); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}
