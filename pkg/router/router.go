// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package router

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DefaultKey is the distinguished mapping entry used when no city matches.
const DefaultKey = "default"

// ErrNoDestination is returned when no channel matches and no default is
// configured. Callers must treat it as a configuration error, not a crash.
var ErrNoDestination = errors.New("no destination channel configured")

// Entry is one city-to-channel mapping in definition order.
type Entry struct {
	City      string
	ChannelID string
}

// ChannelMap maps normalized city keys to Discord channel IDs. The fuzzy
// match scans entries in definition order, so order is preserved from the
// configuration string. It implements encoding.TextUnmarshaler so it can be
// parsed straight out of an environment variable.
type ChannelMap struct {
	entries   []Entry
	byKey     map[string]string
	defaultID string
}

// Resolution describes how a city was routed.
type Resolution struct {
	ChannelID  string
	Normalized string
	MatchedBy  string // "exact", "fuzzy", "default"
}

// UnmarshalText parses a mapping of the form
// "beijing:111,shanghai:222,default:999". Keys are normalized; definition
// order is kept for the fuzzy scan.
func (m *ChannelMap) UnmarshalText(text []byte) error {
	m.entries = nil
	m.byKey = make(map[string]string)
	m.defaultID = ""

	raw := strings.TrimSpace(string(text))
	if raw == "" {
		return nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, ":")
		if !found {
			return fmt.Errorf("invalid channel mapping %q, want city:channelID", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.EqualFold(key, DefaultKey) {
			m.defaultID = value
			continue
		}
		normalized := Normalize(key)
		if normalized == "" || value == "" {
			return fmt.Errorf("invalid channel mapping %q", pair)
		}
		if _, dup := m.byKey[normalized]; dup {
			continue
		}
		m.byKey[normalized] = value
		m.entries = append(m.entries, Entry{City: normalized, ChannelID: value})
	}
	return nil
}

// SetDefault fills in the default channel if the mapping itself did not
// define one. An explicit "default:" entry wins.
func (m *ChannelMap) SetDefault(channelID string) {
	if m.defaultID == "" {
		m.defaultID = channelID
	}
}

// Default returns the fallback channel ID, or "" when unset.
func (m *ChannelMap) Default() string {
	return m.defaultID
}

// Entries returns the city mappings in definition order, excluding default.
func (m *ChannelMap) Entries() []Entry {
	return m.entries
}

// Resolve maps a free-text city name to a destination channel.
//
// Cascade: empty city -> default; exact normalized match; fuzzy
// bidirectional-containment scan in definition order; default. When the
// cascade lands on an unset default, ErrNoDestination is returned.
func (m *ChannelMap) Resolve(city string) (Resolution, error) {
	normalized := Normalize(city)
	if normalized == "" {
		return m.fallback(normalized)
	}

	if id, ok := m.byKey[normalized]; ok {
		return Resolution{ChannelID: id, Normalized: normalized, MatchedBy: "exact"}, nil
	}

	for _, e := range m.entries {
		if strings.Contains(normalized, e.City) || strings.Contains(e.City, normalized) {
			return Resolution{ChannelID: e.ChannelID, Normalized: normalized, MatchedBy: "fuzzy"}, nil
		}
	}

	return m.fallback(normalized)
}

func (m *ChannelMap) fallback(normalized string) (Resolution, error) {
	if m.defaultID == "" {
		return Resolution{Normalized: normalized}, ErrNoDestination
	}
	return Resolution{ChannelID: m.defaultID, Normalized: normalized, MatchedBy: "default"}, nil
}

// Normalize lowercases the city and strips everything except ASCII letters,
// digits, and CJK ideographs. "Beijing City!" and "beijingcity" normalize to
// the same key.
func Normalize(city string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(city)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
