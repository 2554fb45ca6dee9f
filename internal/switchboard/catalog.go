package switchboard

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"fmt"

	"go.uber.org/zap"
)

// NoneKey is the conventional catalog key for "no texture".
const NoneKey = "none"

// Entry is one selectable texture. A nil Texture clears the slot.
type Entry struct {
	Key     string
	Texture *renderer.Texture
}

// Catalog is an immutable, ordered set of selectable textures for one
// material slot. Order is display order.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// NewCatalog copies entries into a catalog. Keys must be non-empty and
// unique.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("catalog entry %d: %w", len(c.entries), ErrEmptyKey)
		}
		if _, dup := c.index[e.Key]; dup {
			return nil, fmt.Errorf("catalog key %q: %w", e.Key, ErrDuplicateKey)
		}
		c.index[e.Key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// FromPaths loads every path through tm and builds a catalog with a leading
// "none" entry followed by one entry per key in keys order. A texture that
// fails to load is logged with its cause and left out of the catalog, so the
// slot can still be switched between what did load.
func FromPaths(tm *renderer.TextureManager, keys []string, paths map[string]string) (*Catalog, error) {
	entries := []Entry{{Key: NoneKey}}
	for _, key := range keys {
		path, ok := paths[key]
		if !ok {
			return nil, fmt.Errorf("catalog key %q has no path: %w", key, ErrUnknownKey)
		}
		tex, err := tm.LoadTexture(path)
		if err != nil {
			logger.Log.Error("Texture load failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		entries = append(entries, Entry{Key: key, Texture: tex})
	}
	logger.Log.Debug("Catalog loaded", zap.Strings("keys", keys), zap.Int("entries", len(entries)))
	return NewCatalog(entries...)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Keys returns the keys in display order. The slice is a copy.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the texture for key. ok is false for unknown keys, while a
// known "none" entry yields (nil, true).
func (c *Catalog) Lookup(key string) (*renderer.Texture, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Texture, true
}

// IndexOf returns the display position of key, or -1.
func (c *Catalog) IndexOf(key string) int {
	if i, ok := c.index[key]; ok {
		return i
	}
	return -1
}

// At returns the entry at display position i.
func (c *Catalog) At(i int) (Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i], true
}

// DefaultKey is the second key, which skips a leading "none". Single entry
// catalogs default to their only key.
func (c *Catalog) DefaultKey() string {
	switch len(c.entries) {
	case 0:
		return ""
	case 1:
		return c.entries[0].Key
	}
	return c.entries[1].Key
}

// Entries returns a copy of the entries in display order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}
