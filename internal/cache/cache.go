package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/report"
	"github.com/zeebo/blake3"
)

const entryExt = ".json"

// Cache keeps finished ranking reports on disk, one file per dataset key.
// An entry is served only while its run hash matches and it is younger
// than the TTL; a zero TTL keeps entries until they are cleared.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// Entry is the on-disk form of a cached report.
type Entry struct {
	Key     string          `json:"key"`
	Hash    string          `json:"hash"`
	Created time.Time       `json:"created"`
	Report  json.RawMessage `json:"report"`
}

func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	c := &Cache{enabled: enabled, now: time.Now}
	if !enabled {
		return c, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c.dir = dir
	c.ttl = time.Duration(ttlHours) * time.Hour
	return c, nil
}

// FromConfig opens the cache described by the [cache] section.
func FromConfig(cfg *config.Config) (*Cache, error) {
	return New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
}

func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashBytes returns the hex BLAKE3 digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// rankingSettings is every config section that changes a report.
type rankingSettings struct {
	Criteria config.CriteriaConfig `json:"criteria"`
	Ranking  config.RankingConfig  `json:"ranking"`
	Fuzzy    config.FuzzyConfig    `json:"fuzzy"`
	Input    config.InputConfig    `json:"input"`
}

// RunHash identifies a ranking run by the raw dataset bytes and the
// settings that affect the report. Output and cache settings are ignored.
func RunHash(dataset []byte, cfg *config.Config) (string, error) {
	settings, err := json.Marshal(rankingSettings{
		Criteria: cfg.Criteria,
		Ranking:  cfg.Ranking,
		Fuzzy:    cfg.Fuzzy,
		Input:    cfg.Input,
	})
	if err != nil {
		return "", err
	}

	h := blake3.New()
	h.Write(dataset)
	h.Write([]byte{0})
	h.Write(settings)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RunKey is the cache key for rankings of the dataset at path.
func RunKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "rank:" + path
}

// GetReport returns the cached report for key when hash still matches.
func (c *Cache) GetReport(key, hash string) (*report.Report, bool) {
	raw, ok := c.lookup(key, hash)
	if !ok {
		return nil, false
	}
	var rep report.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, false
	}
	return &rep, true
}

// SetReport stores rep under key. The full, unsorted report is expected;
// sorting and truncation are applied after a lookup.
func (c *Cache) SetReport(key, hash string, rep *report.Report) error {
	if !c.enabled {
		return nil
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return c.store(key, hash, raw)
}

func (c *Cache) lookup(key, hash string) (json.RawMessage, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.keyPath(key)
	entry, err := readEntry(path)
	if err != nil || entry.Key != key || entry.Hash != hash {
		return nil, false
	}
	if c.expired(entry) {
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Report, true
}

// store writes the entry through a temp file so a concurrent reader never
// sees a partial report.
func (c *Cache) store(key, hash string, raw json.RawMessage) error {
	data, err := json.Marshal(Entry{Key: key, Hash: hash, Created: c.now(), Report: raw})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.keyPath(key))
}

func (c *Cache) expired(e *Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.Created) > c.ttl
}

// Invalidate removes the entry for key, if any.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	if err := os.Remove(c.keyPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were removed. Other files
// in the directory are left alone.
func (c *Cache) Clear() (int, error) {
	if !c.enabled {
		return 0, nil
	}
	paths, err := c.entryPaths()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// keyPath names the entry file after the key's digest.
func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, HashBytes([]byte(key))+entryExt)
}

func (c *Cache) entryPaths() ([]string, error) {
	dirents, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range dirents {
		if !d.IsDir() && strings.HasSuffix(d.Name(), entryExt) {
			paths = append(paths, filepath.Join(c.dir, d.Name()))
		}
	}
	return paths, nil
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Stats describes the cache directory. Stale counts entries that are
// expired or unreadable; they are removed on the next lookup or clear.
type Stats struct {
	Dir       string        `json:"dir" toon:"dir"`
	Enabled   bool          `json:"enabled" toon:"enabled"`
	Entries   int           `json:"entries" toon:"entries"`
	Stale     int           `json:"stale" toon:"stale"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	paths, err := c.entryPaths()
	if err != nil {
		return nil, err
	}

	stats := &Stats{Dir: c.dir, Enabled: true}
	var oldest, newest time.Time
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalSize += info.Size()

		entry, err := readEntry(p)
		if err != nil || c.expired(entry) {
			stats.Stale++
		}
		if err != nil {
			continue
		}
		if oldest.IsZero() || entry.Created.Before(oldest) {
			oldest = entry.Created
		}
		if newest.IsZero() || entry.Created.After(newest) {
			newest = entry.Created
		}
	}

	if !oldest.IsZero() {
		stats.OldestAge = c.now().Sub(oldest)
		stats.NewestAge = c.now().Sub(newest)
	}
	return stats, nil
}
