package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"loxvm/internal/compiler"
	"loxvm/internal/diag"
	"loxvm/internal/source"
	"loxvm/internal/version"
)

// Current schema version - increment when CacheEntry format changes
const cacheSchemaVersion uint16 = 1

// CheckCache stores check results on disk keyed by a hash of the file
// content and the loxvm version. Safe for concurrent use.
type CheckCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is the msgpack payload of one cached check.
type CacheEntry struct {
	Schema      uint16             `msgpack:"schema"`
	Tokens      int                `msgpack:"tokens"`
	Errors      int                `msgpack:"errors"`
	Diagnostics []CachedDiagnostic `msgpack:"diagnostics"`
}

// CachedDiagnostic is a diagnostic with its span reduced to byte offsets,
// since file IDs differ between runs.
type CachedDiagnostic struct {
	Severity uint8  `msgpack:"sev"`
	Code     uint16 `msgpack:"code"`
	Message  string `msgpack:"msg"`
	Start    uint32 `msgpack:"start"`
	End      uint32 `msgpack:"end"`
}

// OpenCheckCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache).
func OpenCheckCache(app string) (*CheckCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCheckCache(filepath.Join(base, app))
}

// NewCheckCache opens a cache rooted at dir, creating it if needed.
func NewCheckCache(dir string) (*CheckCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CheckCache{dir: dir}, nil
}

// Key hashes content together with the running version.
func (c *CheckCache) Key(content []byte) string {
	h := sha256.New()
	h.Write([]byte(version.Version))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CheckCache) pathFor(key string) string {
	// подкаталог "check" - чтобы чистить кэш проверок отдельно
	return filepath.Join(c.dir, "check", key+".mp")
}

// Store writes entry for content, replacing the file atomically.
func (c *CheckCache) Store(content []byte, entry *CacheEntry) (err error) {
	if c == nil || entry == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(c.Key(content))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Lookup returns the entry stored for content. Entries with another schema
// or that fail to decode are treated as misses.
func (c *CheckCache) Lookup(content []byte) (*CacheEntry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(c.Key(content)))
	if err != nil {
		return nil, false
	}
	var entry CacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil || entry.Schema != cacheSchemaVersion {
		return nil, false
	}
	return &entry, true
}

// DropAll removes every cached entry.
func (c *CheckCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, затем удалим
	dir := filepath.Join(c.dir, "check")
	old := dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func newCacheEntry(res *FileResult) *CacheEntry {
	entry := &CacheEntry{
		Schema: cacheSchemaVersion,
		Tokens: res.Stats.Tokens,
		Errors: res.Stats.Errors,
	}
	for _, d := range res.Bag.Items() {
		entry.Diagnostics = append(entry.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return entry
}

// restore fills res as if the file had just been compiled.
func (e *CacheEntry) restore(file source.FileID, res *FileResult) {
	res.Cached = true
	res.Stats = compiler.Stats{Tokens: e.Tokens, Errors: e.Errors}
	for _, d := range e.Diagnostics {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: file, Start: d.Start, End: d.End},
		})
	}
	if e.Errors > 0 {
		res.Err = compiler.ErrCompile
	}
}
