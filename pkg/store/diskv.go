package store

import (
	"context"
	"crypto/md5"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/bricks/pkg/collection"
)

// StatsKey names the file holding the whole collection.
const StatsKey = "stats.json"

const tempDir = ".tmp"

// Persistence defines the persistence contract for the collection. The
// collection is read and written as a single document.
type Persistence interface {
	Load(ctx context.Context) ([]collection.Entry, error)
	Save(ctx context.Context, entries []collection.Entry) error
	Path() string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: flatTransform,
		InverseTransform:  flatInverseTransform,
		CacheSizeMax:      0, // other processes may edit the file
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string

	mu      sync.Mutex
	lastSum [md5.Size]byte
}

func (p *persistence) Path() string {
	return filepath.Join(p.basePath, StatsKey)
}

// Load reads the collection. A missing file is an empty collection.
func (p *persistence) Load(ctx context.Context) ([]collection.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.d.Has(StatsKey) {
		return []collection.Entry{}, nil
	}
	data, err := p.d.Read(StatsKey)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", p.Path(), err)
	}
	entries, err := collection.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", p.Path(), err)
	}
	p.remember(data)
	return entries, nil
}

// Save replaces the collection file. diskv writes to TempDir and renames, so
// readers never observe a partial file.
func (p *persistence) Save(ctx context.Context, entries []collection.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := collection.Encode(entries)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	// The sum is set before writing so the watcher never sees our own
	// rename as an outside edit; a failed write puts the old one back.
	prev := p.remember(data)
	if err := p.d.Write(StatsKey, data); err != nil {
		p.mu.Lock()
		p.lastSum = prev
		p.mu.Unlock()
		return fmt.Errorf("store: write %s: %w", p.Path(), err)
	}
	return nil
}

func (p *persistence) remember(data []byte) (prev [md5.Size]byte) {
	p.mu.Lock()
	prev, p.lastSum = p.lastSum, md5.Sum(data)
	p.mu.Unlock()
	return prev
}

// ours reports whether data is what this process last read or wrote.
func (p *persistence) ours(data []byte) bool {
	sum := md5.Sum(data)
	p.mu.Lock()
	defer p.mu.Unlock()
	return sum == p.lastSum
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key}
}

func flatInverseTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
