// Package config loads the pool layout a process composes at startup: which
// size classes exist, how many blocks each holds, and how the pools are backed.
//
// Values come from a YAML file and are then overridden by FBPOOL_* environment
// variables.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/internal/arena"
	"github.com/joshuapare/fbpool/internal/format"
	"github.com/joshuapare/fbpool/internal/logger"
	"github.com/joshuapare/fbpool/xalloc"
)

const (
	envVarPrefix = "FBPOOL"

	// DefaultPreset is used when neither the file nor the environment names
	// a preset or any pools.
	DefaultPreset = "bm"

	// DefaultCapacity is the per-class block count for generated presets.
	DefaultCapacity = 256
)

// ErrInvalid indicates a layout that cannot be built.
var ErrInvalid = errors.New("config: invalid layout")

// PoolSpec declares one size class.
type PoolSpec struct {
	Name      string `yaml:"name"      json:"name"`
	BlockSize int    `yaml:"blockSize" json:"block_size"`
	Capacity  int    `yaml:"capacity"  json:"capacity"`
}

// Layout is the full allocator configuration.
type Layout struct {
	Preset    string     `envconfig:"PRESET"     yaml:"preset"    json:"preset"`
	Capacity  int        `envconfig:"CAPACITY"   yaml:"capacity"  json:"capacity"`
	Pools     []PoolSpec `ignored:"true"         yaml:"pools"     json:"pools"`
	Cascade   bool       `envconfig:"CASCADE"    yaml:"cascade"   json:"cascade"`
	Strict    bool       `envconfig:"STRICT"     yaml:"strict"    json:"strict"`
	Storage   string     `envconfig:"STORAGE"    yaml:"storage"   json:"storage"`
	LogLevel  string     `envconfig:"LOG_LEVEL"  yaml:"logLevel"  json:"log_level"`
	LogFormat string     `envconfig:"LOG_FORMAT" yaml:"logFormat" json:"log_format"`
}

// Default returns the layout used when nothing is configured.
func Default() *Layout {
	return &Layout{
		Capacity:  DefaultCapacity,
		Storage:   arena.Heap.String(),
		LogFormat: "text",
	}
}

// Load reads the layout from path, then applies environment overrides. An
// empty path falls back to $FBPOOL_CONFIG_FILE; a file named only by the
// environment may be absent.
func Load(path string) (*Layout, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(envVarPrefix + "_CONFIG_FILE")
	}

	l := Default()
	if path != "" {
		if err := l.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := envconfig.Process(envVarPrefix, l); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	if err := l.Resolve(); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layout) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(l); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unmarshaling config file: %w", err)
	}
	return nil
}

// Resolve expands the preset into pool specs when no pools are listed. An
// empty preset means DefaultPreset. Naming a preset next to explicit pools is
// an error.
func (l *Layout) Resolve() error {
	if len(l.Pools) > 0 {
		if l.Preset != "" {
			return fmt.Errorf("%w: preset %q conflicts with %d explicit pools",
				ErrInvalid, l.Preset, len(l.Pools))
		}
		return nil
	}
	if l.Preset == "" {
		l.Preset = DefaultPreset
	}
	specs, err := PresetPools(l.Preset, l.Capacity)
	if err != nil {
		return err
	}
	l.Pools = specs
	return nil
}

// Validate reports the first problem that would stop Build.
func (l *Layout) Validate() error {
	if len(l.Pools) == 0 {
		return fmt.Errorf("%w: no pools", ErrInvalid)
	}
	names := make(map[string]bool, len(l.Pools))
	sizes := make(map[int]string, len(l.Pools))
	for i, p := range l.Pools {
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: pool %d has no name", ErrInvalid, i)
		case names[p.Name]:
			return fmt.Errorf("%w: duplicate pool name %q", ErrInvalid, p.Name)
		case p.BlockSize <= 0:
			return fmt.Errorf("%w: pool %q: blockSize must be positive", ErrInvalid, p.Name)
		case p.Capacity <= 0:
			return fmt.Errorf("%w: pool %q: capacity must be positive", ErrInvalid, p.Name)
		}
		if other, ok := sizes[p.BlockSize]; ok {
			return fmt.Errorf("%w: pools %q and %q share block size %d",
				ErrInvalid, other, p.Name, p.BlockSize)
		}
		names[p.Name] = true
		sizes[p.BlockSize] = p.Name
	}
	if _, err := arena.ParseMode(l.Storage); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, _, err := logger.ParseLevel(l.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch l.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, l.LogFormat)
	}
	return nil
}

// Sorted returns the pool specs in ascending block size order.
func (l *Layout) Sorted() []PoolSpec {
	specs := slices.Clone(l.Pools)
	slices.SortFunc(specs, func(a, b PoolSpec) int {
		return cmp.Compare(a.BlockSize, b.BlockSize)
	})
	return specs
}

// Footprint returns the bytes of backing storage the layout reserves.
func (l *Layout) Footprint() int {
	n := 0
	for _, p := range l.Pools {
		n += p.Capacity * format.SlotStride(p.BlockSize)
	}
	return n
}

// PoolOptions returns the per-pool options the layout implies. log receives
// pool diagnostics; nil discards them.
func (l *Layout) PoolOptions(log *slog.Logger) []fixed.Option {
	var opts []fixed.Option
	if log != nil {
		opts = append(opts, fixed.WithLogger(log))
	}
	mode, _ := arena.ParseMode(l.Storage)
	switch mode {
	case arena.Mapped:
		opts = append(opts, fixed.WithMappedStorage(false))
	case arena.MappedLocked:
		opts = append(opts, fixed.WithMappedStorage(true))
	}
	if l.Strict {
		opts = append(opts, fixed.WithPanicOnCorruption())
	}
	return opts
}

// Build creates, initializes and composes the pools. log receives pool and
// dispatcher diagnostics; nil discards them.
func (l *Layout) Build(log *slog.Logger) (*xalloc.Dispatcher, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	poolOpts := l.PoolOptions(log)
	var opts []xalloc.Option
	if log != nil {
		opts = append(opts, xalloc.WithLogger(log))
	}
	if l.Strict {
		opts = append(opts, xalloc.WithPanicOnCorruption())
	}
	if l.Cascade {
		opts = append(opts, xalloc.WithCascade())
	}

	specs := l.Sorted()
	pools := make([]*fixed.Pool, 0, len(specs))
	fail := func(err error) (*xalloc.Dispatcher, error) {
		for _, p := range pools {
			_ = p.Close()
		}
		return nil, err
	}
	for _, s := range specs {
		p, err := fixed.New(s.Name, s.BlockSize, s.Capacity, poolOpts...)
		if err != nil {
			return fail(err)
		}
		pools = append(pools, p)
	}
	if err := fixed.InitAll(pools...); err != nil {
		return fail(err)
	}
	d, err := xalloc.New(pools, opts...)
	if err != nil {
		return fail(err)
	}
	return d, nil
}
