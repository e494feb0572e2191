package dynamic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Allocator names accepted by Config.Allocator.
const (
	AllocatorHeap = "heap"
	AllocatorMmap = "mmap"
)

// Config controls a Stack.
type Config struct {
	// RootCapacity is the initial number of frame slots.
	RootCapacity int `mapstructure:"root_capacity"`
	// FrameCapacity is the initial number of records per frame.
	FrameCapacity int `mapstructure:"frame_capacity"`
	// MemoryLimit caps the bytes held by tracked lists and raw blocks.
	// Zero means unlimited.
	MemoryLimit int64 `mapstructure:"memory_limit"`
	// Allocator selects the raw block allocator: "heap" or "mmap".
	Allocator string `mapstructure:"allocator"`
	// Debug logs every track, untrack, relocation and collection.
	Debug bool `mapstructure:"debug"`
	// NoColor disables ANSI colours in log output.
	NoColor bool `mapstructure:"no_color"`
	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer `mapstructure:"-"`
}

// DefaultConfig returns the configuration of the default stack.
func DefaultConfig() Config {
	return Config{
		RootCapacity:  DefaultCapacity,
		FrameCapacity: DefaultCapacity,
		Allocator:     AllocatorHeap,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.RootCapacity < 0:
		return fmt.Errorf("root_capacity must be >= 0, got %d", c.RootCapacity)
	case c.FrameCapacity < 0:
		return fmt.Errorf("frame_capacity must be >= 0, got %d", c.FrameCapacity)
	case c.MemoryLimit < 0:
		return fmt.Errorf("memory_limit must be >= 0, got %d", c.MemoryLimit)
	}
	switch c.Allocator {
	case "", AllocatorHeap, AllocatorMmap:
		return nil
	default:
		return fmt.Errorf("unknown allocator %q", c.Allocator)
	}
}

func (c Config) withDefaults() Config {
	if c.RootCapacity <= 0 {
		c.RootCapacity = DefaultCapacity
	}
	if c.FrameCapacity <= 0 {
		c.FrameCapacity = DefaultCapacity
	}
	if c.Allocator == "" {
		c.Allocator = AllocatorHeap
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	return c
}

func (c Config) allocator() Allocator {
	if c.Allocator == AllocatorMmap {
		return MmapAllocator{}
	}
	return HeapAllocator{}
}

// NewViper returns a viper instance preloaded with the defaults and bound to
// environment variables named <PREFIX>_<KEY>, e.g. DYNAMIC_MEMORY_LIMIT.
func NewViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("root_capacity", d.RootCapacity)
	v.SetDefault("frame_capacity", d.FrameCapacity)
	v.SetDefault("memory_limit", d.MemoryLimit)
	v.SetDefault("allocator", d.Allocator)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("no_color", d.NoColor)
	return v
}

// ConfigFromViper decodes and validates a Config.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a Config from the environment.
func LoadConfig(prefix string) (Config, error) {
	return ConfigFromViper(NewViper(prefix))
}
