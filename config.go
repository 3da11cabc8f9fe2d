package tide

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zoobzio/capitan"
)

// MaxCapacity bounds the bus capacity accepted from configuration.
const MaxCapacity = 4096

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tunable parts of a Program. It can be decoded from a
// YAML or JSON file with LoadConfig and applied with Program.Configure.
type Config struct {
	// BusCapacity is the number of messages the bus buffers. 0 gives a
	// synchronous handoff.
	BusCapacity int `yaml:"bus_capacity" json:"bus_capacity"`

	// RenderInitial renders the model once before the first message.
	RenderInitial bool `yaml:"render_initial" json:"render_initial"`

	// Quiet disables rendering entirely.
	Quiet bool `yaml:"quiet" json:"quiet"`

	// DropHistory is how many dropped commands Program.Drops keeps.
	DropHistory int `yaml:"drop_history" json:"drop_history"`
}

// DefaultConfig returns the configuration a Program starts with.
func DefaultConfig() Config {
	return Config{BusCapacity: DefaultCapacity}
}

// Validate implements the validation contract used by LoadConfig.
func (c Config) Validate() error {
	if c.BusCapacity < 0 || c.BusCapacity > MaxCapacity {
		return fmt.Errorf("%w: bus_capacity must be between 0 and %d, got %d", ErrInvalidConfig, MaxCapacity, c.BusCapacity)
	}
	if c.DropHistory < 0 {
		return fmt.Errorf("%w: drop_history must not be negative, got %d", ErrInvalidConfig, c.DropHistory)
	}
	return nil
}

// LoadConfig reads the file at path, decodes it with the codec matching its
// extension, and validates the result. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(ctx context.Context, path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	codec := CodecFor(path)
	if err := codec.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config %s as %s: %w", path, codec.ContentType(), err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	capitan.Emit(context.WithoutCancel(ctx), ConfigLoaded,
		KeyPath.Field(path),
		KeyCapacity.Field(cfg.BusCapacity),
	)
	return cfg, nil
}
