package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"logistics/internal/adapters/out/memworld"
	"logistics/internal/core/application/coordinator"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOGISTICS_HTTP_PORT.
const EnvPrefix = "LOGISTICS"

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Transport TransportConfig `mapstructure:"transport"`
	Autosave  AutosaveConfig  `mapstructure:"autosave"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	World     []SeedConfig    `mapstructure:"world" validate:"dive"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TransportConfig holds the carrier tunables. Money values are decimal
// strings so that YAML floats never round them.
type TransportConfig struct {
	CarrierCapacity  int           `mapstructure:"carrier_capacity" validate:"gt=0"`
	CarrierSpeed     float64       `mapstructure:"carrier_speed" validate:"gt=0"`
	CostPerTile      string        `mapstructure:"cost_per_tile" validate:"required,numeric"`
	FixedCarrierCost string        `mapstructure:"fixed_carrier_cost" validate:"required,numeric"`
	TileSize         float64       `mapstructure:"tile_size" validate:"gt=0"`
	Roads            string        `mapstructure:"roads" validate:"oneof=straight grid"`
	OpeningBalance   string        `mapstructure:"opening_balance" validate:"required,numeric"`
	TickInterval     time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	MaxTickDt        time.Duration `mapstructure:"max_tick_dt" validate:"gte=0"`
}

// AutosaveConfig is disabled when Spec is empty.
type AutosaveConfig struct {
	Spec string `mapstructure:"spec"`
	Slot string `mapstructure:"slot" validate:"required_with=Spec"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=file postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_unless=Driver file"`
	Dir    string `mapstructure:"dir" validate:"required_if=Driver file"`
	Format string `mapstructure:"format" validate:"oneof=json yaml yml"`
}

// RedisConfig is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Channel  string `mapstructure:"channel" validate:"required_with=Addr"`
	Buffer   int    `mapstructure:"buffer" validate:"gte=0"`
}

// SeedConfig places one building or city at startup.
type SeedConfig struct {
	Name            string         `mapstructure:"name" validate:"required"`
	Kind            string         `mapstructure:"kind" validate:"oneof=building city"`
	X               float64        `mapstructure:"x"`
	Y               float64        `mapstructure:"y"`
	CarrierCapacity int            `mapstructure:"carrier_capacity" validate:"gte=0"`
	Stock           map[string]int `mapstructure:"stock"`
}

// LoadConfig reads, in increasing priority: defaults, the YAML file at path
// (or ./logistics.yaml when path is empty), .env and LOGISTICS_* variables.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("logistics")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("transport.carrier_capacity", 10)
	v.SetDefault("transport.carrier_speed", 64.0)
	v.SetDefault("transport.cost_per_tile", "0.5")
	v.SetDefault("transport.fixed_carrier_cost", "5")
	v.SetDefault("transport.tile_size", 32.0)
	v.SetDefault("transport.roads", "straight")
	v.SetDefault("transport.opening_balance", "10000")
	v.SetDefault("transport.tick_interval", 100*time.Millisecond)
	v.SetDefault("transport.max_tick_dt", time.Second)
	v.SetDefault("autosave.spec", "")
	v.SetDefault("autosave.slot", "autosave")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.dir", "./saves")
	v.SetDefault("storage.format", "json")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "logistics.jobs")
	v.SetDefault("redis.buffer", 256)
}

// Validate checks the struct tags and the decimal settings.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := c.Transport.Settings(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}

// Settings converts the section into coordinator settings.
func (t TransportConfig) Settings() (coordinator.Settings, error) {
	costPerTile, err := decimal.NewFromString(t.CostPerTile)
	if err != nil {
		return coordinator.Settings{}, fmt.Errorf("cost_per_tile: %w", err)
	}
	fixed, err := decimal.NewFromString(t.FixedCarrierCost)
	if err != nil {
		return coordinator.Settings{}, fmt.Errorf("fixed_carrier_cost: %w", err)
	}
	settings := coordinator.Settings{
		CarrierCapacity:  t.CarrierCapacity,
		CarrierSpeed:     t.CarrierSpeed,
		CostPerTile:      costPerTile,
		FixedCarrierCost: fixed,
		TileSize:         t.TileSize,
	}
	return settings, settings.Validate()
}

func (t TransportConfig) Balance() decimal.Decimal {
	balance, err := decimal.NewFromString(t.OpeningBalance)
	if err != nil {
		return decimal.Zero
	}
	return balance
}

func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) Seeds() []memworld.Seed {
	seeds := make([]memworld.Seed, 0, len(c.World))
	for _, s := range c.World {
		seeds = append(seeds, memworld.Seed{
			Name:            s.Name,
			Kind:            s.Kind,
			X:               s.X,
			Y:               s.Y,
			CarrierCapacity: s.CarrierCapacity,
			Stock:           s.Stock,
		})
	}
	return seeds
}
