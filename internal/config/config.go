// Package config provides Viper-based configuration loading for the simulation core.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds frame-loop and world-bounds settings.
type SimulationConfig struct {
	// TickRate is the number of simulation frames per second.
	TickRate int `mapstructure:"tick_rate"`
	// MapWidth and MapHeight bound the playfield in world units.
	MapWidth  float64 `mapstructure:"map_width"`
	MapHeight float64 `mapstructure:"map_height"`
	// ContentDir is a directory of YAML content overrides; empty uses the embedded catalogue.
	ContentDir string `mapstructure:"content_dir"`
}

// TickInterval returns the wall-clock duration of one frame.
//
// Precondition: TickRate > 0.
func (s SimulationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// PlayerConfig holds the player's base stats and the experience curve.
type PlayerConfig struct {
	Speed           float64 `mapstructure:"speed"`
	MaxHealth       float64 `mapstructure:"max_health"`
	BaseDamage      float64 `mapstructure:"base_damage"`
	ExpBase         float64 `mapstructure:"exp_base"`
	ExpMultiplier   float64 `mapstructure:"exp_multiplier"`
	LevelUpHP       float64 `mapstructure:"level_up_hp"`
	LevelUpDamage   float64 `mapstructure:"level_up_damage"`
	LevelUpSpeed    float64 `mapstructure:"level_up_speed"`
	SPPerLevel      int     `mapstructure:"sp_per_level"`
	BonusSPInterval int     `mapstructure:"bonus_sp_interval"`
	BaseMagnetRange float64 `mapstructure:"base_magnet_range"`
	StartingWeapon  string  `mapstructure:"starting_weapon"`
}

// DirectorConfig holds encounter pacing settings.
type DirectorConfig struct {
	PopulationFloor    int     `mapstructure:"population_floor"`
	MaxEnemies         int     `mapstructure:"max_enemies"`
	SpawnDistance      float64 `mapstructure:"spawn_distance"`
	SpawnMargin        float64 `mapstructure:"spawn_margin"`
	BossSpawnMargin    float64 `mapstructure:"boss_spawn_margin"`
	DifficultyInterval int     `mapstructure:"difficulty_interval"`
	BossInterval       int     `mapstructure:"boss_interval"`
	CreditDropChance   float64 `mapstructure:"credit_drop_chance"`
	CreditValue        int     `mapstructure:"credit_value"`
	BossDropRolls      int     `mapstructure:"boss_drop_rolls"`
}

// PersistenceConfig selects the backend for cross-run scalar persistence.
type PersistenceConfig struct {
	// Backend is one of "memory", "redis", "postgres".
	Backend string `mapstructure:"backend"`
	// Secret keys the integrity checksum.
	Secret string `mapstructure:"secret"`
	// Retention is the maximum age of a persisted value before it is discarded.
	Retention time.Duration `mapstructure:"retention"`
	// CreditsKey is the key under which lifetime credits are stored.
	CreditsKey string `mapstructure:"credits_key"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Player      PlayerConfig      `mapstructure:"player"`
	Director    DirectorConfig    `mapstructure:"director"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, check := range []func() error{
		func() error { return validateLogging(c.Logging) },
		func() error { return validateSimulation(c.Simulation) },
		func() error { return validatePlayer(c.Player) },
		func() error { return validateDirector(c.Director) },
		func() error { return validatePersistence(c.Persistence) },
	} {
		if err := check(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	switch c.Persistence.Backend {
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr must not be empty when persistence.backend is redis")
		}
	case "postgres":
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickRate < 1 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be >= 1, got %d", s.TickRate))
	}
	if s.MapWidth <= 0 || s.MapHeight <= 0 {
		errs = append(errs, "simulation.map_width and simulation.map_height must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.Speed <= 0 {
		errs = append(errs, "player.speed must be > 0")
	}
	if p.MaxHealth <= 0 {
		errs = append(errs, "player.max_health must be > 0")
	}
	if p.ExpBase < 1 {
		errs = append(errs, fmt.Sprintf("player.exp_base must be >= 1, got %v", p.ExpBase))
	}
	if p.ExpMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("player.exp_multiplier must be >= 1, got %v", p.ExpMultiplier))
	}
	if p.SPPerLevel < 0 {
		errs = append(errs, "player.sp_per_level must be >= 0")
	}
	if p.BonusSPInterval < 1 {
		errs = append(errs, fmt.Sprintf("player.bonus_sp_interval must be >= 1, got %d", p.BonusSPInterval))
	}
	if p.StartingWeapon == "" {
		errs = append(errs, "player.starting_weapon must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDirector(d DirectorConfig) error {
	var errs []string
	if d.PopulationFloor < 0 {
		errs = append(errs, "director.population_floor must be >= 0")
	}
	if d.MaxEnemies < d.PopulationFloor {
		errs = append(errs, "director.max_enemies must be >= director.population_floor")
	}
	if d.DifficultyInterval < 1 {
		errs = append(errs, fmt.Sprintf("director.difficulty_interval must be >= 1, got %d", d.DifficultyInterval))
	}
	if d.BossInterval < 1 {
		errs = append(errs, fmt.Sprintf("director.boss_interval must be >= 1, got %d", d.BossInterval))
	}
	if d.CreditDropChance < 0 || d.CreditDropChance > 1 {
		errs = append(errs, fmt.Sprintf("director.credit_drop_chance must be in [0, 1], got %v", d.CreditDropChance))
	}
	if d.CreditValue < 0 {
		errs = append(errs, "director.credit_value must be >= 0")
	}
	if d.BossDropRolls < 0 {
		errs = append(errs, "director.boss_drop_rolls must be >= 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePersistence(p PersistenceConfig) error {
	var errs []string
	validBackends := map[string]bool{"memory": true, "redis": true, "postgres": true}
	if !validBackends[p.Backend] {
		errs = append(errs, fmt.Sprintf("persistence.backend must be one of [memory, redis, postgres], got %q", p.Backend))
	}
	if p.Secret == "" {
		errs = append(errs, "persistence.secret must not be empty")
	}
	if p.Retention <= 0 {
		errs = append(errs, "persistence.retention must be > 0")
	}
	if p.CreditsKey == "" {
		errs = append(errs, "persistence.credits_key must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with NEON_ prefix
	v.SetEnvPrefix("NEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by the built-in defaults alone.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: built-in defaults are invalid: " + err.Error())
	}
	return cfg
}

// SetDefaults registers the built-in default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.map_width", 2400)
	v.SetDefault("simulation.map_height", 1600)
	v.SetDefault("simulation.content_dir", "")

	v.SetDefault("player.speed", 250)
	v.SetDefault("player.max_health", 100)
	v.SetDefault("player.base_damage", 15)
	v.SetDefault("player.exp_base", 100)
	v.SetDefault("player.exp_multiplier", 1.5)
	v.SetDefault("player.level_up_hp", 20)
	v.SetDefault("player.level_up_damage", 0.1)
	v.SetDefault("player.level_up_speed", 10)
	v.SetDefault("player.sp_per_level", 1)
	v.SetDefault("player.bonus_sp_interval", 500)
	v.SetDefault("player.base_magnet_range", 50)
	v.SetDefault("player.starting_weapon", "pistol")

	v.SetDefault("director.population_floor", 8)
	v.SetDefault("director.max_enemies", 25)
	v.SetDefault("director.spawn_distance", 400)
	v.SetDefault("director.spawn_margin", 50)
	v.SetDefault("director.boss_spawn_margin", 100)
	v.SetDefault("director.difficulty_interval", 200)
	v.SetDefault("director.boss_interval", 500)
	v.SetDefault("director.credit_drop_chance", 0.3)
	v.SetDefault("director.credit_value", 5)
	v.SetDefault("director.boss_drop_rolls", 5)

	v.SetDefault("persistence.backend", "memory")
	v.SetDefault("persistence.secret", "neonsurge-dev-secret")
	v.SetDefault("persistence.retention", "8760h")
	v.SetDefault("persistence.credits_key", "totalCredits")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "neonsurge:")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "neonsurge")
	v.SetDefault("database.password", "neonsurge")
	v.SetDefault("database.name", "neonsurge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
