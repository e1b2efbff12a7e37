package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config — настройки dirsize.
type Config struct {
	// Порог для суммы маленьких каталогов.
	Limit uint64 `yaml:"limit"`

	Disk    DiskConfig    `yaml:"disk"`
	Logging LoggingConfig `yaml:"logging"`
}

// DiskConfig — параметры диска для поиска каталога на удаление.
type DiskConfig struct {
	Capacity uint64 `yaml:"capacity"` // полный объём
	Required uint64 `yaml:"required"` // сколько должно быть свободно
}

// LoggingConfig — настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Limit: 100_000,
		Disk: DiskConfig{
			Capacity: 70_000_000,
			Required: 30_000_000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load читает YAML-файл поверх значений по умолчанию.
// Отсутствующий файл — не ошибка. Переменные окружения DIRSIZE_* имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save пишет настройки в YAML-файл, создавая каталог при необходимости.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if c.Disk.Capacity == 0 {
		return fmt.Errorf("disk.capacity должен быть больше нуля")
	}
	if c.Disk.Required > c.Disk.Capacity {
		return fmt.Errorf("disk.required (%d) больше disk.capacity (%d)", c.Disk.Required, c.Disk.Capacity)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("неизвестный уровень логирования: %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	uints := []struct {
		env string
		dst *uint64
	}{
		{"DIRSIZE_LIMIT", &c.Limit},
		{"DIRSIZE_CAPACITY", &c.Disk.Capacity},
		{"DIRSIZE_REQUIRED", &c.Disk.Required},
	}
	for _, u := range uints {
		v := strings.TrimSpace(os.Getenv(u.env))
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", u.env, err)
		}
		*u.dst = n
	}
	if v := strings.TrimSpace(os.Getenv("DIRSIZE_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	return nil
}
