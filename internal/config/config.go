package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the alarm clock daemon and its CLI.
type Config struct {
	// GRPCAddress is the listen (daemon) or dial (CLI) address of the gRPC API.
	GRPCAddress string `yaml:"grpc_addr" env:"ALARM_CLOCK_GRPC_ADDR"`
	// HTTPAddress is the listen address of the HTTP API. Empty disables it.
	HTTPAddress string `yaml:"http_addr" env:"ALARM_CLOCK_HTTP_ADDR"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout" env:"ALARM_CLOCK_TIMEOUT"`
	// LogLevel is the minimum zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"ALARM_CLOCK_LOG_LEVEL"`
	// Storage selects the persistence backend.
	Storage Storage `yaml:"storage"`
	// Notifications configures the local trigger service.
	Notifications Notifications `yaml:"notifications"`
	// CORS configures cross-origin access to the HTTP API.
	CORS CORS `yaml:"cors"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	// Driver is one of file, sqlite, postgres or memory.
	Driver string `yaml:"driver" env:"ALARM_CLOCK_STORAGE_DRIVER"`
	// Path is the file location for the file and sqlite drivers.
	Path string `yaml:"path" env:"ALARM_CLOCK_STORAGE_PATH"`
	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn" env:"ALARM_CLOCK_STORAGE_DSN"`
}

// Notifications configures how fired alarms reach the user.
type Notifications struct {
	// Permission is the answer given to permission requests: granted or denied.
	Permission string `yaml:"permission" env:"ALARM_CLOCK_NOTIFICATIONS_PERMISSION"`
	// Command is an optional program run when an alarm fires.
	// The title and body are passed as the last two arguments.
	Command []string `yaml:"command" env:"ALARM_CLOCK_NOTIFICATIONS_COMMAND" env-separator:" "`
}

// CORS lists origins allowed to call the HTTP API from a browser.
type CORS struct {
	// AllowedOrigins is passed to the CORS middleware. Empty means any origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALARM_CLOCK_CORS_ALLOWED_ORIGINS"`
}

// Storage drivers.
const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Notification permission answers.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultStorageFilename is the default filename of the file storage driver.
	DefaultStorageFilename = "alarm-clock-storage.json"

	// DefaultSQLiteFilename is the default database file of the sqlite driver.
	DefaultSQLiteFilename = "alarm-clock.db"

	// DefaultGRPCAddress is the default gRPC address.
	DefaultGRPCAddress = "127.0.0.1:50051"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownStorageDriver is returned for unsupported storage drivers.
	errUnknownStorageDriver = errors.New("unknown storage driver")
	// errDSNRequired is returned when postgres storage has no DSN.
	errDSNRequired = errors.New("postgres storage requires a DSN")
	// errUnknownPermission is returned for unsupported permission answers.
	errUnknownPermission = errors.New("notification permission must be granted or denied")
)

// Load reads configuration from the provided path, applies ALARM_CLOCK_*
// environment overrides and validates the result. A missing file yields
// the defaults plus overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment overrides: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.GRPCAddress == "" {
		settings.GRPCAddress = DefaultGRPCAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.GRPCAddress); err != nil {
		return fmt.Errorf("invalid gRPC address: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid HTTP address: %w", err)
		}
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if err := settings.Storage.validate(); err != nil {
		return err
	}

	return settings.Notifications.validate()
}

func (s *Storage) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = StorageDriverFile
	}

	drivers := []string{StorageDriverFile, StorageDriverSQLite, StorageDriverPostgres, StorageDriverMemory}
	if !slices.Contains(drivers, s.Driver) {
		return fmt.Errorf("%w: %q", errUnknownStorageDriver, s.Driver)
	}

	switch s.Driver {
	case StorageDriverFile:
		if s.Path == "" {
			s.Path = DefaultStorageFilename
		}
	case StorageDriverSQLite:
		if s.Path == "" {
			s.Path = DefaultSQLiteFilename
		}
	case StorageDriverPostgres:
		if s.DSN == "" {
			return errDSNRequired
		}
	}

	return nil
}

func (n *Notifications) validate() error {
	n.Permission = strings.ToLower(strings.TrimSpace(n.Permission))

	switch n.Permission {
	case "":
		n.Permission = PermissionGranted
	case PermissionGranted, PermissionDenied:
	default:
		return fmt.Errorf("%w: %q", errUnknownPermission, n.Permission)
	}

	return nil
}
