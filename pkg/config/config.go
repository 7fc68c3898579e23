package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration file cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Controller backends
const (
	ControllerBluetoothctl = "bluetoothctl"
	ControllerDBus         = "dbus"
)

// Output relay modes for the bluetoothctl backend
const (
	RelayAuto = "auto"
	RelayPipe = "pipe"
	RelayPTY  = "pty"
)

// EnvController overrides Config.Controller when set.
const EnvController = "BCONNECT_CONTROLLER"

var addressPattern = regexp.MustCompile(`^[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}$`)

// Device is a single alias table entry
type Device struct {
	Alias   string `yaml:"alias"`
	Address string `yaml:"address"`
}

// Config holds application configuration
type Config struct {
	LogLevel       logrus.Level `yaml:"-"`
	Controller     string       `yaml:"controller" default:"bluetoothctl"`
	ControllerPath string       `yaml:"controller_path" default:"bluetoothctl"`
	Relay          string       `yaml:"relay" default:"auto"`
	KeepGoing      bool         `yaml:"keep_going" default:"false"`
	Devices        []Device     `yaml:"devices"`
}

// DefaultDevices returns the built-in alias table.
func DefaultDevices() []Device {
	return []Device{
		{Alias: "buds", Address: "B0:4A:6A:C9:DF:0C"},
		{Alias: "jabra", Address: "30:50:75:C7:3D:B7"},
		{Alias: "link", Address: "F8:4E:17:75:18:A2"},
		{Alias: "pbuds", Address: "FC:91:5D:70:51:41"},
		{Alias: "tw4", Address: "80:C3:BA:55:83:B1"},
		{Alias: "xm4", Address: "14:3F:A6:E7:9B:4F"},
		{Alias: "xm5", Address: "AC:80:0A:27:99:3E"},
	}
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	cfg.LogLevel = logrus.PanicLevel
	cfg.Devices = DefaultDevices()
	return cfg
}

// DefaultPath returns $XDG_CONFIG_HOME/bconnect/config.yaml, falling back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "bconnect", "config.yaml")
}

// Load reads the config file at path on top of the defaults.
// A missing file is not an error unless the path was given explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv(EnvController); v != "" {
		cfg.Controller = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into the config. An empty or absent devices list keeps the current table.
func (c *Config) Parse(data []byte) error {
	var file Config
	defaults.SetDefaults(&file)
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c.Controller = file.Controller
	c.ControllerPath = file.ControllerPath
	c.Relay = file.Relay
	c.KeepGoing = file.KeepGoing
	if len(file.Devices) > 0 {
		c.Devices = file.Devices
	}
	return nil
}

// Validate checks the backend selection and normalizes every device address to uppercase.
func (c *Config) Validate() error {
	switch c.Controller {
	case ControllerBluetoothctl, ControllerDBus:
	default:
		return fmt.Errorf("%w: unknown controller %q (must be %s or %s)", ErrInvalidConfig, c.Controller, ControllerBluetoothctl, ControllerDBus)
	}

	switch c.Relay {
	case RelayAuto, RelayPipe, RelayPTY:
	default:
		return fmt.Errorf("%w: unknown relay mode %q (must be auto, pipe, or pty)", ErrInvalidConfig, c.Relay)
	}

	if c.Controller == ControllerBluetoothctl && c.ControllerPath == "" {
		return fmt.Errorf("%w: controller_path is empty", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Devices))
	for i := range c.Devices {
		d := &c.Devices[i]
		if d.Alias == "" {
			return fmt.Errorf("%w: device #%d has no alias", ErrInvalidConfig, i+1)
		}
		if _, dup := seen[d.Alias]; dup {
			return fmt.Errorf("%w: duplicate alias %q", ErrInvalidConfig, d.Alias)
		}
		seen[d.Alias] = struct{}{}

		if !ValidAddress(d.Address) {
			return fmt.Errorf("%w: alias %q has malformed address %q", ErrInvalidConfig, d.Alias, d.Address)
		}
		d.Address = strings.ToUpper(d.Address)
	}
	return nil
}

// ValidAddress reports whether addr is a colon-separated 6-octet hex address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// ParseLogLevel maps a --log-level value to a logrus level.
func ParseLogLevel(s string) (logrus.Level, error) {
	switch s {
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	}
	return logrus.PanicLevel, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
}

// NewLogger creates a configured logger instance writing to stderr
func (c *Config) NewLogger() *logrus.Logger {
	return c.NewLoggerTo(os.Stderr)
}

// NewLoggerTo is NewLogger with an explicit output.
func (c *Config) NewLoggerTo(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(c.LogLevel)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
