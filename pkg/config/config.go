package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/toggler/config"
	ConfigFileName    = "toggler.yml"
)

// ValidLogLevels and ValidLogFormats list the accepted logging settings
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

// TogglerConfig holds all toggler configuration settings
type TogglerConfig struct {
	// BindAddress is the interface the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server listen port
	Port int `yaml:"port" json:"port"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is text (tint console output) or json
	LogFormat string `yaml:"log_format" json:"log_format"`

	// APIURL is the base URL used by the UI and CLI clients
	APIURL string `yaml:"api_url" json:"api_url"`

	// UIEnabled mounts the HTML pages under /ui
	UIEnabled *bool `yaml:"ui_enabled" json:"ui_enabled"`

	// ReadTimeout and WriteTimeout are HTTP server timeouts in seconds
	ReadTimeout  int `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout int `yaml:"write_timeout" json:"write_timeout"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *TogglerConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *TogglerConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *TogglerConfig {
	enabled := true
	return &TogglerConfig{
		BindAddress:  "0.0.0.0",
		Port:         3000,
		LogLevel:     "info",
		LogFormat:    "text",
		APIURL:       "http://localhost:3000",
		UIEnabled:    &enabled,
		ReadTimeout:  15,
		WriteTimeout: 15,
		sources:      make(map[string]string),
	}
}

// Default returns the built-in configuration without consulting the file
// or the environment.
func Default() *TogglerConfig {
	config := newDefault()
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}
	return config
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*TogglerConfig, error) {
	configPath := os.Getenv("TOGGLER_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return LoadFile(filepath.Join(configPath, ConfigFileName))
}

// LoadFile is Load with an explicit config file; a missing file is not an
// error.
func LoadFile(path string) (*TogglerConfig, error) {
	config := Default()
	config.configFilePath = path

	if data, err := os.ReadFile(path); err == nil {
		var fileConfig TogglerConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "log_level", "log_format", "api_url",
		"ui_enabled", "read_timeout", "write_timeout",
	}
}

func (c *TogglerConfig) applyFileConfig(file *TogglerConfig) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = strings.ToLower(file.LogLevel)
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != "" {
		c.LogFormat = strings.ToLower(file.LogFormat)
		c.sources["log_format"] = "file"
	}
	if file.APIURL != "" {
		c.APIURL = file.APIURL
		c.sources["api_url"] = "file"
	}
	if file.UIEnabled != nil {
		v := *file.UIEnabled
		c.UIEnabled = &v
		c.sources["ui_enabled"] = "file"
	}
	if file.ReadTimeout != 0 {
		c.ReadTimeout = file.ReadTimeout
		c.sources["read_timeout"] = "file"
	}
	if file.WriteTimeout != 0 {
		c.WriteTimeout = file.WriteTimeout
		c.sources["write_timeout"] = "file"
	}
}

func (c *TogglerConfig) applyEnvConfig() error {
	if val := os.Getenv("TOGGLER_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	// PORT is honoured for platforms that inject it.
	for _, name := range []string{"PORT", "TOGGLER_PORT"} {
		if val := os.Getenv(name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s value %q: %w", name, val, err)
			}
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("TOGGLER_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("TOGGLER_LOG_FORMAT"); val != "" {
		c.LogFormat = strings.ToLower(val)
		c.sources["log_format"] = "environment"
	}
	if val := os.Getenv("TOGGLER_API_URL"); val != "" {
		c.APIURL = val
		c.sources["api_url"] = "environment"
	}
	if val := os.Getenv("TOGGLER_UI_ENABLED"); val != "" {
		enabled := val == "true" || val == "1"
		c.UIEnabled = &enabled
		c.sources["ui_enabled"] = "environment"
	}
	if val := os.Getenv("TOGGLER_READ_TIMEOUT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid TOGGLER_READ_TIMEOUT value %q: %w", val, err)
		}
		c.ReadTimeout = i
		c.sources["read_timeout"] = "environment"
	}
	if val := os.Getenv("TOGGLER_WRITE_TIMEOUT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid TOGGLER_WRITE_TIMEOUT value %q: %w", val, err)
		}
		c.WriteTimeout = i
		c.sources["write_timeout"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *TogglerConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *TogglerConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Addr returns the host:port the server listens on
func (c *TogglerConfig) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// UI reports whether the HTML pages are mounted
func (c *TogglerConfig) UI() bool {
	return c.UIEnabled == nil || *c.UIEnabled
}

func (c *TogglerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *TogglerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// Validate validates the configuration
func (c *TogglerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url: %s", c.APIURL)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *TogglerConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "api_url", Value: c.APIURL, Source: c.Source("api_url")},
		{Name: "ui_enabled", Value: strconv.FormatBool(c.UI()), Source: c.Source("ui_enabled")},
		{Name: "read_timeout", Value: strconv.Itoa(c.ReadTimeout), Source: c.Source("read_timeout")},
		{Name: "write_timeout", Value: strconv.Itoa(c.WriteTimeout), Source: c.Source("write_timeout")},
	}
}

// FormatText returns a text representation of the configuration
func (c *TogglerConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *TogglerConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
