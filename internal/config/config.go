// Package config loads and normalises folio server configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAddr      = "127.0.0.1"
	defaultPort      = ":4173"
	defaultTemplates = "ui/templates"
	defaultAssets    = "ui"
	defaultContent   = "ui/content.yaml"
	defaultData      = "data"
	defaultLogs      = "data/logs"
	defaultName      = "Folio"
	defaultDriver    = "json"
	defaultLogLevel  = "info"
	defaultSMTPPort  = "587"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	Port string `json:"port"`
}

// ListenAddr joins Addr and Port into a listen address.
func (s ServerConfig) ListenAddr() string {
	port := strings.TrimPrefix(s.Port, ":")
	return s.Addr + ":" + port
}

// AppConfig locates templates, assets, content and data on disk.
type AppConfig struct {
	Name      string `json:"name"`
	Templates string `json:"templates"`
	Assets    string `json:"assets"`
	Content   string `json:"content"`
	Data      string `json:"data"`
	Logs      string `json:"logs"`
	LogLevel  string `json:"log_level"`
}

// ContactConfig configures message storage and the admin listing.
type ContactConfig struct {
	Driver     string `json:"driver"`
	Path       string `json:"path"`
	AdminToken string `json:"admin_token"`
	Salt       string `json:"salt"`
	// Mode "simulated" makes the browser fake submissions.
	Mode string `json:"mode"`
}

// SMTPConfig configures owner notification emails.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Config is the combined runtime configuration.
type Config struct {
	Server  ServerConfig  `json:"server"`
	App     AppConfig     `json:"app"`
	Contact ContactConfig `json:"contact"`
	SMTP    SMTPConfig    `json:"smtp"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.normalise()
	return cfg
}

// LoadEnv loads .env style files into the process environment. Missing files
// are skipped and variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the JSON config at path, applies environment overrides and
// fills defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		}
	}
	cfg.applyEnv(os.Getenv)
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Contact.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("config: unknown contact driver %q", c.Contact.Driver)
	}
	switch c.Contact.Mode {
	case "", "http", "simulated":
	default:
		return fmt.Errorf("config: unknown contact mode %q", c.Contact.Mode)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, "FOLIO_ADDR")
	set(&c.Server.Port, "FOLIO_PORT")
	set(&c.App.LogLevel, "FOLIO_LOG_LEVEL")
	set(&c.Contact.Driver, "FOLIO_CONTACT_DRIVER")
	set(&c.Contact.AdminToken, "FOLIO_ADMIN_TOKEN")
	set(&c.Contact.Mode, "FOLIO_CONTACT_MODE")
	set(&c.SMTP.Host, "SMTP_HOST")
	set(&c.SMTP.Port, "SMTP_PORT")
	set(&c.SMTP.Username, "SMTP_USER")
	set(&c.SMTP.Password, "SMTP_PASS")
	set(&c.SMTP.To, "TO_EMAIL")
}

func (c *Config) normalise() {
	def := func(dst *string, value string) {
		*dst = strings.TrimSpace(*dst)
		if *dst == "" {
			*dst = value
		}
	}
	def(&c.Server.Addr, defaultAddr)
	def(&c.Server.Port, defaultPort)
	def(&c.App.Name, defaultName)
	def(&c.App.Templates, defaultTemplates)
	def(&c.App.Assets, defaultAssets)
	def(&c.App.Content, defaultContent)
	def(&c.App.Data, defaultData)
	def(&c.App.Logs, defaultLogs)
	def(&c.App.LogLevel, defaultLogLevel)

	c.Contact.Driver = strings.ToLower(strings.TrimSpace(c.Contact.Driver))
	if c.Contact.Driver == "sqlite3" {
		c.Contact.Driver = "sqlite"
	}
	def(&c.Contact.Driver, defaultDriver)
	c.Contact.Mode = strings.ToLower(strings.TrimSpace(c.Contact.Mode))
	if c.Contact.Path == "" {
		name := "messages.json"
		if c.Contact.Driver == "sqlite" {
			name = "messages.db"
		}
		c.Contact.Path = filepath.Join(c.App.Data, name)
	}
	def(&c.SMTP.Port, defaultSMTPPort)
}
