// Package config loads server settings from an optional HCL file and
// applies environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

const (
	DefaultModel      = "deepseek-chat"
	DefaultURL        = "https://api.deepseek.com/v1/chat/completions"
	DefaultStack      = 2000
	DefaultSmallBlind = 10
	DefaultBigBlind   = 20
	DefaultMaxRooms   = 128
	DefaultAddress    = ":8080"
)

// APIKeyFile is checked next to the working directory when the
// environment carries no key.
const APIKeyFile = "APIKEY"

// Config is the complete server configuration
type Config struct {
	Server   *ServerSettings `hcl:"server,block"`
	Defaults *TableDefaults  `hcl:"defaults,block"`
	AI       *AISettings     `hcl:"ai,block"`
}

// ServerSettings contains listener-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableDefaults are applied to rooms created without explicit values
type TableDefaults struct {
	StartingStack int `hcl:"starting_stack,optional"`
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
	MaxRooms      int `hcl:"max_rooms,optional"`
}

// AISettings configure the DeepSeek adapter
type AISettings struct {
	APIKey string `hcl:"api_key,optional"`
	Model  string `hcl:"model,optional"`
	URL    string `hcl:"url,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  DefaultAddress,
			LogLevel: "info",
		},
		Defaults: &TableDefaults{
			StartingStack: DefaultStack,
			SmallBlind:    DefaultSmallBlind,
			BigBlind:      DefaultBigBlind,
			MaxRooms:      DefaultMaxRooms,
		},
		AI: &AISettings{
			Model: DefaultModel,
			URL:   DefaultURL,
		},
	}
}

// Load reads an HCL file, falling back to defaults when the file does
// not exist, then applies environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
		}
		var loaded Config
		if diags := gohcl.DecodeBody(file.Body, nil, &loaded); diags.HasErrors() {
			return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
		}
		cfg.merge(&loaded)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) merge(o *Config) {
	if o.Server != nil {
		if o.Server.Address != "" {
			c.Server.Address = o.Server.Address
		}
		if o.Server.LogLevel != "" {
			c.Server.LogLevel = o.Server.LogLevel
		}
	}
	if o.Defaults != nil {
		if o.Defaults.StartingStack > 0 {
			c.Defaults.StartingStack = o.Defaults.StartingStack
		}
		if o.Defaults.SmallBlind > 0 {
			c.Defaults.SmallBlind = o.Defaults.SmallBlind
		}
		if o.Defaults.BigBlind > 0 {
			c.Defaults.BigBlind = o.Defaults.BigBlind
		}
		if o.Defaults.MaxRooms > 0 {
			c.Defaults.MaxRooms = o.Defaults.MaxRooms
		}
	}
	if o.AI != nil {
		if o.AI.APIKey != "" {
			c.AI.APIKey = o.AI.APIKey
		}
		if o.AI.Model != "" {
			c.AI.Model = o.AI.Model
		}
		if o.AI.URL != "" {
			c.AI.URL = o.AI.URL
		}
	}
}

// applyEnv layers environment variables over the file values. The API
// key additionally falls back to an APIKEY file in the working
// directory, matching the deployment layout.
func (c *Config) applyEnv() {
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		c.AI.APIKey = v
	} else if c.AI.APIKey == "" {
		if text, err := os.ReadFile(APIKeyFile); err == nil {
			c.AI.APIKey = strings.TrimSpace(string(text))
		}
	}
	if v := os.Getenv("DEEPSEEK_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("DEEPSEEK_API_URL"); v != "" {
		c.AI.URL = v
	}
	envInt("DEFAULT_STACK", &c.Defaults.StartingStack)
	envInt("DEFAULT_SMALL_BLIND", &c.Defaults.SmallBlind)
	envInt("DEFAULT_BIG_BLIND", &c.Defaults.BigBlind)
	envInt("MAX_ROOMS", &c.Defaults.MaxRooms)
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Defaults.SmallBlind < 1 {
		return fmt.Errorf("small blind must be at least 1, got %d", c.Defaults.SmallBlind)
	}
	if c.Defaults.BigBlind <= c.Defaults.SmallBlind {
		return fmt.Errorf("big blind must exceed the small blind, got %d", c.Defaults.BigBlind)
	}
	if c.Defaults.StartingStack < 100 {
		return fmt.Errorf("starting stack must be at least 100, got %d", c.Defaults.StartingStack)
	}
	if c.Defaults.MaxRooms < 1 {
		return fmt.Errorf("max rooms must be positive, got %d", c.Defaults.MaxRooms)
	}
	return nil
}
