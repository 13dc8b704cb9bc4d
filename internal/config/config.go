// Package config loads server settings from an optional JSON file with
// environment overrides. Missing file means defaults; invalid overrides are
// ignored rather than fatal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	envAddr      = "GLADE_ADDR"
	envStaticDir = "GLADE_STATIC_DIR"
	envLogFile   = "GLADE_LOG_FILE"
	envTickRate  = "GLADE_TICK_RATE"
)

// Spawn is the world position new players appear at.
type Spawn struct {
	X int64 `json:"x" jsonschema:"description=Spawn X coordinate in world units"`
	Y int64 `json:"y" jsonschema:"description=Spawn Y coordinate in world units"`
}

// Config holds every tunable the server reads at startup.
type Config struct {
	Addr         string   `json:"addr" jsonschema:"title=Listen address,description=host:port the HTTP server binds to"`
	StaticDir    string   `json:"staticDir" jsonschema:"title=Static directory,description=Directory served at the web root. Empty disables static serving"`
	LogFile      string   `json:"logFile" jsonschema:"title=Log file,description=Rolling log file path. Empty logs to stderr"`
	TickRate     int      `json:"tickRate" jsonschema:"title=Tick rate,description=Simulation steps per second,minimum=1,maximum=240"`
	NameLimit    int      `json:"nameLimit" jsonschema:"description=Maximum player name length in runes"`
	ChatLimit    int      `json:"chatLimit" jsonschema:"description=Maximum chat message length in runes"`
	SendQueue    int      `json:"sendQueue" jsonschema:"description=Per-client outbound message buffer. Slow clients overflowing it lose messages"`
	Spawn        Spawn    `json:"spawn" jsonschema:"description=Where new players enter the world"`
	BlockedWords []string `json:"blockedWords,omitempty" jsonschema:"description=Case-insensitive words replaced with asterisks in chat"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:      ":8080",
		StaticDir: "",
		LogFile:   "",
		TickRate:  60,
		NameLimit: 16,
		ChatLimit: 256,
		SendQueue: 64,
	}
}

// Load reads the file at path when it exists, applies environment
// overrides, and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if raw := os.Getenv(envAddr); raw != "" {
		c.Addr = raw
	}
	if raw := os.Getenv(envStaticDir); raw != "" {
		c.StaticDir = raw
	}
	if raw := os.Getenv(envLogFile); raw != "" {
		c.LogFile = raw
	}
	if raw := os.Getenv(envTickRate); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			c.TickRate = parsed
		}
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("config: tickRate %d outside [1, 240]", c.TickRate)
	}
	if c.NameLimit < 1 {
		return fmt.Errorf("config: nameLimit must be positive")
	}
	if c.ChatLimit < 1 {
		return fmt.Errorf("config: chatLimit must be positive")
	}
	if c.SendQueue < 1 {
		return fmt.Errorf("config: sendQueue must be positive")
	}
	return nil
}
