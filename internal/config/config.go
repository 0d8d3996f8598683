package config

import "fmt"

// Config holds all retention configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Sim    SimConfig    `toml:"sim"`
	Source SourceConfig `toml:"source"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type SimConfig struct {
	DecayRate float64 `toml:"decay_rate"` // lambda, shared by all concepts
}

type SourceConfig struct {
	Provider string `toml:"provider"` // "builtin", "exec"
	Command  string `toml:"command"`  // legacy backend binary for "exec"
	Timeout  int    `toml:"timeout"`  // seconds
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37878,
		},
		Sim: SimConfig{
			DecayRate: 0.15,
		},
		Source: SourceConfig{
			Provider: "builtin",
			Timeout:  5,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
