package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/daniacca/metabocell/internal/cellular"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr            string
	DefaultTissueID string
	ConfigFile      string
	MaxStepsPerCall int
	LogLevel        string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

var resolvers = []configResolver{
	{
		flagName:    "addr",
		envVarName:  "CELLSIM_ADDR",
		defaultVal:  ":8080",
		description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
		setter:      func(c *ServerConfig, v string) { c.Addr = v },
	},
	{
		flagName:    "tissue-id",
		envVarName:  "CELLSIM_TISSUE_ID",
		defaultVal:  "default",
		description: "tissue ID for the config file loaded at startup",
		setter:      func(c *ServerConfig, v string) { c.DefaultTissueID = v },
	},
	{
		flagName:    "config-file",
		envVarName:  "CELLSIM_CONFIG_FILE",
		defaultVal:  "",
		description: "optional path to a JSON tissue config file to load at startup",
		setter:      func(c *ServerConfig, v string) { c.ConfigFile = v },
	},
	{
		flagName:    "max-steps",
		envVarName:  "CELLSIM_MAX_STEPS",
		defaultVal:  "1000",
		description: "maximum number of steps a single /step call may run",
		setter: func(c *ServerConfig, v string) {
			if val, err := strconv.Atoi(v); err == nil && val > 0 {
				c.MaxStepsPerCall = val
			} else {
				log.Printf("Invalid value for max-steps: %s, using default 1000", v)
				c.MaxStepsPerCall = 1000
			}
		},
	},
	{
		flagName:    "log-level",
		envVarName:  "CELLSIM_LOG_LEVEL",
		defaultVal:  "info",
		description: "Log level: debug, info, warn, error",
		setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
	},
}

// loadServerConfig resolves every option from, in order, its CLI flag, its
// environment variable and its default.
func loadServerConfig(fs *flag.FlagSet, args []string) (ServerConfig, error) {
	cfg := ServerConfig{}

	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = fs.String(resolver.flagName, "", resolver.description)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg, nil
}

// loadTissueConfigFromFile reads and validates a tissue config file.
func loadTissueConfigFromFile(path string) (cellular.TissueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cellular.TissueConfig{}, err
	}

	var cfg cellular.TissueConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cellular.TissueConfig{}, err
	}

	if err := cellular.ValidateTissueConfig(cfg); err != nil {
		return cellular.TissueConfig{}, err
	}
	return cfg, nil
}
