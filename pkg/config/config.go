package config

import (
	"encoding/json"
	"log"
	"os"
)

type Config struct {
	App        AppConfig                 `json:"app"`
	Gateways   map[string]GatewayConfig  `json:"gateways"`
	Providers  map[string]ProviderConfig `json:"providers"`
	BrightData BrightDataConfig          `json:"brightdata"`
	Memory     MemoryConfig              `json:"memory"`
	Watch      WatchConfig               `json:"watch"`
}

type AppConfig struct {
	Name string `json:"name"`
}

type GatewayConfig struct {
	Token   string `json:"token"`
	Enabled bool   `json:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
}

// BrightDataConfig configures the scraping bridge: the Web Unlocker zone
// for generic fetches and one dataset ID per platform for structured
// product lookups.
type BrightDataConfig struct {
	APIToken string            `json:"api_token"`
	Zone     string            `json:"zone"`
	Datasets map[string]string `json:"datasets"`
}

type MemoryConfig struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

type WatchConfig struct {
	Path            string `json:"path"`
	IntervalMinutes int    `json:"interval_minutes"`
}

func LoadConfig(path string) *Config {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	cfg.applyEnv()
	return &cfg
}

// applyEnv lets secrets come from the environment instead of the config
// file.
func (c *Config) applyEnv() {
	if token := os.Getenv("BRIGHTDATA_API_TOKEN"); token != "" {
		c.BrightData.APIToken = token
	}
	if zone := os.Getenv("BRIGHTDATA_ZONE"); zone != "" {
		c.BrightData.Zone = zone
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for name, p := range c.Providers {
			if p.APIKey == "" {
				p.APIKey = key
				c.Providers[name] = p
			}
		}
	}
	if c.BrightData.Zone == "" {
		c.BrightData.Zone = "unblocker"
	}
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetGateway returns a gateway config if enabled
func (c *Config) GetGateway(name string) (GatewayConfig, bool) {
	g, ok := c.Gateways[name]
	if ok && g.Enabled && g.Token != "" {
		return g, true
	}
	return GatewayConfig{}, false
}

// Dataset returns the configured Bright Data dataset ID for a platform.
func (c *Config) Dataset(platform string) string {
	return c.BrightData.Datasets[platform]
}
