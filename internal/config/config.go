package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr  string
	OxiDBHost string
	OxiDBPort int
	PoolSize  int
	GelfAddr  string
	Debug     bool

	// ServerURL is the API base used by the authoring wizard.
	ServerURL string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Variables use the CB_ prefix (CB_HTTP_ADDR,
// CB_OXIDB_HOST, ...).
func Load() *Config {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("oxidb_host", "127.0.0.1")
	v.SetDefault("oxidb_port", 4444)
	v.SetDefault("pool_size", 3)
	v.SetDefault("gelf_addr", "")
	v.SetDefault("debug", false)
	v.SetDefault("server_url", "http://127.0.0.1:8080")

	v.SetEnvPrefix("CB")
	v.AutomaticEnv()

	return &Config{
		HTTPAddr:  v.GetString("http_addr"),
		OxiDBHost: v.GetString("oxidb_host"),
		OxiDBPort: v.GetInt("oxidb_port"),
		PoolSize:  v.GetInt("pool_size"),
		GelfAddr:  v.GetString("gelf_addr"),
		Debug:     v.GetBool("debug"),
		ServerURL: v.GetString("server_url"),
	}
}
