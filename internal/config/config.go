package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string // memory|sqlite|postgres
	DBDSN    string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// AuthHMACSecret enables bearer-token checks on /api when set.
	AuthHMACSecret string

	LogLevel string // debug|info|warn|error
	LogFile  string // optional JSON log file, rotated
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// Defaults installs the default for every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("cors_origins_online", "https://lms.mindengage.ai")
	v.SetDefault("cors_origins_offline", "http://localhost:3000,http://localhost:3010,http://localhost:3020")
	v.SetDefault("auth_hmac_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// New returns a viper instance reading the environment (HTTP_ADDR, DB_DRIVER, ...)
// after loading .env and .env.local when present.
func New() *viper.Viper {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	Defaults(v)
	return v
}

// Load builds a Config from v.
func Load(v *viper.Viper) Config {
	mode := Mode(strings.ToLower(v.GetString("mode")))
	if mode != ModeOnline {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           v.GetString("http_addr"),
		DBDriver:           strings.ToLower(v.GetString("db_driver")),
		DBDSN:              v.GetString("db_dsn"),
		CORSOriginsOnline:  csv(v.GetString("cors_origins_online")),
		CORSOriginsOffline: csv(v.GetString("cors_origins_offline")),
		AuthHMACSecret:     v.GetString("auth_hmac_secret"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFile:            v.GetString("log_file"),
	}
}

// FromEnv is Load(New()).
func FromEnv() Config { return Load(New()) }

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
