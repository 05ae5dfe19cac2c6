// Package config handles the parsing and validation of application
// configuration from command-line arguments and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/verran/presenz/internal/logger"
	"github.com/verran/presenz/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	Server Server        `group:"Server Options" env-namespace:"PRESENZ"`
	Limits Limits        `group:"Limit Options" namespace:"limit" env-namespace:"PRESENZ_LIMIT"`
	GeoIP  GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"PRESENZ_GEOIP"`
	Logger logger.Config `group:"Logger Options" namespace:"log" env-namespace:"PRESENZ_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	Address      string   `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken    string   `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin authentication token"`
	AllowedGames []string `short:"a" long:"allowed-game" env:"ALLOWED_GAMES" description:"Game names accepted for tracking (empty allows any)" env-delim:","`
	ContentType  string   `long:"expect-content-type" env:"EXPECT_CONTENT_TYPE" description:"Expected Content-Type header" default:"application/json"`
	MaxBodySize  int64    `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"4096"`
	TrustProxy   bool     `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Limits holds ingestion rate limiting and eviction configuration.
type Limits struct {
	MaxRequests   int           `long:"max-requests" env:"MAX_REQUESTS" description:"Submissions allowed per origin per window" default:"20"`
	Window        time.Duration `long:"window" env:"WINDOW" description:"Submission rate window duration" default:"10s"`
	RecordTTL     time.Duration `long:"record-ttl" env:"RECORD_TTL" description:"Evict records not refreshed within this duration (0 disables)" default:"1h"`
	SweepInterval time.Duration `long:"sweep-interval" env:"SWEEP_INTERVAL" description:"Background eviction interval" default:"1m"`
	ReadCount     int           `long:"read-count" env:"READ_COUNT" description:"Hard IP limit for read endpoints: requests count" default:"60"`
	ReadWindow    time.Duration `long:"read-window" env:"READ_WINDOW" description:"Hard IP limit for read endpoints: window duration" default:"1m"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	Path string `short:"g" long:"path" env:"PATH" description:"Path to MMDB file (empty disables country resolution)"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the
// help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if cfg.Server.AuthToken == "" {
		fmt.Fprintln(os.Stderr,
			"Required flag `-t, --auth-token' or environment variable `PRESENZ_AUTH_TOKEN` was not specified!")
		os.Exit(1)
	}

	return &cfg
}
