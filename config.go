package relay

import "github.com/nyaruka/ezconf"

// Config is our top level configuration object
type Config struct {
	Domain                 string `help:"the domain the relay is exposed on"`
	Address                string `help:"the network interface address the relay will bind to"`
	Port                   int    `help:"the port the relay will listen on"`
	SentryDSN              string `help:"the DSN used for logging errors to Sentry"`
	LogLevel               string `help:"the logging level the relay should use"`
	Version                string `help:"the version that will be used in request and response headers"`
	AuthSecret             string `help:"the secret used to verify client auth tokens, tokens are not checked when empty"`
	DuplicateSessionPolicy string `help:"what to do when a username is claimed twice: last-writer-wins or reject-duplicate"`
	SendBuffer             int    `help:"the number of outbound events buffered per connection before messages are dropped"`
}

// NewConfig returns a new default configuration object
func NewConfig() *Config {
	return &Config{
		Domain:                 "localhost",
		Address:                "",
		Port:                   9090,
		LogLevel:               "debug",
		Version:                "Dev",
		DuplicateSessionPolicy: "last-writer-wins",
		SendBuffer:             32,
	}
}

// LoadConfig loads our configuration from the passed in filename
func LoadConfig(filename string) *Config {
	config := NewConfig()
	loader := ezconf.NewLoader(
		config,
		"relay-server", "Relay Server - a real-time message relay for WebSocket chat clients",
		[]string{filename},
	)

	loader.MustLoad()
	return config
}
