package app

import "io"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string    // config directory, e.g. $HOME/.dhchat
	LogLevel    string    // zerolog level name; empty means "warn"
	LogFormat   string    // "console" (default) or "json"
	LogOutput   io.Writer // defaults to os.Stderr
	MetricsAddr string    // serve Prometheus metrics here when set, e.g. 127.0.0.1:9090
}
