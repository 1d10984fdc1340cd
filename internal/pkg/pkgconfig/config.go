package pkgconfig

import "time"

// Config is the read-only view of application configuration that modules depend on.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetArray(key string) []string
	Close() error
}

// EnvPrefix is the prefix for environment overrides, e.g. GODATASET_SERVER_ADDRESS_HTTP.
const EnvPrefix = "GODATASET"
