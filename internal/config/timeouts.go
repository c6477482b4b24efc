package config

import "time"

// TimeoutConfig holds storage-level wait settings.
// These can be configured via CLI flags to tune behaviour for slow disks or shared files.
type TimeoutConfig struct {
	// BusyTimeout is how long SQLite waits on a locked database before
	// failing the statement with SQLITE_BUSY. Default: 5s
	BusyTimeout time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		BusyTimeout: 5 * time.Second,
	}
}

// global instance that can be set at startup
var globalTimeouts = DefaultTimeoutConfig()

// SetGlobalTimeouts sets the global timeout configuration
func SetGlobalTimeouts(cfg *TimeoutConfig) {
	if cfg == nil {
		cfg = DefaultTimeoutConfig()
	}
	globalTimeouts = cfg
}

// GetTimeouts returns the global timeout configuration
func GetTimeouts() *TimeoutConfig {
	return globalTimeouts
}
