package model

import "time"

// Shared defaults used by both the collector and producer binaries.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 15000
	DefaultReconnectDelay = 5 * time.Second
	DefaultSource         = "main"
)
