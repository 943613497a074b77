package model

import "bytes"

// LogRecord is the four-field log entry carried by one frame on the wire.
// Records are passed by value and treated as immutable: constructors and
// decoders copy HardwareID so no two records share a backing array.
type LogRecord struct {
	Level      string // INFO/WARNING/ERROR, not validated
	Source     string // logical logger name
	HardwareID []byte // conventionally a 6-byte MAC address
	Message    string
}

// NewLogRecord builds a record, copying hardwareID.
func NewLogRecord(level, source string, hardwareID []byte, message string) LogRecord {
	return LogRecord{
		Level:      level,
		Source:     source,
		HardwareID: bytes.Clone(hardwareID),
		Message:    message,
	}
}

// Equal reports whether two records carry the same field values.
// A nil and an empty HardwareID are equal.
func (r LogRecord) Equal(other LogRecord) bool {
	return r.Level == other.Level &&
		r.Source == other.Source &&
		bytes.Equal(r.HardwareID, other.HardwareID) &&
		r.Message == other.Message
}
