// Package logparse normalizes the free-form level strings carried by
// records. Records keep the level they were sent with; normalization only
// drives colouring and per-level counting.
package logparse

import "strings"

// Canonical levels, lowest severity first.
const (
	Debug    = "DEBUG"
	Info     = "INFO"
	Warning  = "WARNING"
	Error    = "ERROR"
	Critical = "CRITICAL"
)

// Levels lists the canonical levels in ascending severity.
var Levels = []string{Debug, Info, Warning, Error, Critical}

// NormalizeLevel maps common spellings of a level onto the canonical set.
// Unrecognized levels are returned trimmed and upper-cased.
func NormalizeLevel(level string) string {
	normalized := strings.ToUpper(strings.TrimSpace(level))

	switch normalized {
	case "TRACE", "TRAC", "TRC", "DEBUG", "DEBU", "DBG", "DEB":
		return Debug
	case "INFO", "INFORMATION", "INF":
		return Info
	case "WARN", "WARNING", "WRNG", "WRN":
		return Warning
	case "ERROR", "ERR", "ERRO":
		return Error
	case "CRITICAL", "CRIT", "CRT", "FATAL", "FATL", "FTL", "PANIC", "PNC":
		return Critical
	}

	if len(normalized) >= 4 {
		switch normalized[:4] {
		case "INFO":
			return Info
		case "WARN":
			return Warning
		case "ERRO":
			return Error
		case "DEBU", "TRAC":
			return Debug
		case "FATA", "CRIT":
			return Critical
		}
	}
	return normalized
}

// Rank returns the position of level in Levels after normalization, or -1
// when it is not a canonical level.
func Rank(level string) int {
	normalized := NormalizeLevel(level)
	for i, l := range Levels {
		if l == normalized {
			return i
		}
	}
	return -1
}
