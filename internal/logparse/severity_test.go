package logparse

import "testing"

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Standard forms
		{"DEBUG", "DEBUG"}, {"INFO", "INFO"}, {"WARNING", "WARNING"},
		{"ERROR", "ERROR"}, {"CRITICAL", "CRITICAL"},
		// Variants
		{"TRACE", "DEBUG"}, {"TRC", "DEBUG"}, {"DBG", "DEBUG"}, {"DEB", "DEBUG"},
		{"INFORMATION", "INFO"}, {"INF", "INFO"},
		{"WARN", "WARNING"}, {"WRNG", "WARNING"}, {"WRN", "WARNING"},
		{"ERR", "ERROR"}, {"ERRO", "ERROR"},
		{"FATAL", "CRITICAL"}, {"CRIT", "CRITICAL"}, {"PANIC", "CRITICAL"},
		// Case insensitive
		{"info", "INFO"}, {"warning", "WARNING"}, {"error", "ERROR"},
		// Prefix matching
		{"INFORMATION_EXTRA", "INFO"}, {"WARNING_LEVEL", "WARNING"},
		{"ERROR_CODE_42", "ERROR"}, {"DEBUG_VERBOSE", "DEBUG"},
		{"FATAL_CRASH", "CRITICAL"}, {"CRITICAL_ALERT", "CRITICAL"},
		// Unknown levels pass through upper-cased
		{"", ""}, {"notice", "NOTICE"}, {"AUDIT", "AUDIT"},
		// Whitespace
		{"  INFO  ", "INFO"}, {"\tWARN\t", "WARNING"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeLevel(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"debug", 0}, {"INFO", 1}, {"warn", 2}, {"ERROR", 3}, {"fatal", 4},
		{"NOTICE", -1}, {"", -1},
	}

	for _, tt := range tests {
		if got := Rank(tt.input); got != tt.expected {
			t.Errorf("Rank(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
