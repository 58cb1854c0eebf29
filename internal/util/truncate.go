package util

import "fmt"

// DefaultLogMaxLen bounds vendor request/response bodies quoted in logs and
// error messages (1KB).
const DefaultLogMaxLen = 1024

// TruncateLog shortens long strings for log output.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// TruncateBytes is a convenience wrapper over TruncateLog for raw bodies.
func TruncateBytes(b []byte) string {
	return TruncateLog(string(b), DefaultLogMaxLen)
}
