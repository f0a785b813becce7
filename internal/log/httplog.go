package log

import (
	"time"
)

// LogHTTPRequest records one served HTTP request as a structured entry.
func LogHTTPRequest(method, path string, status int, duration time.Duration, size int, remoteAddr, userAgent string, err error) {
	fields := []interface{}{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size", size,
		"remote_addr", remoteAddr,
		"user_agent", userAgent,
	}

	if err != nil || status >= 500 {
		if err != nil {
			fields = append(fields, "error", err.Error())
		}
		GetSugaredLogger().Errorw("http request", fields...)
		return
	}
	GetSugaredLogger().Infow("http request", fields...)
}
