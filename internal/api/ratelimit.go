package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryAfterSeconds reads how long a rate-limited caller should wait, from
// Retry-After or else x-ratelimit-reset. Zero means the server did not say.
func retryAfterSeconds(h http.Header, now time.Time) int {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if n := headerInt(h, "Retry-After", -1); n >= 0 {
			return n
		}

		if at, err := http.ParseTime(v); err == nil {
			return secondsUntil(at, now)
		}
	}

	reset := strings.TrimSpace(h.Get("x-ratelimit-reset"))
	if reset == "" {
		return 0
	}

	if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
		return secondsUntil(time.Unix(ts, 0), now)
	}

	if at, err := http.ParseTime(reset); err == nil {
		return secondsUntil(at, now)
	}

	return 0
}

func secondsUntil(t, now time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}

	return int(math.Ceil(d.Seconds()))
}

func headerInt(h http.Header, key string, fallback int) int {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
