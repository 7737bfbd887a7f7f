package output

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chainvue/chainvue-cli/internal/config"
)

var (
	timezoneOnce sync.Once
	timezoneLoc  *time.Location
)

func loadLocation() *time.Location {
	timezoneOnce.Do(func() {
		cfg, err := config.ReadConfig()
		if err != nil || cfg.Timezone == "" {
			timezoneLoc = time.Local

			return
		}

		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			timezoneLoc = time.Local

			return
		}

		timezoneLoc = loc
	})

	if timezoneLoc == nil {
		return time.Local
	}

	return timezoneLoc
}

// FormatTimeAgo renders an RFC 3339 timestamp relative to now. Timestamps
// older than a week are shown as a date in the configured timezone.
func FormatTimeAgo(ts *string, now time.Time) string {
	if ts == nil || strings.TrimSpace(*ts) == "" {
		return "Never"
	}

	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*ts))
	if err != nil {
		return *ts
	}

	elapsed := now.Sub(t)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d min ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed/time.Hour))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(elapsed/(24*time.Hour)))
	default:
		return t.In(loadLocation()).Format("2006-01-02")
	}
}
