package output

import (
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/chainvue/chainvue-cli/internal/config"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ts := func(d time.Duration) *string {
		s := now.Add(-d).Format(time.RFC3339)
		return &s
	}

	empty := ""
	garbage := "yesterday"

	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"nil", nil, "Never"},
		{"empty", &empty, "Never"},
		{"seconds", ts(30 * time.Second), "Just now"},
		{"future", ts(-time.Hour), "Just now"},
		{"minutes", ts(5 * time.Minute), "5 min ago"},
		{"hours", ts(3 * time.Hour), "3 hours ago"},
		{"days", ts(6 * 24 * time.Hour), "6 days ago"},
		{"unparseable", &garbage, "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeAgo(tt.in, now); got != tt.want {
				t.Fatalf("FormatTimeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTimeAgoUsesConfigTimezone(t *testing.T) {
	timezoneOnce = sync.Once{}
	timezoneLoc = nil

	t.Cleanup(func() {
		timezoneOnce = sync.Once{}
		timezoneLoc = nil
	})

	t.Setenv("CHAINVUE_CONFIG_DIR", t.TempDir())

	if err := config.WriteConfig(config.File{Timezone: "Asia/Tokyo"}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := "2026-01-01T20:00:00Z"

	if got := FormatTimeAgo(&old, now); got != "2026-01-02" {
		t.Fatalf("unexpected date: %s", got)
	}
}
