package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chainvue/chainvue-cli/internal/api"
)

var (
	KeyHeaders     = []string{"NAME", "TYPE", "ENV", "PREFIX", "LAST USED", "CREATED"}
	WebhookHeaders = []string{"ID", "URL", "CHAIN", "EVENTS", "STATUS", "SUCCESS", "LAST"}
	ProfileHeaders = []string{"", "PROFILE", "ORGANIZATION", "EMAIL", "ENV"}
)

const maxURLWidth = 40

type TableWriter interface {
	Header(cols ...string)
	AddRow(cols ...string)
	Flush() error
}

// Table aligns columns for humans.
type Table struct {
	w     *tabwriter.Writer
	style func(string) string
}

// PlainTable writes tab-separated rows without a header line for scripts.
type PlainTable struct {
	w io.Writer
}

func NewTable(out io.Writer, headerStyle func(string) string) *Table {
	if headerStyle == nil {
		headerStyle = func(s string) string { return s }
	}

	return &Table{
		w:     tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		style: headerStyle,
	}
}

func NewTableWriter(out io.Writer, plain bool, headerStyle func(string) string) TableWriter {
	if plain {
		return &PlainTable{w: out}
	}

	return NewTable(out, headerStyle)
}

func (t *Table) Header(cols ...string) {
	styled := make([]string, len(cols))
	for i, c := range cols {
		styled[i] = t.style(c)
	}

	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
}

func (t *Table) AddRow(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *Table) Flush() error {
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	return nil
}

func (t *PlainTable) Header(...string) {}

func (t *PlainTable) AddRow(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *PlainTable) Flush() error {
	return nil
}

func FormatKey(k api.APIKey, now time.Time) []string {
	return []string{
		k.Name,
		k.Type,
		strings.ToLower(k.Environment),
		k.KeyPrefix,
		FormatTimeAgo(k.LastUsedAt, now),
		FormatTimeAgo(&k.CreatedAt, now),
	}
}

func FormatWebhook(w api.Webhook, now time.Time) []string {
	status := "disabled"
	if w.IsActive {
		status = "active"
	}

	return []string{
		w.ID,
		Truncate(w.URL, maxURLWidth),
		api.ChainName(w.ChainID),
		fmt.Sprintf("%d", len(w.Events)),
		status,
		SuccessRate(w.DeliveryCount, w.FailureCount),
		FormatTimeAgo(w.LastTriggeredAt, now),
	}
}

// SuccessRate renders delivered/total as a percentage, or "-" before the
// first delivery.
func SuccessRate(deliveries, failures int) string {
	if deliveries <= 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", float64(deliveries-failures)/float64(deliveries)*100)
}

func Truncate(s string, width int) string {
	if len(s) <= width || width <= 3 {
		return s
	}

	return s[:width-3] + "..."
}
