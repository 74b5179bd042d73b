package console

import (
	"fmt"
	"strings"

	"system-exporter/internal/export"

	"github.com/dustin/go-humanize"
)

// StatusLine renders the status bar from the exporter stats.
func StatusLine(stats *export.Stats) string {
	var b strings.Builder

	b.WriteString(" ")
	if stats.SystemLoaded {
		b.WriteString("[green]System loaded[-]")
	} else {
		b.WriteString("[yellow]No system[-]")
	}

	fmt.Fprintf(&b, " | Exports: %d", stats.TotalExports)

	if stats.AutoExport {
		b.WriteString(" | Auto: [green]ON[-]")
	} else {
		b.WriteString(" | Auto: OFF")
	}

	if !stats.LastExport.IsZero() {
		fmt.Fprintf(&b, " | Last: %s (%s)", stats.LastFile, humanize.Time(stats.LastExport))
	}

	if stats.Archived > 0 {
		fmt.Fprintf(&b, " | Archived: %s", humanize.Comma(int64(stats.Archived)))
	}
	if stats.Subscribers > 0 {
		fmt.Fprintf(&b, " | Listeners: %d", stats.Subscribers)
	}

	return b.String()
}
