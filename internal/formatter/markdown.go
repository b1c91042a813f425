package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/gema-grades/internal/dto"
)

// MarkdownFormatter renders one heading and table per query.
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report as markdown.
func (f *MarkdownFormatter) Format(report dto.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Grades report\n\nGenerated %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	for _, s := range sections(report) {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", s.Number, s.Title)
		if s.empty() {
			fmt.Fprintf(&b, "_%s_\n", s.Missing)
			continue
		}
		if s.Scalar {
			fmt.Fprintf(&b, "**%s**\n", formatValue(*s.Value))
			continue
		}

		fmt.Fprintf(&b, "| %s |\n", strings.Join(s.Columns, " | "))
		fmt.Fprintf(&b, "|%s\n", strings.Repeat(" --- |", len(s.Columns)))
		for _, row := range s.Rows {
			cells := make([]string, 0, len(row))
			for _, v := range row {
				cells = append(cells, escapeCell(formatValue(v)))
			}
			fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
		}
	}

	_, err := io.WriteString(f.writer, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
