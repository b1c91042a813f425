package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/gema-grades/internal/dto"
)

var (
	sectionRule = strings.Repeat("-", 60)
	reportRule  = strings.Repeat("=", 60)
)

// TextFormatter prints the report as numbered plain-text sections.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every section followed by a separator line.
func (f *TextFormatter) Format(report dto.Report) error {
	all := sections(report)
	for i, s := range all {
		if err := f.formatSection(s); err != nil {
			return err
		}
		rule := sectionRule
		if i == len(all)-1 {
			rule = reportRule
		}
		if _, err := fmt.Fprintln(f.writer, rule); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatSection(s section) error {
	if s.Scalar {
		if s.Value == nil {
			_, err := fmt.Fprintf(f.writer, "%d. %s: %s\n", s.Number, s.Title, s.Missing)
			return err
		}
		_, err := fmt.Fprintf(f.writer, "%d. %s: %s\n", s.Number, s.Title, formatValue(*s.Value))
		return err
	}

	if _, err := fmt.Fprintf(f.writer, "%d. %s:\n", s.Number, s.Title); err != nil {
		return err
	}
	if s.empty() {
		_, err := fmt.Fprintf(f.writer, "   %s\n", s.Missing)
		return err
	}
	for _, row := range s.Rows {
		if _, err := fmt.Fprintf(f.writer, "   %s\n", textLine(row)); err != nil {
			return err
		}
	}
	return nil
}

// textLine renders "name", "name: value" or "name: value (date)".
func textLine(row []interface{}) string {
	switch len(row) {
	case 0:
		return ""
	case 1:
		return formatValue(row[0])
	case 2:
		return fmt.Sprintf("%s: %s", formatValue(row[0]), formatValue(row[1]))
	default:
		rest := make([]string, 0, len(row)-2)
		for _, v := range row[2:] {
			rest = append(rest, formatValue(v))
		}
		return fmt.Sprintf("%s: %s (%s)", formatValue(row[0]), formatValue(row[1]), strings.Join(rest, ", "))
	}
}
