package formatter

import (
	"encoding/json"
	"io"

	"github.com/noah-isme/gema-grades/internal/dto"
)

// JSONFormatter writes the report as indented JSON; absent values encode as null.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the report.
func (f *JSONFormatter) Format(report dto.Report) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
