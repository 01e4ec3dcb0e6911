package export

import (
	"fmt"
	"time"
)

// Format identifies a supported export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// Valid reports whether the format is one of the supported renderers.
func (f Format) Valid() bool {
	switch f {
	case FormatXLSX, FormatCSV, FormatPDF:
		return true
	}
	return false
}

// ContentType returns the MIME type for download responses.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into file bytes.
type Renderer interface {
	Render(data Dataset, title string) ([]byte, error)
}

// Filename builds the download filename for a resource export, e.g.
// "banner_exported_(30-08-2026).xlsx".
func Filename(resource string, format Format, at time.Time) string {
	return fmt.Sprintf("%s_exported_(%s).%s", resource, at.Format("02-01-2006"), format)
}
