// Package export renders allocations as spreadsheets, printable loading
// plans and interactive charts, and imports item lists from spreadsheets.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a query value onto a Format. Empty selects xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatPDF, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename returns the download name for alloc in format f.
func (f Format) Filename(alloc *model.Allocation) string {
	return fmt.Sprintf("allocation-%s.%s", alloc.ID, f)
}

// Write renders alloc to w in format f. shareURL is only used by PDF.
func Write(w io.Writer, f Format, alloc *model.Allocation, shareURL string) error {
	switch f {
	case FormatXLSX:
		return WriteWorkbook(w, alloc)
	case FormatPDF:
		return WritePDF(w, alloc, shareURL)
	case FormatHTML:
		return WriteChart(w, alloc)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// levelIndex maps each support level to its 1-based position.
func levelIndex(alloc *model.Allocation) map[uint]int {
	levels := alloc.Levels()
	index := make(map[uint]int, len(levels))
	for i, y := range levels {
		index[y] = i + 1
	}
	return index
}
