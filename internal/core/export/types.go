package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format is the file format of a report download
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ParseFormat accepts "excel"/"xlsx" and "pdf"; empty means excel
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Exporter renders a document into one file format
type Exporter interface {
	Export(doc *Document, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// Document is a titled table ready to be written to a file
type Document struct {
	Title       string
	Description string
	CreatedAt   time.Time

	Headers []string
	Rows    [][]interface{}

	Style Style
}

// Style holds the presentation options shared by both exporters
type Style struct {
	Landscape bool

	HeaderBgColor string
	RowBgColor1   string
	RowBgColor2   string
	AlternateRows bool

	FontSize float64

	FreezeHeader bool
	AutoFilter   bool
	ColumnWidths map[int]float64
}

// DefaultStyle is the report look: blue headers, zebra rows, landscape pages
func DefaultStyle() Style {
	return Style{
		Landscape:     true,
		HeaderBgColor: "#4472C4",
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		AlternateRows: true,
		FontSize:      9,
		FreezeHeader:  true,
		AutoFilter:    true,
	}
}

// NewDocument builds a document with the default style
func NewDocument(title string, headers []string, rows [][]interface{}) *Document {
	return &Document{
		Title:     title,
		CreatedAt: time.Now(),
		Headers:   headers,
		Rows:      rows,
		Style:     DefaultStyle(),
	}
}

// cellText renders a value for the PDF table
func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *float64:
		if t == nil {
			return ""
		}
		return cellText(*t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
