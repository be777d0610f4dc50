package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes the title block, the styled header and the rows of one sheet
func (e *ExcelExporter) Export(doc *Document, writer io.Writer) error {
	return e.ExportWorkbook([]*Document{doc}, writer)
}

// ExportWorkbook writes one sheet per document into a single workbook
func (e *ExcelExporter) ExportWorkbook(docs []*Document, writer io.Writer) error {
	if len(docs) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(docs))
	for i, doc := range docs {
		sheet := uniqueSheetName(sheetName(doc.Title), used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, doc); err != nil {
			return err
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, doc *Document) error {
	row := 1
	if doc.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		f.SetCellValue(sheet, cellName(1, row), doc.Title)
		f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), titleStyle)
		row++

		if doc.Description != "" {
			f.SetCellValue(sheet, cellName(1, row), doc.Description)
			row++
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: doc.Style.FontSize, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(doc.Style.HeaderBgColor, "#")},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := row
	for col, header := range doc.Headers {
		cell := cellName(col+1, row)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(col + 1)
		width := float64(len(header) + 4)
		if w, ok := doc.Style.ColumnWidths[col]; ok {
			width = w
		}
		if width < 12 {
			width = 12
		}
		f.SetColWidth(sheet, colName, colName, width)
	}
	row++

	oddStyle, err := rowStyle(f, doc.Style, doc.Style.RowBgColor1)
	if err != nil {
		return err
	}
	evenStyle := oddStyle
	if doc.Style.AlternateRows {
		if evenStyle, err = rowStyle(f, doc.Style, doc.Style.RowBgColor2); err != nil {
			return err
		}
	}

	for i, values := range doc.Rows {
		style := oddStyle
		if i%2 == 1 {
			style = evenStyle
		}
		for col, value := range values {
			cell := cellName(col+1, row)
			f.SetCellValue(sheet, cell, cellValue(value))
			f.SetCellStyle(sheet, cell, cell, style)
		}
		row++
	}

	if doc.Style.FreezeHeader {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: cellName(1, headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	if doc.Style.AutoFilter && len(doc.Headers) > 0 {
		ref := fmt.Sprintf("%s:%s", cellName(1, headerRow), cellName(len(doc.Headers), headerRow+len(doc.Rows)))
		if err := f.AutoFilter(sheet, ref, nil); err != nil {
			return fmt.Errorf("failed to add auto filter: %w", err)
		}
	}

	return nil
}

func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

func rowStyle(f *excelize.File, style Style, bgColor string) (int, error) {
	s := &excelize.Style{Font: &excelize.Font{Size: style.FontSize}}
	if bgColor != "" && !strings.EqualFold(bgColor, "#FFFFFF") {
		s.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(bgColor, "#")},
		}
	}
	id, err := f.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("failed to create row style: %w", err)
	}
	return id, nil
}

// cellValue keeps numbers numeric so the sheet can sort and sum them
func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *float64:
		if t == nil {
			return ""
		}
		return *t
	case nil:
		return ""
	default:
		return t
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sheetName strips the characters Excel rejects and truncates to 31 runes
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(title))

	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	if len(runes) == 0 {
		return "Relatorio"
	}
	return string(runes)
}

// uniqueSheetName suffixes repeated names, keeping within the length limit
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(name)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
