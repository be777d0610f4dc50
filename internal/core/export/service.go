package export

import (
	"bytes"
	"fmt"
	"io"
)

// Service picks the exporter for a format
type Service struct {
	pdfExporter   Exporter
	excelExporter Exporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		pdfExporter:   NewPDFExporter(),
		excelExporter: NewExcelExporter(),
	}
}

func (s *Service) exporter(format Format) (Exporter, error) {
	switch format {
	case FormatPDF:
		return s.pdfExporter, nil
	case FormatExcel:
		return s.excelExporter, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// File is a rendered download
type File struct {
	Content     []byte
	ContentType string
	Extension   string
}

// Render writes the document in the given format
func (s *Service) Render(doc *Document, format Format) (*File, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(doc, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	return &File{
		Content:     buf.Bytes(),
		ContentType: exporter.GetContentType(),
		Extension:   exporter.GetFileExtension(),
	}, nil
}

// RenderTo streams the document to a writer
func (s *Service) RenderTo(doc *Document, format Format, writer io.Writer) error {
	exporter, err := s.exporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(doc, writer)
}

// RenderWorkbook writes several documents as the sheets of one Excel file
func (s *Service) RenderWorkbook(docs []*Document) (*File, error) {
	excel, ok := s.excelExporter.(*ExcelExporter)
	if !ok {
		return nil, fmt.Errorf("excel exporter does not support workbooks")
	}

	var buf bytes.Buffer
	if err := excel.ExportWorkbook(docs, &buf); err != nil {
		return nil, fmt.Errorf("workbook export failed: %w", err)
	}

	return &File{
		Content:     buf.Bytes(),
		ContentType: excel.GetContentType(),
		Extension:   excel.GetFileExtension(),
	}, nil
}
