package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/services"
)

// Reports renders downloadable reports
type Reports interface {
	Generate(ctx context.Context, report string, format export.Format, w *analytics.TimeWindow) (*services.Report, error)
	GenerateAll(ctx context.Context, w *analytics.TimeWindow) (*services.Report, error)
}

type ExportHandler struct {
	svc     Reports
	windows *WindowParser
}

func NewExportHandler(svc Reports, windows *WindowParser) *ExportHandler {
	return &ExportHandler{svc: svc, windows: windows}
}

// GetReport godoc
// @Summary Download a report
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Security BearerAuth
// @Param report path string true "forecast, meta-ads, instagram-top or sales-share"
// @Param format query string false "excel or pdf"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/export/{report} [get]
func (h *ExportHandler) GetReport(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.svc.Generate(c.UserContext(), c.Params("report"), format, w)
	if err != nil {
		return respondError(c, err)
	}
	return sendReport(c, report)
}

// GetAll godoc
// @Summary Download every report as one workbook
// @Description Admin only
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/export [get]
func (h *ExportHandler) GetAll(c *fiber.Ctx) error {
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.svc.GenerateAll(c.UserContext(), w)
	if err != nil {
		return respondError(c, err)
	}
	return sendReport(c, report)
}

func sendReport(c *fiber.Ctx, report *services.Report) error {
	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
	return c.Send(report.Content)
}
