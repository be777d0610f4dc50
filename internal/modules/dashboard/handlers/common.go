package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/services"
)

// MaxWindowDays bounds an explicit start/end window. Daily charts carry
// one label per day, so longer ranges are rejected.
const MaxWindowDays = 3 * 366

// WindowParser reads the time-window query parameters of a request
type WindowParser struct {
	loc     *time.Location
	now     func() time.Time
	maxDays int
}

func NewWindowParser(loc *time.Location) *WindowParser {
	if loc == nil {
		loc = time.UTC
	}
	return &WindowParser{loc: loc, now: time.Now, maxDays: MaxWindowDays}
}

// Parse reads start/end (YYYY-MM-DD) or a named period from the query.
// It returns nil when neither is given, meaning the whole dataset.
func (p *WindowParser) Parse(c *fiber.Ctx) (*analytics.TimeWindow, error) {
	return p.parse(c, "start", "end", "period")
}

// ParsePair reads a required window from prefixed start/end parameters
func (p *WindowParser) ParsePair(c *fiber.Ctx, prefix string) (analytics.TimeWindow, error) {
	w, err := p.parse(c, prefix+"_start", prefix+"_end", prefix+"_period")
	if err != nil {
		return analytics.TimeWindow{}, err
	}
	if w == nil {
		return analytics.TimeWindow{}, errors.New(prefix + "_start and " + prefix + "_end are required")
	}
	return *w, nil
}

func (p *WindowParser) parse(c *fiber.Ctx, startKey, endKey, periodKey string) (*analytics.TimeWindow, error) {
	start, end := c.Query(startKey), c.Query(endKey)
	period := c.Query(periodKey)

	switch {
	case start != "" || end != "":
		if start == "" || end == "" {
			return nil, errors.New(startKey + " and " + endKey + " must be given together")
		}
		w, err := analytics.ParseDateWindow(start, end, p.loc)
		if err != nil {
			return nil, err
		}
		if days := analytics.CalendarDays(w.Start, w.End); days > p.maxDays {
			return nil, fmt.Errorf("window spans %d days, at most %d are allowed", days, p.maxDays)
		}
		return &w, nil

	case period != "" && period != "all":
		w, err := analytics.PresetWindow(period, p.now().In(p.loc))
		if err != nil {
			return nil, err
		}
		return &w, nil
	}
	return nil, nil
}

// queryList splits a comma separated query parameter, dropping blanks
func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid_request",
		"message": message,
	})
}

// respondError maps service errors to HTTP responses
func respondError(c *fiber.Ctx, err error) error {
	var missing *repositories.MissingColumnError
	switch {
	case errors.As(err, &missing):
		log.Error().Err(err).Str("path", c.Path()).Msg("Collection does not match its schema")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "schema_mismatch",
			"message":    err.Error(),
			"collection": missing.Collection,
			"column":     missing.Column,
		})

	case errors.Is(err, services.ErrInvalidRequest):
		return badRequest(c, err.Error())

	case errors.Is(err, services.ErrNoData):
		return c.JSON(fiber.Map{
			"no_data":  true,
			"warnings": []string{err.Error()},
		})

	case errors.Is(err, services.ErrUpstream):
		log.Error().Err(err).Str("path", c.Path()).Msg("Upstream failure")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "upstream_unavailable",
			"message": "A data source is unavailable, try again shortly",
		})

	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Unexpected error",
		})
	}
}
