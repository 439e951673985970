package handlers

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/api/presenters"
	"Snack-Tracker/pkg/coordinator"
	"Snack-Tracker/pkg/stats"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	ScopeToday = "today"
	ScopeAll   = "all"
)

type (
	StatsHandler interface {
		GetCategoryStats(c *fiber.Ctx) error
		GetCalendar(c *fiber.Ctx) error
	}

	statsHandler struct {
		coordinator *coordinator.Coordinator
		now         func() time.Time
	}
)

func NewStatsHandler(coord *coordinator.Coordinator, now func() time.Time) StatsHandler {
	if now == nil {
		now = time.Now
	}
	return &statsHandler{
		coordinator: coord,
		now:         now,
	}
}

func (h *statsHandler) GetCategoryStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scope := c.Query("scope", ScopeToday)
	if scope != ScopeToday && scope != ScopeAll {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, domain.ErrInvalidScope)
	}

	if err := h.coordinator.FetchConsumptionLog(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetStats, err)
	}
	entries := h.coordinator.ConsumptionLog().Get()
	if scope == ScopeToday {
		entries = stats.FilterByUserAndDate(entries, userID, stats.Today(h.now()))
	} else {
		entries = stats.FilterByUser(entries, userID)
	}

	counts := stats.CategoryStatistics(entries)
	return presenters.SuccessResponse(c, domain.CategoryStatsResponse{
		Scope:  scope,
		Counts: counts,
		Slices: stats.PieSlices(counts),
	}, fiber.StatusOK, domain.MessageSuccessGetStats)
}

func (h *statsHandler) GetCalendar(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	month, err := time.Parse(domain.MonthLayout, c.Query("month", h.now().Format(domain.MonthLayout)))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, domain.ErrInvalidMonth)
	}

	if err := h.coordinator.FetchAllDailyTotals(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetStats, err)
	}

	prefix := month.Format(domain.MonthLayout) + "-"
	totals := make(map[string]int)
	for date, kcal := range stats.TotalsByDate(h.coordinator.DailyTotals().Get(), userID) {
		if strings.HasPrefix(date, prefix) {
			totals[date] = kcal
		}
	}

	return presenters.SuccessResponse(c, domain.CalendarResponse{
		Month:  month.Format(domain.MonthLayout),
		Cells:  stats.MonthGrid(month.Year(), month.Month()),
		Totals: totals,
	}, fiber.StatusOK, domain.MessageSuccessGetStats)
}
