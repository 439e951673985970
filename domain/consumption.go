package domain

import (
	"errors"
	"fmt"
)

var (
	MessageSuccessRecordConsumption = "consumption recorded successfully"
	MessageSuccessGetConsumptions   = "consumption log retrieved successfully"
	MessageSuccessGetDailyTotals    = "daily totals retrieved successfully"
	MessageSuccessGetStats          = "statistics retrieved successfully"
	MessagePartialRecordConsumption = "consumption recorded but daily total not updated"

	MessageFailedRecordConsumption = "failed to record consumption"
	MessageFailedGetConsumptions   = "failed to retrieve consumption log"
	MessageFailedGetDailyTotals    = "failed to retrieve daily totals"
	MessageFailedGetStats          = "failed to retrieve statistics"

	ErrNotAuthenticated   = errors.New("user not logged in")
	ErrPartialConsumption = errors.New("consumption entry written but daily total update failed")
	ErrInvalidScope       = errors.New("scope must be today or all")
)

type (
	// ConsumptionEntry is one user_eat record.
	ConsumptionEntry struct {
		ID       string   `json:"id,omitempty"`
		UserID   string   `json:"user_id"`
		Name     string   `json:"name"`
		Category Category `json:"category"`
		Kcal     string   `json:"kcal"`
		ImageURL string   `json:"imageurl"`
		Date     string   `json:"date"`
	}

	// DailyTotal is the running kcal sum stored at date/<date>/<user_id>.
	// Date is not stored in the leaf; it comes from the path.
	DailyTotal struct {
		UserID string `json:"user_id"`
		Date   string `json:"date"`
		Kcal   string `json:"kcal"`
	}

	RecordConsumptionRequest struct {
		ProductID string `json:"product_id" validate:"required_without=Name"`
		Name      string `json:"name"`
		Category  string `json:"category"`
		Kcal      string `json:"kcal"`
		ImageURL  string `json:"imageurl"`
	}

	// PieSlice is one wedge of the category pie chart, angles in degrees.
	PieSlice struct {
		Category   Category `json:"category"`
		Count      int      `json:"count"`
		StartAngle float64  `json:"start_angle"`
		SweepAngle float64  `json:"sweep_angle"`
	}

	CategoryStatsResponse struct {
		Scope  string           `json:"scope"`
		Counts map[Category]int `json:"counts"`
		Slices []PieSlice       `json:"slices"`
	}

	CalendarResponse struct {
		Month  string         `json:"month"`
		Cells  [42]int        `json:"cells"`
		Totals map[string]int `json:"totals"`
	}
)

// PartialConsumptionError reports that the entry was written but the paired
// daily total was not. The entry stays recorded; the total is queued for
// reconciliation.
type PartialConsumptionError struct {
	Entry ConsumptionEntry
	Cause error
}

func (e *PartialConsumptionError) Error() string {
	return fmt.Sprintf("%s: entry %s: %v", ErrPartialConsumption, e.Entry.ID, e.Cause)
}

func (e *PartialConsumptionError) Unwrap() []error {
	return []error{ErrPartialConsumption, e.Cause}
}
