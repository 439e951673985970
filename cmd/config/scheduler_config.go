package config

import (
	"Snack-Tracker/internal/utils"
	"Snack-Tracker/pkg/coordinator"
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

const reconcileTimeout = 30 * time.Second

// NewScheduler registers the periodic jobs. The caller starts and stops it.
func NewScheduler(coord *coordinator.Coordinator) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(utils.GetConfig("RECONCILE_SCHEDULE"), func() {
		if coord.Pending() == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		if err := coord.ReconcileTotals(ctx); err != nil {
			log.Warnw("daily total reconciliation incomplete", "pending", coord.Pending(), "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
