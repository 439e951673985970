package routes

import (
	"Snack-Tracker/internal/api/handlers"
	"Snack-Tracker/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                *fiber.App
	SessionHandler     handlers.SessionHandler
	ProductHandler     handlers.ProductHandler
	ConsumptionHandler handlers.ConsumptionHandler
	AnalysisHandler    handlers.AnalysisHandler
	StatsHandler       handlers.StatsHandler
	EventsHandler      handlers.EventsHandler
	Middleware         middleware.Middleware
	// Metrics serves the Prometheus exposition format. Nil leaves /metrics unrouted.
	Metrics fiber.Handler
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Session()
	c.Products()
	c.Consumptions()
	c.Analysis()
	c.Stats()
	c.GuestRoute()
}

func (c *Config) Session() {
	session := c.App.Group("/api/v1/session")
	{
		session.Post("/sign-up", c.SessionHandler.SignUp)
		session.Post("/sign-in", c.SessionHandler.SignIn)
		session.Post("/sign-out", c.Middleware.RequireSession(), c.SessionHandler.SignOut)
		session.Get("", c.Middleware.RequireSession(), c.SessionHandler.Current)
	}
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.RequireSession())
	products.Get("", c.ProductHandler.GetProducts)
	products.Post("", c.ProductHandler.SaveProduct)
	products.Post("/image", c.ProductHandler.UploadProductImage)
}

func (c *Config) Consumptions() {
	consumptions := c.App.Group("/api/v1/consumptions", c.Middleware.RequireSession())
	consumptions.Post("", c.ConsumptionHandler.RecordConsumption)
	consumptions.Get("", c.ConsumptionHandler.GetConsumptions)

	totals := c.App.Group("/api/v1/totals", c.Middleware.RequireSession())
	totals.Get("", c.ConsumptionHandler.GetDailyTotals)
	totals.Get("/:date", c.ConsumptionHandler.GetDailyTotalsForDate)
}

func (c *Config) Analysis() {
	analysis := c.App.Group("/api/v1/analysis", c.Middleware.RequireSession())
	analysis.Post("/image", c.AnalysisHandler.AnalyzeImage)
	analysis.Post("/name", c.AnalysisHandler.AnalyzeName)
	analysis.Get("", c.AnalysisHandler.GetAnalysis)
	analysis.Delete("", c.AnalysisHandler.ResetAnalysis)
}

func (c *Config) Stats() {
	stats := c.App.Group("/api/v1/stats", c.Middleware.RequireSession())
	stats.Get("/categories", c.StatsHandler.GetCategoryStats)
	stats.Get("/calendar", c.StatsHandler.GetCalendar)

	c.App.Get("/api/v1/events", c.Middleware.RequireSession(), c.EventsHandler.Stream)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.Metrics != nil {
		c.App.Get("/metrics", c.Metrics)
	}
}
