package config

import (
	"Snack-Tracker/internal/api/handlers"
	"Snack-Tracker/internal/api/routes"
	"Snack-Tracker/internal/middleware"
	"Snack-Tracker/internal/utils"
	"Snack-Tracker/internal/utils/mailing"
	"Snack-Tracker/internal/utils/storage"
	"Snack-Tracker/pkg/classifier"
	"Snack-Tracker/pkg/coordinator"
	"Snack-Tracker/pkg/identity"
	"Snack-Tracker/pkg/jwt"
	"Snack-Tracker/pkg/media"
	"Snack-Tracker/pkg/metrics"
	"Snack-Tracker/pkg/store"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, *coordinator.Coordinator, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(registry); err != nil {
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}

	// remote clients
	s3, err := storage.NewAwsS3()
	if err != nil {
		return nil, nil, err
	}
	treeStore, err := newStore(db)
	if err != nil {
		return nil, nil, err
	}

	rps, err := strconv.ParseFloat(utils.GetConfig("OPENAI_RPS"), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("OPENAI_RPS: %w", err)
	}
	classifierService := classifier.NewClassifierService(classifier.Config{
		APIKey:  utils.GetConfig("OPENAI_API_KEY"),
		Model:   utils.GetConfig("OPENAI_MODEL"),
		BaseURL: utils.GetConfig("OPENAI_BASE_URL"),
		RPS:     rps,
	})

	// Repository
	identityRepository := identity.NewIdentityRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	identityService := identity.NewIdentityService(identityRepository, jwtService)
	mediaService := media.NewMediaService(s3)

	var mailer mailing.Mailer
	if mailConfig := mailing.LoadMailConfig(); mailConfig.SMTPHost != "" {
		mailer = mailing.NewMailer(mailConfig)
	}

	coord := coordinator.New(coordinator.Config{
		Identity:   identityService,
		Store:      store.Instrument(treeStore),
		Uploader:   mediaService,
		Classifier: classifierService,
		Mailer:     mailer,
		Validate:   validator,
	})
	middlewares := middleware.NewMiddleware(coord)

	// Handler
	sessionHandler := handlers.NewSessionHandler(coord, validator)
	productHandler := handlers.NewProductHandler(coord, validator)
	consumptionHandler := handlers.NewConsumptionHandler(coord, validator)
	analysisHandler := handlers.NewAnalysisHandler(coord, validator)
	statsHandler := handlers.NewStatsHandler(coord, time.Now)
	eventsHandler := handlers.NewEventsHandler(coord)

	// routes
	routesConfig := routes.Config{
		App:                app,
		SessionHandler:     sessionHandler,
		ProductHandler:     productHandler,
		ConsumptionHandler: consumptionHandler,
		AnalysisHandler:    analysisHandler,
		StatsHandler:       statsHandler,
		EventsHandler:      eventsHandler,
		Middleware:         middlewares,
		Metrics:            adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}
	routesConfig.Setup()
	return app, coord, nil
}

// newStore picks the hierarchical store backend named by STORE_DRIVER.
func newStore(db *gorm.DB) (store.Store, error) {
	switch driver := utils.GetConfig("STORE_DRIVER"); driver {
	case "postgres":
		return store.NewStoreRepository(db), nil
	case "redis":
		rdb, err := ConnectRedis()
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(rdb, utils.GetConfig("REDIS_PREFIX")), nil
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}
