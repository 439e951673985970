package main

import (
	"Snack-Tracker/cmd/config"
	migration "Snack-Tracker/cmd/database/migrate"
	"Snack-Tracker/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	app, coord, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	scheduler, err := config.NewScheduler(coord)
	if err != nil {
		log.Fatalf("error creating scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
		coord.Wait()
	}()

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
