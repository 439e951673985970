package config

import (
	"Snack-Tracker/internal/utils"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Errorf("database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}

func ConnectRedis() (*redis.Client, error) {
	dbIndex, err := strconv.Atoi(utils.GetConfig("REDIS_DB"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       dbIndex,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
