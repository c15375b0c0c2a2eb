package verify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/vvka-141/airroutes/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm returns a gorm handle sharing pool. Closing the returned
// function closes the database/sql wrapper, not the pool.
func OpenGorm(pool *pgxpool.Pool) (*gorm.DB, func() error, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, sqlDB.Close, nil
}

// SampleRoutes returns the first n routes in key order with their airline,
// airports and plane preloaded.
func SampleRoutes(ctx context.Context, gdb *gorm.DB, n int) ([]models.Route, error) {
	if n <= 0 {
		return nil, nil
	}

	var routes []models.Route
	err := gdb.WithContext(ctx).
		Preload("Carrier").
		Preload("Source").
		Preload("Destination").
		Preload("Plane").
		Order("airlineid, sourceairportid, destinationairportid, equipment").
		Limit(n).
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sample routes: %w", err)
	}
	return routes, nil
}
