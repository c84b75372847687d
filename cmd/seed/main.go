package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/apinexus/backend/internal/infrastructure/config"
	"github.com/apinexus/backend/internal/infrastructure/logger"
	"github.com/apinexus/backend/internal/infrastructure/persistence"
	"github.com/apinexus/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	itemCount := flag.Int("items", 50, "number of market items to create")
	saleCount := flag.Int("sales", 2000, "number of sales to create")
	days := flag.Int("days", 365, "spread sales over this many past days")
	seedValue := flag.Uint64("seed", 0, "random seed (0 picks a random one)")
	batchSize := flag.Int("batch", 500, "insert batch size")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := run(context.Background(), db, log, *seedValue, *itemCount, *saleCount, *days, *batchSize); err != nil {
		log.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, db *persistence.Database, log *zap.Logger, seedValue uint64, items, count, days, batch int) error {
	gen := seed.NewGenerator(seedValue, time.Now())

	stockRepo := persistence.NewGormStockRepository(db.DB)
	catalogue := gen.Items(items)
	if err := stockRepo.SaveItems(ctx, catalogue); err != nil {
		return err
	}
	log.Info("Market items created", zap.Int("count", len(catalogue)))

	list, err := gen.Sales(catalogue, count, days)
	if err != nil {
		return err
	}
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	if err := saleRepo.SaveBatch(ctx, list, batch); err != nil {
		return err
	}
	total, err := saleRepo.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("Sales created", zap.Int("inserted", len(list)), zap.Int64("total", total))
	return nil
}
