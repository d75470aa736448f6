package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/logger"
)

func main() {
	// Define flags
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	count := flag.Int("count", 0, "Number of employees (overrides preset)")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	workers := flag.Int("workers", 1, "Concurrent inserts (keep 1 for sqlite)")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("🚀 Employee Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize app
	fmt.Println("📡 Initializing application...")
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx, bootstrap.Options{}); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		log.Fatal(err)
	}
	defer app.Close()

	n := *count
	if n <= 0 {
		n = database.GetPresetConfig(database.SeedPreset(*preset))
		fmt.Printf("📊 Using preset: %s\n", *preset)
	} else {
		fmt.Printf("📊 Using custom configuration: %d employees\n", n)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	seeder := database.NewDataSeeder(app.Service, s).WithWorkers(*workers)
	if _, err := seeder.SeedData(ctx, n); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println("\n✅ Done!")
}
