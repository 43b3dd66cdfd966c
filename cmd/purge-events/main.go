// Command purge-events deletes every event and its registrations. Without
// -confirm it only reports what would be deleted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"campusconnect/config"
	"campusconnect/internal/repository/postgres"
	"campusconnect/internal/services"
)

func main() {
	confirm := flag.Bool("confirm", false, "actually delete; otherwise this is a dry run")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	logger := config.NewLogger()
	if err := run(logger, *confirm, *timeout); err != nil {
		logger.Error("purge failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, confirm bool, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	purger := services.NewPurger(postgres.NewEventRepository(db), postgres.NewRegistrationRepository(db), logger)
	report, err := purger.Purge(ctx, !confirm)
	if err != nil {
		return fmt.Errorf("after %d events and %d registrations: %w", report.Events, report.Registrations, err)
	}
	if !confirm {
		fmt.Printf("dry run: %d events and %d registrations would be deleted; rerun with -confirm\n", report.Events, report.Registrations)
		return nil
	}
	fmt.Printf("deleted %d events and %d registrations\n", report.Events, report.Registrations)
	return nil
}
