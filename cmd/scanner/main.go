// Command scanner runs a check-in station against the API. Frames are image files
// dropped into a directory; press Enter to scan the next ticket after a result.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusconnect/config"
	"campusconnect/internal/adapters/qr"
	"campusconnect/internal/domain"
	"campusconnect/internal/scanner"
)

func main() {
	var (
		apiURL       = flag.String("api", "http://localhost:8080", "API base URL")
		frames       = flag.String("frames", "./frames", "directory watched for frame images")
		token        = flag.String("token", os.Getenv("SCANNER_TOKEN"), "organizer bearer token")
		emailAddr    = flag.String("email", "", "organizer email, used with SCANNER_PASSWORD when no token is given")
		interval     = flag.Duration("interval", scanner.DefaultInterval, "frame sampling interval")
		readyTimeout = flag.Duration("ready-timeout", scanner.DefaultReadyTimeout, "how long to wait for the first frame")
	)
	flag.Parse()

	logger := config.NewLogger()
	if err := run(logger, *apiURL, *frames, *token, *emailAddr, *interval, *readyTimeout); err != nil {
		logger.Error("scanner stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, apiURL, frames, token, emailAddr string, interval, readyTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := scanner.NewClient(&http.Client{Timeout: 10 * time.Second}, apiURL, token)
	if token == "" {
		if emailAddr == "" {
			return fmt.Errorf("either -token or -email with SCANNER_PASSWORD is required")
		}
		if err := client.Login(ctx, emailAddr, os.Getenv("SCANNER_PASSWORD")); err != nil {
			return err
		}
	}

	station := scanner.NewStation(scanner.Config{
		Camera:       scanner.DirCamera{Dir: frames},
		Decoder:      qr.NewDecoder(),
		Verifier:     client,
		Logger:       logger,
		Interval:     interval,
		ReadyTimeout: readyTimeout,
		OnResult:     printResult,
	})

	go func() {
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			if !station.Rearm() {
				fmt.Println("still scanning")
			}
		}
	}()

	logger.Info("scanner ready", "frames", frames, "api", apiURL)
	if err := station.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printResult(r *domain.CheckInResult) {
	fmt.Printf("[%s] %s\n", r.Outcome, r.Message)
	if r.AttendeeName != "" {
		fmt.Printf("  attendee: %s\n  event:    %s\n", r.AttendeeName, r.EventName)
	}
	fmt.Println("Press Enter to scan another ticket.")
}
