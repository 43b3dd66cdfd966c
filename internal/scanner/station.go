// Package scanner runs a check-in station: it samples frames from a camera,
// decodes the first ticket QR code it sees and hands it to a verifier.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"campusconnect/internal/domain"
)

// State is the station's position in the scan cycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateResultShown
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateResultShown:
		return "result_shown"
	default:
		return "idle"
	}
}

// ErrCameraNotReady is returned when the camera never produced frames with valid dimensions.
var ErrCameraNotReady = errors.New("camera not ready")

// Camera hands out a frame source. Each source must be closed by the caller.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
}

// FrameSource yields frames from an acquired camera.
type FrameSource interface {
	// Ready blocks until frames have non-zero dimensions.
	Ready(ctx context.Context) error
	// Frame returns the current frame. A nil image means nothing new is available.
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Verifier checks a decoded ticket payload in.
type Verifier interface {
	Verify(ctx context.Context, payload string) (*domain.CheckInResult, error)
}

// Defaults for Config.
const (
	DefaultInterval     = 100 * time.Millisecond
	DefaultReadyTimeout = 10 * time.Second
)

// Config wires a Station.
type Config struct {
	Camera       Camera
	Decoder      domain.QRDecoder
	Verifier     Verifier
	Logger       *slog.Logger
	Interval     time.Duration // frame sampling period
	ReadyTimeout time.Duration
	// OnResult is called after every verification, from the Run goroutine.
	OnResult func(*domain.CheckInResult)
}

// Station is the scan state machine. Run drives it; Rearm and the accessors may be
// called from other goroutines.
type Station struct {
	cfg   Config
	rearm chan struct{}

	mu     sync.Mutex
	state  State
	result *domain.CheckInResult
}

// NewStation returns an idle station.
func NewStation(cfg Config) *Station {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Station{cfg: cfg, rearm: make(chan struct{}, 1)}
}

// State reports the current state.
func (s *Station) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the last verification result, or nil while none is shown.
func (s *Station) Result() *domain.CheckInResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Rearm leaves result_shown and resumes scanning. It reports false in any other state.
func (s *Station) Rearm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateResultShown {
		return false
	}
	select {
	case s.rearm <- struct{}{}:
	default:
	}
	return true
}

func (s *Station) set(state State, result *domain.CheckInResult) {
	s.mu.Lock()
	s.state = state
	s.result = result
	s.mu.Unlock()
}

// Run acquires the camera and scans until ctx is done. The camera is released and
// the station returns to idle on every exit path.
func (s *Station) Run(ctx context.Context) (err error) {
	defer s.set(StateIdle, nil)

	src, err := s.cfg.Camera.Open(ctx)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			s.cfg.Logger.WarnContext(ctx, "release camera", "err", cerr)
		}
	}()

	readyCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadyTimeout)
	err = src.Ready(readyCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrCameraNotReady, err)
	}

	for {
		s.set(StateScanning, nil)
		payload, err := s.scan(ctx, src)
		if err != nil {
			return err
		}

		result := s.verify(ctx, payload)
		s.set(StateResultShown, result)
		if s.cfg.OnResult != nil {
			s.cfg.OnResult(result)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.rearm:
		}
	}
}

// scan samples frames on a ticker until one holds a readable code.
func (s *Station) scan(ctx context.Context, src FrameSource) (string, error) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		frame, err := src.Frame(ctx)
		if err != nil {
			return "", fmt.Errorf("read frame: %w", err)
		}
		if frame == nil {
			continue
		}
		text, found, err := s.cfg.Decoder.Decode(frame)
		if err != nil {
			s.cfg.Logger.DebugContext(ctx, "decode frame", "err", err)
			continue
		}
		if found {
			return text, nil
		}
	}
}

func (s *Station) verify(ctx context.Context, payload string) *domain.CheckInResult {
	result, err := s.cfg.Verifier.Verify(ctx, payload)
	if err != nil {
		s.cfg.Logger.ErrorContext(ctx, "verify ticket", "err", err)
		return &domain.CheckInResult{
			Outcome: domain.OutcomeInvalid,
			Message: "Verification failed. Please try again.",
		}
	}
	return result
}
