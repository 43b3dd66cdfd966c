package scanner

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // frame formats
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DirCamera treats a directory as a camera: every new .png or .jpg file dropped
// into it is one frame. Processed files are not read again.
type DirCamera struct {
	Dir  string
	Poll time.Duration
}

func (c DirCamera) Open(_ context.Context) (FrameSource, error) {
	info, err := os.Stat(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("open frame dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open frame dir: %s is not a directory", c.Dir)
	}
	poll := c.Poll
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	return &dirSource{dir: c.Dir, poll: poll, seen: map[string]bool{}}, nil
}

type dirSource struct {
	dir  string
	poll time.Duration
	seen map[string]bool
}

// Ready waits until at least one decodable frame with non-zero bounds is present.
func (s *dirSource) Ready(ctx context.Context) error {
	for {
		names, err := s.pending()
		if err != nil {
			return err
		}
		for _, name := range names {
			if cfg, err := decodeConfig(name); err == nil && cfg.Width > 0 && cfg.Height > 0 {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.poll):
		}
	}
}

func (s *dirSource) Frame(_ context.Context) (image.Image, error) {
	names, err := s.pending()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	name := names[0]
	s.seen[name] = true
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		// unreadable files are skipped like blank frames
		return nil, nil
	}
	return img, nil
}

func (s *dirSource) Close() error { return nil }

func (s *dirSource) pending() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		full := filepath.Join(s.dir, e.Name())
		if !s.seen[full] {
			names = append(names, full)
		}
	}
	sort.Strings(names)
	return names, nil
}

func decodeConfig(name string) (image.Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
