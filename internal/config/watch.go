package config

import (
	"context"
	"os"
	"time"
)

// WatchVenues performs an initial load of the venues file and then polls its
// modification time every interval, calling onUpdate after each successful
// reload. A reload that fails keeps the previous config and is passed to
// onError, if set.
func WatchVenues(ctx context.Context, path string, interval time.Duration, onUpdate func(*VenuesConfig), onError func(error)) error {
	if path == "" {
		path = "configs/venues.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	cfg, err := LoadVenuesConfig(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cfg)
	}

	go pollVenues(ctx, path, interval, info.ModTime(), onUpdate, onError)
	return nil
}

func pollVenues(ctx context.Context, path string, interval time.Duration, lastMod time.Time, onUpdate func(*VenuesConfig), onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil || !info.ModTime().After(lastMod) {
			continue
		}
		lastMod = info.ModTime()

		cfg, err := LoadVenuesConfig(path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		if onUpdate != nil {
			onUpdate(cfg)
		}
	}
}
