package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"airbnb-dashboard/utils"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Capturer renders a page in headless Chrome and saves a full-page PNG
type Capturer struct {
	Width   int64
	Height  int64
	Quality int // 100 writes PNG, lower values JPEG
	Timeout time.Duration
	logger  *utils.Logger
}

// NewCapturer creates a Capturer with a desktop-sized viewport
func NewCapturer(logger *utils.Logger) *Capturer {
	return &Capturer{
		Width:   1280,
		Height:  900,
		Quality: 100,
		Timeout: 90 * time.Second,
		logger:  logger,
	}
}

// newContext creates a fresh chromedp context (one browser, one tab)
func (c *Capturer) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
		chromedp.WindowSize(int(c.Width), int(c.Height)),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Capture loads url, waits for the dashboard to render and writes the screenshot to out
func (c *Capturer) Capture(ctx context.Context, url, out string) error {
	if out == "" {
		return errors.New("snapshot output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	ctx, cancel := c.newContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, c.Timeout)
	defer cancelTimeout()

	c.logger.Info("Capturing %s...", url)
	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(c.Width, c.Height, 1, false).Do(ctx)
		}),
		chromedp.Navigate(url),
		chromedp.WaitVisible("#reviews", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, c.Quality),
	)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", url, err)
	}

	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	c.logger.Info("Snapshot saved to %s (%d bytes)", out, len(buf))
	return nil
}
