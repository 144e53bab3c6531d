package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

// HTTPSource downloads the listings CSV from a URL
type HTTPSource struct {
	url      string
	attempts int
	client   *http.Client
	logger   *utils.Logger
}

// NewHTTPSource creates a new HTTPSource. attempts of 1 disables retries.
func NewHTTPSource(url string, timeout time.Duration, attempts int, logger *utils.Logger) *HTTPSource {
	return &HTTPSource{
		url:      url,
		attempts: attempts,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (s *HTTPSource) Name() string { return s.url }

// Load fetches and parses the dataset
func (s *HTTPSource) Load(ctx context.Context) ([]*models.Listing, error) {
	s.logger.Info("Fetching dataset from %s", s.url)

	var body []byte
	err := utils.RetryWithBackoff(ctx, s.attempts, func(ctx context.Context) error {
		b, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}

	listings, err := ParseListingsCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset from %s: %w", s.url, err)
	}
	s.logger.Info("Fetched %d listings (%d bytes)", len(listings), len(body))
	return listings, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// FileSource reads the listings CSV from disk
type FileSource struct {
	path   string
	logger *utils.Logger
}

// NewFileSource creates a new FileSource
func NewFileSource(path string, logger *utils.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Name() string { return s.path }

// Load opens and parses the file
func (s *FileSource) Load(ctx context.Context) ([]*models.Listing, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	listings, err := ParseListingsCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	s.logger.Info("Read %d listings from %s", len(listings), s.path)
	return listings, nil
}
