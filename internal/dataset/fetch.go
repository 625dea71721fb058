package dataset

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"movie-insights-go/internal/logger"
)

// Fetch downloads a workbook to dest with exponential-backoff retries,
// for deployments where the master files live on object storage rather
// than local disk. Client errors (4xx) are permanent and not retried.
func Fetch(url, dest string, maxWait time.Duration) error {
	log := logger.New().WithField("component", "dataset.fetch").WithField("url", url)

	client := &http.Client{Timeout: 30 * time.Second}
	op := func() error {
		resp, err := client.Get(url)
		if err != nil {
			log.WithError(err).Warn("fetch attempt failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			log.WithField("http_status", resp.StatusCode).Warn("fetch attempt rejected")
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}

		tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
		if err != nil {
			return backoff.Permanent(err)
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		return os.Rename(tmp.Name(), dest)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait

	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("fetch workbook: %w", err)
	}
	log.WithField("dest", dest).Info("workbook fetched")
	return nil
}
