package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nikbrunner/bmdir/internal/culler"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/urfave/cli/v3"
)

type cullReport struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Cull checks every URL and reports the ones that are not healthy.
func (r *Runner) Cull(ctx context.Context, cmd *cli.Command) error {
	store, err := r.load()
	if err != nil {
		return err
	}

	cfg := r.config.Cull
	r.logger.Info("checking bookmarks", "count", store.Len(), "concurrency", cfg.Concurrency)

	results := culler.CheckURLs(ctx, store.Bookmarks, culler.Options{
		Concurrency:    cfg.Concurrency,
		Timeout:        cfg.Timeout.Duration,
		RateLimit:      cfg.RateLimit,
		ExcludeDomains: cfg.ExcludeDomains,
		Client:         r.cullClient(),
		OnProgress: func(completed, total int) {
			r.logger.Debug("checked", "completed", completed, "total", total)
		},
	})

	var report []cullReport
	for _, res := range results {
		if res.Status == culler.Healthy {
			continue
		}
		report = append(report, cullReport{
			ID:         res.Bookmark.ID,
			Name:       res.Bookmark.Name,
			URL:        res.Bookmark.URL,
			Status:     res.Status.String(),
			StatusCode: res.StatusCode,
			Error:      res.Error,
		})
	}

	dead := culler.DeadResults(results)
	if cmd.Bool("remove") && len(dead) > 0 {
		err := r.mutate("cull", func(store *model.Store) (bool, error) {
			removed := false
			for _, res := range dead {
				removed = store.Remove(res.Bookmark.ID) || removed
			}
			return removed, nil
		})
		if err != nil {
			return err
		}
		r.logger.Info("removed dead bookmarks", "count", len(dead))
	}

	if cmd.Bool("json") {
		if report == nil {
			report = []cullReport{}
		}
		return r.writeJSON(report, true)
	}

	if len(report) == 0 {
		return r.writePlain("All %d bookmarks are healthy\n", len(results))
	}
	for _, row := range report {
		detail := row.Error
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", row.StatusCode)
		}
		r.writePlain("%-11s %s %s (%s)\n", row.Status, nameStyle.Render(row.Name), urlStyle.Render(row.URL), detail)
	}
	return r.writePlain("%d dead, %d unreachable of %d\n", len(dead), len(report)-len(dead), len(results))
}

// cullClient returns nil for the default client so the checker can apply
// its own timeout and redirect policy.
func (r *Runner) cullClient() *http.Client {
	if r.httpClient == http.DefaultClient {
		return nil
	}
	return r.httpClient
}
