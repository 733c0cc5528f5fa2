package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ceirr/sample-dashboard/internal/config"
	"github.com/ceirr/sample-dashboard/internal/pkg/httpretry"
)

const sheetsReadOnlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// SheetFetcher downloads the CSV export of a Google Sheet.
type SheetFetcher struct {
	url        string
	httpClient httpretry.HTTPDoer
}

// NewSheetFetcher builds a fetcher for cfg.SheetID. When a service account
// file is configured the requests carry its OAuth token, otherwise the
// sheet must be link-shared.
func NewSheetFetcher(ctx context.Context, cfg config.SourceConfig) (*SheetFetcher, error) {
	base := &http.Client{Timeout: cfg.Timeout()}

	if cfg.GoogleCredentialsFile != "" {
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sheetsReadOnlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials: %w", err)
		}
		base = oauth2.NewClient(ctx, creds.TokenSource)
		base.Timeout = cfg.Timeout()
	}

	return &SheetFetcher{
		url:        cfg.ExportURL(),
		httpClient: httpretry.NewRetryClient(base, cfg.MaxRetries),
	}, nil
}

// URL returns the export URL this fetcher reads.
func (f *SheetFetcher) URL() string { return f.url }

// Fetch downloads and decodes the sheet.
func (f *SheetFetcher) Fetch(ctx context.Context) (*RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	// A sheet that is not shared answers 200 with a sign-in page.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil, fmt.Errorf("%w: export returned HTML, check the sheet's sharing settings", ErrFetch)
	}

	return ParseCSV(resp.Body)
}
