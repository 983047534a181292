package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"etfcli/internal/config"
	apperrors "etfcli/internal/errors"
)

// Client retrieves a fund's holdings export from the upstream site.
// The export endpoint only answers requests carrying the session
// cookie set by the fund's Info page, so every fetch warms the
// session up first.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.FetchConfig
	fund       config.FundConfig
	logger     *slog.Logger
}

// NewClient creates a retrieval client for one fund.
func NewClient(cfg config.FetchConfig, fund config.FundConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to create cookie jar", err)
	}

	interval := cfg.RequestInterval
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	return &Client{
		httpClient: &http.Client{Jar: jar},
		limiter:    limiter,
		cfg:        cfg,
		fund:       fund,
		logger:     logger,
	}, nil
}

// infoURL is the session warm-up page for the fund.
func (c *Client) infoURL() string {
	return fmt.Sprintf("%s/ETF/Fund/Info?FundCode=%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.fund.ExportCode)
}

// exportURL is the holdings export endpoint.
func (c *Client) exportURL() string {
	return fmt.Sprintf("%s/ETF/Fund/AssetExcelNPOI?fundCode=%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.fund.ExportCode)
}

// FetchWorkbook downloads the current holdings export and returns the
// workbook bytes. The upstream response is either a bare .xlsx or a
// zip archive wrapping one; zip responses are unwrapped by content
// sniffing, not by trusting the Content-Type header.
func (c *Client) FetchWorkbook(ctx context.Context) ([]byte, error) {
	// Warm up the session: the Info page sets the cookies the export
	// endpoint requires.
	if _, err := c.get(ctx, c.infoURL(), c.cfg.InfoTimeout); err != nil {
		return nil, apperrors.NewRetrievalError("session warm-up request failed", err).
			WithContext("url", c.infoURL())
	}

	body, err := c.get(ctx, c.exportURL(), c.cfg.ExportTimeout)
	if err != nil {
		return nil, apperrors.NewRetrievalError("export download failed", err).
			WithContext("url", c.exportURL())
	}

	c.logger.InfoContext(ctx, "export downloaded",
		slog.String("fund_code", c.fund.Code),
		slog.Int("size_bytes", len(body)))

	return unwrapWorkbook(body)
}

// get performs one rate-limited GET with the browser user agent,
// bounded by the given per-request timeout.
func (c *Client) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

var (
	zipMagic  = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0}
	xlsxInZip = ".xlsx"
)

// unwrapWorkbook returns the workbook bytes from a raw export
// response. An .xlsx is itself a zip archive, so a zip-magic response
// is inspected: if it contains exactly the workbook package entries
// it is returned as-is, otherwise the first .xlsx member is
// extracted.
func unwrapWorkbook(body []byte) ([]byte, error) {
	if len(body) < 4 {
		return nil, apperrors.NewRetrievalError("export response too short to be a workbook", nil).
			WithContext("size_bytes", len(body))
	}

	if bytes.HasPrefix(body, oleMagic) {
		// Legacy .xls container; excelize cannot read it.
		return nil, apperrors.NewRetrievalError("export is a legacy .xls workbook", nil)
	}
	if !bytes.HasPrefix(body, zipMagic) {
		return nil, apperrors.NewRetrievalError("export response is not a workbook or archive", nil).
			WithContext("prefix", fmt.Sprintf("% x", body[:4]))
	}

	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to open export archive", err)
	}

	for _, f := range reader.File {
		if f.Name == "[Content_Types].xml" {
			// The body is the .xlsx itself.
			return body, nil
		}
	}

	for _, f := range reader.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), xlsxInZip) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, apperrors.NewRetrievalError("failed to open archive member", err).
				WithContext("member", f.Name)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, apperrors.NewRetrievalError("failed to extract archive member", err).
				WithContext("member", f.Name)
		}
		return data, nil
	}

	return nil, apperrors.NewRetrievalError("archive contains no workbook", nil).
		WithContext("members", len(reader.File))
}
