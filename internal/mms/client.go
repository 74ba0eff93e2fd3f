package mms

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public NEMWEB host that publishes the MMSDM
// monthly archive.
const DefaultBaseURL = "https://nemweb.com.au"

// Client fetches zipped MMS reports from the monthly data archive.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.Logger
}

// NewClient creates an archive client. If baseURL is empty, defaults to
// the public NEMWEB host.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// TableURL builds the published location of one monthly report, e.g.
// .../MMSDM/2023/MMSDM_2023_06/MMSDM_Historical_Data_SQLLoader/DATA/PUBLIC_DVD_GENCONDATA_202306010000.zip
func (c *Client) TableURL(year, month int, table string) string {
	return fmt.Sprintf(
		"%s/Data_Archive/Wholesale_Electricity/MMSDM/%d/MMSDM_%d_%02d/MMSDM_Historical_Data_SQLLoader/DATA/PUBLIC_DVD_%s_%d%02d010000.zip",
		c.BaseURL, year, year, month, table, year, month,
	)
}

// FetchTable downloads and parses one report for a month/year. A 404
// from the archive means the period (or table) was never published and
// surfaces as a NotFoundError; a period the archive cannot contain (an
// impossible month, or a year before the archive opened in July 2009)
// is a NotFoundError without a network round-trip. Network failures and
// other statuses are TransportErrors; unreadable zip or CSV content is
// a ParseError.
func (c *Client) FetchTable(ctx context.Context, year, month int, table string) (*Table, error) {
	if month < 1 || month > 12 || year < 2009 {
		return nil, &NotFoundError{
			Op:       "FetchTable",
			Resource: "period",
			Key:      fmt.Sprintf("%04d-%02d", year, month),
		}
	}

	if cache := GetCache(); cache != nil {
		key := CacheKey(year, month, table)
		if t, found := cache.Get(key); found {
			c.log.Debug("archive cache hit",
				zap.String("table", table),
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Int("rows", len(t.Rows)))
			return t, nil
		}
	}

	u := c.TableURL(year, month, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn("archive request failed",
			zap.String("url", u),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("archive response",
		zap.String("table", table),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{
			Op:       "FetchTable",
			Resource: "table",
			Key:      fmt.Sprintf("%s %04d-%02d", table, year, month),
		}
	default:
		return nil, &TransportError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}

	t, err := parseZippedTable(table, body)
	if err != nil {
		return nil, err
	}

	c.log.Info("archive table fetched",
		zap.String("table", table),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("rows", len(t.Rows)))

	if cache := GetCache(); cache != nil {
		cache.Set(CacheKey(year, month, table), t)
	}
	return t, nil
}

func parseZippedTable(table string, body []byte) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, &ParseError{Table: table, Reason: fmt.Sprintf("bad zip archive: %v", err)}
	}
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &ParseError{Table: table, Reason: fmt.Sprintf("cannot open %s: %v", f.Name, err)}
		}
		defer rc.Close()
		return ParseTable(table, rc)
	}
	return nil, &ParseError{Table: table, Reason: "zip archive contains no CSV member"}
}

// LoadTableFile parses a previously downloaded report from disk, either
// the published .zip or an extracted .CSV. The table name is inferred
// from the file name (PUBLIC_DVD_GENCONDATA_202306010000.zip -> GENCONDATA).
func LoadTableFile(path string) (*Table, error) {
	name := tableNameFromFile(path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return parseZippedTable(name, raw)
	}
	return ParseTable(name, bytes.NewReader(raw))
}

func tableNameFromFile(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimPrefix(name, "PUBLIC_DVD_")
	// strip the trailing _YYYYMM010000 stamp if present
	if i := strings.LastIndex(name, "_"); i > 0 {
		if stamp := name[i+1:]; len(stamp) == 12 && strings.Trim(stamp, "0123456789") == "" {
			name = name[:i]
		}
	}
	return name
}
