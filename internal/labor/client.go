package labor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const upstreamTimeout = 10 * time.Second

// checkResp returns an error if the status is not 2xx. On error it includes
// the upstream body for debugging.
func checkResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return fmt.Errorf("%s %s returned %d: %s", service, path, resp.StatusCode, string(body))
}

// ---------------------------------------------------------------------------
// BLSClient: Bureau of Labor Statistics public API v2 (OEWS series)
// ---------------------------------------------------------------------------

// BLSClient calls the BLS time series API over HTTP.
type BLSClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewBLSClient(baseURL, apiKey string) *BLSClient {
	return &BLSClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: upstreamTimeout},
	}
}

// OEWS data types used in series ids.
const (
	blsEmployment = "01"
	blsAnnualMean = "04"
)

// oewsSeries builds the national, cross-industry OEWS series id for an
// occupation code such as "15-2051".
func oewsSeries(soc, dataType string) string {
	return "OEUN" + "0000000" + "000000" + strings.ReplaceAll(soc, "-", "") + dataType
}

// Latest returns the most recent value and its year for an OEWS series.
func (c *BLSClient) Latest(ctx context.Context, soc, dataType string) (float64, int, error) {
	series := oewsSeries(soc, dataType)
	body, _ := json.Marshal(map[string]interface{}{
		"seriesid":        []string{series},
		"registrationkey": c.apiKey,
		"latest":          true,
	})

	const path = "/timeseries/data/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("bls %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "bls", path); err != nil {
		return 0, 0, err
	}

	var result struct {
		Status  string   `json:"status"`
		Message []string `json:"message"`
		Results struct {
			Series []struct {
				SeriesID string `json:"seriesID"`
				Data     []struct {
					Year  string `json:"year"`
					Value string `json:"value"`
				} `json:"data"`
			} `json:"series"`
		} `json:"Results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("bls %s: decode: %w", path, err)
	}
	if result.Status != "REQUEST_SUCCEEDED" {
		return 0, 0, fmt.Errorf("bls %s: %s %v", path, result.Status, result.Message)
	}
	if len(result.Results.Series) == 0 || len(result.Results.Series[0].Data) == 0 {
		return 0, 0, fmt.Errorf("bls %s: no data for series %s", path, series)
	}

	d := result.Results.Series[0].Data[0]
	v, err := strconv.ParseFloat(strings.ReplaceAll(d.Value, ",", ""), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bls %s: bad value %q: %w", path, d.Value, err)
	}
	year, _ := strconv.Atoi(d.Year)
	return v, year, nil
}

// ---------------------------------------------------------------------------
// ONetClient: O*NET Web Services (occupation search and skills)
// ---------------------------------------------------------------------------

// ONetClient calls O*NET Web Services over HTTP.
type ONetClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewONetClient(baseURL, apiKey string) *ONetClient {
	return &ONetClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: upstreamTimeout},
	}
}

// Search calls GET /online/search.
func (c *ONetClient) Search(ctx context.Context, keyword string) ([]Occupation, error) {
	var result struct {
		Occupation []Occupation `json:"occupation"`
	}
	if err := c.get(ctx, "/online/search", url.Values{"keyword": {keyword}, "end": {"20"}}, &result); err != nil {
		return nil, err
	}
	return result.Occupation, nil
}

// Skills calls GET /online/occupations/{code}/summary/skills.
func (c *ONetClient) Skills(ctx context.Context, code string) ([]OccupationSkill, error) {
	var result struct {
		Element []OccupationSkill `json:"element"`
	}
	path := "/online/occupations/" + url.PathEscape(code) + "/summary/skills"
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Element, nil
}

func (c *ONetClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("onet %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "onet", path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("onet %s: decode: %w", path, err)
	}
	return nil
}
