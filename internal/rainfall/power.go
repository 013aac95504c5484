package rainfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rainwise/rainharvest/internal/engine"
)

const (
	powerAPIBase = "https://power.larc.nasa.gov/api/temporal/monthly/point"
	// PRECTOTCORR is bias-corrected precipitation, reported as mm/day.
	powerParameter = "PRECTOTCORR"
	// Years of history averaged into one representative series.
	historyYears = 5
	// POWER marks missing observations with this fill value.
	powerFillValue = -999
)

var ErrNoObservations = errors.New("no usable rainfall observations in response")

// daysInMonth converts POWER's mm/day averages into monthly totals.
var daysInMonth = [engine.MonthsPerYear]float64{31, 28.25, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Client fetches monthly rainfall from the NASA POWER point API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a NASA POWER client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    powerAPIBase,
	}
}

// powerResponse is the subset of the POWER payload we consume. The
// parameter map is keyed YYYYMM; month 13 carries the annual total.
type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// MonthlySeries fetches the last complete years of monthly rainfall
// for a point and averages them into a single representative series.
func (c *Client) MonthlySeries(ctx context.Context, lat, lon float64) (engine.RainfallSeries, engine.Provenance, error) {
	endYear := time.Now().Year() - 1
	startYear := endYear - historyYears + 1

	params := url.Values{}
	params.Add("parameters", powerParameter)
	params.Add("community", "ag")
	params.Add("latitude", fmt.Sprintf("%.4f", lat))
	params.Add("longitude", fmt.Sprintf("%.4f", lon))
	params.Add("start", fmt.Sprintf("%d", startYear))
	params.Add("end", fmt.Sprintf("%d", endYear))
	params.Add("format", "JSON")

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, engine.Provenance{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, engine.Provenance{}, fmt.Errorf("fetching rainfall: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, engine.Provenance{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var powerResp powerResponse
	if err := json.NewDecoder(resp.Body).Decode(&powerResp); err != nil {
		return nil, engine.Provenance{}, fmt.Errorf("decoding response: %w", err)
	}

	series, err := averageObservations(powerResp.Properties.Parameter[powerParameter])
	if err != nil {
		return nil, engine.Provenance{}, err
	}
	return series, engine.Provenance{Source: "NASA POWER", Confidence: engine.ConfidenceHigh}, nil
}

// averageObservations folds YYYYMM keyed mm/day observations into one
// averaged monthly-total series. Fill values and the synthetic month
// 13 annual entry are skipped.
func averageObservations(observations map[string]float64) (engine.RainfallSeries, error) {
	sums := make([]float64, engine.MonthsPerYear)
	counts := make([]int, engine.MonthsPerYear)

	for key, mmPerDay := range observations {
		if len(key) != 6 || mmPerDay <= powerFillValue {
			continue
		}
		var year, month int
		if _, err := fmt.Sscanf(key, "%4d%2d", &year, &month); err != nil {
			continue
		}
		if month < 1 || month > engine.MonthsPerYear {
			continue
		}
		sums[month-1] += mmPerDay * daysInMonth[month-1]
		counts[month-1]++
	}

	series := make(engine.RainfallSeries, engine.MonthsPerYear)
	for m := range series {
		if counts[m] == 0 {
			return nil, fmt.Errorf("%w: %s missing", ErrNoObservations, engine.MonthNames[m])
		}
		series[m] = sums[m] / float64(counts[m])
	}
	return series, nil
}

// Resolve fetches rainfall with the documented fallback contract: a
// failed POWER call degrades to the latitude-band climatology instead
// of failing the analysis.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) (engine.RainfallSeries, engine.Provenance) {
	series, src, err := c.MonthlySeries(ctx, lat, lon)
	if err != nil {
		return Climatology(lat)
	}
	return series, src
}
