package soil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rainwise/rainharvest/internal/engine"
)

const soilGridsAPIBase = "https://rest.isric.org/soilgrids/v2.0/classification/query"

// wrbToSoilType maps WRB reference groups onto the engine's soil
// texture classes. Groups absent here fall through to the climate
// heuristic.
var wrbToSoilType = map[string]string{
	"Arenosols":  "Sandy",
	"Regosols":   "Sandy",
	"Fluvisols":  "Sandy Loam",
	"Leptosols":  "Sandy Loam",
	"Cambisols":  "Loam",
	"Histosols":  "Loam",
	"Luvisols":   "Clay Loam",
	"Solonchaks": "Clay Loam",
	"Solonetz":   "Clay Loam",
	"Vertisols":  "Clay",
	"Gleysols":   "Clay",
}

// Client fetches soil classification from the ISRIC SoilGrids API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a SoilGrids client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    soilGridsAPIBase,
	}
}

type soilGridsResponse struct {
	WRBClassName string `json:"wrb_class_name"`
}

// Classify fetches the most probable WRB reference group for a point
// and maps it to a soil texture class.
func (c *Client) Classify(ctx context.Context, lat, lon float64) (string, engine.Provenance, error) {
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%.4f", lat))
	params.Add("lon", fmt.Sprintf("%.4f", lon))
	params.Add("number_classes", "1")

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return "", engine.Provenance{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", engine.Provenance{}, fmt.Errorf("fetching soil classification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", engine.Provenance{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var gridsResp soilGridsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gridsResp); err != nil {
		return "", engine.Provenance{}, fmt.Errorf("decoding response: %w", err)
	}

	soilType, ok := mapWRBClass(gridsResp.WRBClassName)
	if !ok {
		return "", engine.Provenance{}, fmt.Errorf("unmapped WRB class %q", gridsResp.WRBClassName)
	}
	return soilType, engine.Provenance{Source: "SoilGrids WRB", Confidence: engine.ConfidenceHigh}, nil
}

// mapWRBClass resolves a WRB name, tolerating qualifier suffixes like
// "Luvisols (Chromic)".
func mapWRBClass(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if soilType, ok := wrbToSoilType[trimmed]; ok {
		return soilType, true
	}
	for group, soilType := range wrbToSoilType {
		if strings.HasPrefix(trimmed, group) {
			return soilType, true
		}
	}
	return "", false
}

// ClimateHeuristic estimates a soil texture class from latitude when
// no classification is available. High latitudes trend toward heavy
// glacial tills; the northern tropics toward coarser, weathered soils.
func ClimateHeuristic(lat float64) (string, engine.Provenance) {
	abs := lat
	if abs < 0 {
		abs = -abs
	}

	var soilType string
	switch {
	case abs > 60:
		soilType = "Clay Loam"
	case abs < 23.5 && lat >= 0:
		soilType = "Sandy Loam"
	case abs < 23.5:
		soilType = "Loam"
	default:
		soilType = "Loam"
	}
	return soilType, engine.Provenance{Source: "Climate Heuristic", Confidence: engine.ConfidenceLow}
}

// Resolve fetches the soil class with the documented fallback
// contract: a failed SoilGrids call degrades to the climate heuristic
// instead of failing the analysis.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) (string, engine.Provenance) {
	soilType, src, err := c.Classify(ctx, lat, lon)
	if err != nil {
		return ClimateHeuristic(lat)
	}
	return soilType, src
}
