package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rainwise/rainharvest/internal/engine"
	"github.com/rainwise/rainharvest/internal/groundwater"
	"github.com/rainwise/rainharvest/internal/region"
	"github.com/rainwise/rainharvest/internal/store"
)

// RainfallProvider resolves a monthly rainfall series for a point,
// degrading to a fallback source instead of failing.
type RainfallProvider interface {
	Resolve(ctx context.Context, lat, lon float64) (engine.RainfallSeries, engine.Provenance)
}

// SoilProvider resolves a soil texture class for a point.
type SoilProvider interface {
	Resolve(ctx context.Context, lat, lon float64) (string, engine.Provenance)
}

type Server struct {
	store    *store.Store
	rainfall RainfallProvider
	soil     SoilProvider
}

func NewServer(store *store.Store, rainfall RainfallProvider, soil SoilProvider) *Server {
	return &Server{
		store:    store,
		rainfall: rainfall,
		soil:     soil,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/regions", s.handleRegions)
		r.Get("/sites", s.handleListSites)
		r.Post("/sites", s.handleCreateSite)
		r.Get("/sites/{id}", s.handleGetSite)
		r.Put("/sites/{id}", s.handleUpdateSite)
		r.Delete("/sites/{id}", s.handleDeleteSite)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Get("/reports/{id}/export", s.handleExportReport)
		r.Get("/rainfall", s.handleGetRainfall)
		r.Get("/soil", s.handleGetSoil)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": "1.0.0",
		"regions": region.Names(),
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions := []map[string]interface{}{}
	for _, name := range region.Names() {
		cfg, err := region.Get(name)
		if err != nil {
			continue
		}
		regions = append(regions, map[string]interface{}{
			"name":          cfg.Name,
			"currency":      cfg.Currency,
			"tariff_per_m3": cfg.TariffPerM3,
		})
	}
	respondJSON(w, http.StatusOK, regions)
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListSites()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sites)
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var site store.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	site.ID = ""

	if err := site.Params.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SaveSite(&site); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, site)
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	site, err := s.store.GetSite(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "site not found")
		return
	}
	respondJSON(w, http.StatusOK, site)
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetSite(id); err != nil {
		respondError(w, http.StatusNotFound, "site not found")
		return
	}

	var site store.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	site.ID = id

	if err := site.Params.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SaveSite(&site); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, site)
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteSite(id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted", "id": id})
}

// AnalyzeRequest runs an analysis for a saved site or for inline
// parameters. An explicit rainfall series bypasses the providers.
type AnalyzeRequest struct {
	Region    string                 `json:"region"`
	SiteID    string                 `json:"site_id,omitempty"`
	Site      *engine.SiteParameters `json:"site,omitempty"`
	Latitude  *float64               `json:"latitude,omitempty"`
	Longitude *float64               `json:"longitude,omitempty"`
	Rainfall  engine.RainfallSeries  `json:"rainfall_mm,omitempty"`
	Save      bool                   `json:"save"`
}

type AnalyzeResponse struct {
	ID     string                 `json:"id,omitempty"`
	Report *engine.AnalysisReport `json:"report"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, lat, lon, regionName, err := s.resolveSite(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := region.Get(regionName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := engine.AnalysisInput{Site: params}

	if len(req.Rainfall) > 0 {
		input.Rainfall = req.Rainfall
		input.RainfallSrc = engine.Provenance{Source: "User Supplied", Confidence: engine.ConfidenceMedium}
	} else if lat != nil && lon != nil {
		input.Rainfall, input.RainfallSrc = s.resolveRainfall(ctx, *lat, *lon)
	} else {
		respondError(w, http.StatusBadRequest, "rainfall series or site coordinates required")
		return
	}

	if params.SoilType != "" {
		input.SoilSrc = engine.Provenance{Source: "User Supplied", Confidence: engine.ConfidenceMedium}
	} else if lat != nil && lon != nil {
		input.Site.SoilType, input.SoilSrc = s.resolveSoil(ctx, *lat, *lon)
	} else {
		input.SoilSrc = engine.Provenance{Source: "Regional Default", Confidence: engine.ConfidenceVeryLow}
	}

	if lat != nil && lon != nil {
		profile := groundwater.Lookup(*lat, *lon)
		input.Groundwater = &profile
	}

	report, err := engine.Analyze(cfg, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := AnalyzeResponse{Report: report}
	if req.Save {
		id, err := s.store.SaveReport(req.SiteID, report)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.ID = id
	}
	respondJSON(w, http.StatusOK, resp)
}

// resolveSite merges a saved site with inline overrides.
func (s *Server) resolveSite(req AnalyzeRequest) (engine.SiteParameters, *float64, *float64, string, error) {
	regionName := req.Region
	lat, lon := req.Latitude, req.Longitude

	var params engine.SiteParameters
	switch {
	case req.SiteID != "":
		site, err := s.store.GetSite(req.SiteID)
		if err != nil {
			return params, nil, nil, "", fmt.Errorf("site %q not found", req.SiteID)
		}
		params = site.Params
		if lat == nil {
			lat, lon = &site.Latitude, &site.Longitude
		}
		if regionName == "" {
			regionName = site.Region
		}
	case req.Site != nil:
		params = *req.Site
	default:
		return params, nil, nil, "", fmt.Errorf("site_id or site parameters required")
	}

	if regionName == "" {
		regionName = "us-standard"
	}
	return params, lat, lon, regionName, nil
}

// resolveRainfall consults the cache before the provider so repeated
// analyses of one location stay offline.
func (s *Server) resolveRainfall(ctx context.Context, lat, lon float64) (engine.RainfallSeries, engine.Provenance) {
	if series, src, err := s.store.GetCachedRainfall(lat, lon); err == nil {
		return series, src
	}
	series, src := s.rainfall.Resolve(ctx, lat, lon)
	s.store.CacheRainfall(lat, lon, series, src)
	return series, src
}

func (s *Server) resolveSoil(ctx context.Context, lat, lon float64) (string, engine.Provenance) {
	if soilType, src, err := s.store.GetCachedSoil(lat, lon); err == nil {
		return soilType, src
	}
	soilType, src := s.soil.Resolve(ctx, lat, lon)
	s.store.CacheSoil(lat, lon, soilType, src)
	return soilType, src
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListReports()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetReport(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.store.GetReport(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+id+".csv"))
	fmt.Fprintln(w, "key,value")
	for _, entry := range report.Flatten() {
		fmt.Fprintf(w, "%s,%s\n", entry.Key, entry.Value)
	}
}

func (s *Server) handleGetRainfall(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, src := s.resolveRainfall(r.Context(), lat, lon)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"monthly_mm": series,
		"annual_mm":  series.AnnualMM(),
		"provenance": src,
	})
}

func (s *Server) handleGetSoil(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	soilType, src := s.resolveSoil(r.Context(), lat, lon)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"soil_type":   soilType,
		"provenance":  src,
		"groundwater": groundwater.Lookup(lat, lon),
	})
}

func coordParams(r *http.Request) (float64, float64, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lon parameter")
	}
	return lat, lon, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
