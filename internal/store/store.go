package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rainwise/rainharvest/internal/engine"
)

// Store handles persistent storage using SQLite.
type Store struct {
	db *sql.DB
}

// Site is a saved property plus the location its provider data is
// fetched for.
type Site struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
	Region    string                `json:"region"`
	Params    engine.SiteParameters `json:"params"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id,omitempty"`
	Region    string    `json:"region"`
	Verdict   string    `json:"verdict"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore creates a new store and initializes the database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		region TEXT DEFAULT 'us-standard',
		params TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		site_id TEXT,
		region TEXT NOT NULL,
		verdict TEXT NOT NULL,
		score REAL NOT NULL,
		report TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (site_id) REFERENCES sites(id)
	);

	CREATE TABLE IF NOT EXISTS rainfall_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		series TEXT NOT NULL,
		source TEXT NOT NULL,
		confidence TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(latitude, longitude)
	);

	CREATE TABLE IF NOT EXISTS soil_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		soil_type TEXT NOT NULL,
		source TEXT NOT NULL,
		confidence TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(latitude, longitude)
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON reports(site_id);
	CREATE INDEX IF NOT EXISTS idx_rainfall_cache_loc ON rainfall_cache(latitude, longitude);
	CREATE INDEX IF NOT EXISTS idx_soil_cache_loc ON soil_cache(latitude, longitude);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSite saves or updates a site, assigning an ID when missing.
func (s *Store) SaveSite(site *Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	paramsJSON, _ := json.Marshal(site.Params)

	query := `INSERT OR REPLACE INTO sites
		(id, name, latitude, longitude, region, params, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, site.ID, site.Name, site.Latitude, site.Longitude,
		site.Region, string(paramsJSON), time.Now())
	return err
}

// GetSite retrieves a site by ID.
func (s *Store) GetSite(id string) (*Site, error) {
	query := `SELECT id, name, latitude, longitude, region, params, created_at, updated_at
		FROM sites WHERE id = ?`

	var site Site
	var paramsJSON string
	err := s.db.QueryRow(query, id).Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude,
		&site.Region, &paramsJSON, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(paramsJSON), &site.Params); err != nil {
		return nil, fmt.Errorf("decoding site params: %w", err)
	}
	return &site, nil
}

// ListSites retrieves all saved sites, newest first.
func (s *Store) ListSites() ([]*Site, error) {
	query := `SELECT id, name, latitude, longitude, region, params, created_at, updated_at
		FROM sites ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []*Site{}
	for rows.Next() {
		var site Site
		var paramsJSON string
		if err := rows.Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude,
			&site.Region, &paramsJSON, &site.CreatedAt, &site.UpdatedAt); err != nil {
			continue
		}
		json.Unmarshal([]byte(paramsJSON), &site.Params)
		sites = append(sites, &site)
	}
	return sites, rows.Err()
}

// DeleteSite deletes a site by ID.
func (s *Store) DeleteSite(id string) error {
	_, err := s.db.Exec(`DELETE FROM sites WHERE id = ?`, id)
	return err
}

// SaveReport stores an analysis report and returns its assigned ID.
// The report body itself stays immutable; ID and timestamp live only
// in the storage row.
func (s *Store) SaveReport(siteID string, report *engine.AnalysisReport) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	id := uuid.NewString()
	var siteRef sql.NullString
	if siteID != "" {
		siteRef = sql.NullString{String: siteID, Valid: true}
	}

	query := `INSERT INTO reports (id, site_id, region, verdict, score, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query, id, siteRef, report.Region, report.Score.Verdict,
		report.Score.Total, string(reportJSON), time.Now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetReport retrieves a stored report by ID.
func (s *Store) GetReport(id string) (*engine.AnalysisReport, error) {
	var reportJSON string
	err := s.db.QueryRow(`SELECT report FROM reports WHERE id = ?`, id).Scan(&reportJSON)
	if err != nil {
		return nil, err
	}

	var report engine.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}

// ListReports retrieves report summaries, newest first.
func (s *Store) ListReports() ([]ReportSummary, error) {
	query := `SELECT id, site_id, region, verdict, score, created_at
		FROM reports ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []ReportSummary{}
	for rows.Next() {
		var sum ReportSummary
		var siteID sql.NullString
		if err := rows.Scan(&sum.ID, &siteID, &sum.Region, &sum.Verdict, &sum.Score, &sum.CreatedAt); err != nil {
			continue
		}
		if siteID.Valid {
			sum.SiteID = siteID.String
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// CacheRainfall stores a fetched rainfall series for a location.
func (s *Store) CacheRainfall(lat, lon float64, series engine.RainfallSeries, src engine.Provenance) error {
	seriesJSON, _ := json.Marshal(series)

	query := `INSERT OR REPLACE INTO rainfall_cache (latitude, longitude, series, source, confidence, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, roundCoord(lat), roundCoord(lon), string(seriesJSON),
		src.Source, src.Confidence, time.Now())
	return err
}

// GetCachedRainfall retrieves a cached rainfall series for a location.
func (s *Store) GetCachedRainfall(lat, lon float64) (engine.RainfallSeries, engine.Provenance, error) {
	var seriesJSON string
	var src engine.Provenance

	query := `SELECT series, source, confidence FROM rainfall_cache WHERE latitude = ? AND longitude = ?`
	err := s.db.QueryRow(query, roundCoord(lat), roundCoord(lon)).Scan(&seriesJSON, &src.Source, &src.Confidence)
	if err != nil {
		return nil, engine.Provenance{}, err
	}

	var series engine.RainfallSeries
	if err := json.Unmarshal([]byte(seriesJSON), &series); err != nil {
		return nil, engine.Provenance{}, fmt.Errorf("decoding cached series: %w", err)
	}
	return series, src, nil
}

// CacheSoil stores a fetched soil classification for a location.
func (s *Store) CacheSoil(lat, lon float64, soilType string, src engine.Provenance) error {
	query := `INSERT OR REPLACE INTO soil_cache (latitude, longitude, soil_type, source, confidence, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, roundCoord(lat), roundCoord(lon), soilType,
		src.Source, src.Confidence, time.Now())
	return err
}

// GetCachedSoil retrieves a cached soil classification for a location.
func (s *Store) GetCachedSoil(lat, lon float64) (string, engine.Provenance, error) {
	var soilType string
	var src engine.Provenance

	query := `SELECT soil_type, source, confidence FROM soil_cache WHERE latitude = ? AND longitude = ?`
	err := s.db.QueryRow(query, roundCoord(lat), roundCoord(lon)).Scan(&soilType, &src.Source, &src.Confidence)
	if err != nil {
		return "", engine.Provenance{}, err
	}
	return soilType, src, nil
}

// roundCoord normalizes coordinates to four decimals (~11 m) so that
// nearby lookups share a cache row.
func roundCoord(v float64) float64 {
	if v >= 0 {
		return float64(int64(v*10000+0.5)) / 10000
	}
	return float64(int64(v*10000-0.5)) / 10000
}
