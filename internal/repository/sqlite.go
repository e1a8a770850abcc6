package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			slug TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			title TEXT NOT NULL,
			icon TEXT NOT NULL,
			color TEXT NOT NULL,
			tone TEXT,
			summary TEXT,
			description TEXT,
			stats TEXT NOT NULL,
			facts TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS time_series (
			position INTEGER NOT NULL,
			period TEXT NOT NULL,
			category TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (period, category)
		);

		CREATE TABLE IF NOT EXISTS economic_impact (
			position INTEGER PRIMARY KEY,
			category TEXT NOT NULL,
			damage REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS event_markers (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			longitude REAL NOT NULL,
			latitude REAL NOT NULL,
			date TEXT,
			magnitude TEXT,
			color TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_event_markers_category ON event_markers(category);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCatalog replaces all reference tables with the contents of cat in a
// single transaction.
func (s *SQLiteDB) SaveCatalog(ctx context.Context, cat *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"categories", "time_series", "economic_impact", "event_markers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, p := range cat.Profiles {
		stats, err := json.Marshal(p.Stats)
		if err != nil {
			return fmt.Errorf("encode stats of %s: %w", p.Category, err)
		}
		facts, err := json.Marshal(p.Facts)
		if err != nil {
			return fmt.Errorf("encode facts of %s: %w", p.Category, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (slug, position, label, title, icon, color, tone, summary, description, stats, facts)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Category.String(), i, p.Label, p.Title, p.Icon, p.Color, p.Tone, p.Summary, p.Description,
			string(stats), string(facts),
		)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", p.Category, err)
		}
	}

	for i, point := range cat.TimeSeries {
		for slug, count := range point.Metrics {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO time_series (position, period, category, count) VALUES (?, ?, ?, ?)`,
				i, point.Period, slug, count,
			)
			if err != nil {
				return fmt.Errorf("insert time series %s/%s: %w", point.Period, slug, err)
			}
		}
	}

	for i, e := range cat.EconomicImpact {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO economic_impact (position, category, damage) VALUES (?, ?, ?)`,
			i, e.Category.String(), e.Damage,
		)
		if err != nil {
			return fmt.Errorf("insert economic impact %s: %w", e.Category, err)
		}
	}

	for i, m := range cat.Markers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event_markers (position, name, category, longitude, latitude, date, magnitude, color)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, m.Name, m.Category.String(), m.Coordinates.Longitude, m.Coordinates.Latitude,
			m.Date, m.Magnitude, m.Color,
		)
		if err != nil {
			return fmt.Errorf("insert marker %q: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListProfiles(ctx context.Context) ([]models.CategoryProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, label, title, icon, color, tone, summary, description, stats, facts
		FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var profiles []models.CategoryProfile
	for rows.Next() {
		var (
			p            models.CategoryProfile
			slug         string
			stats, facts string
		)
		if err := rows.Scan(&slug, &p.Label, &p.Title, &p.Icon, &p.Color, &p.Tone, &p.Summary, &p.Description, &stats, &facts); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if p.Category, err = models.ParseCategory(slug); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of %s: %w", slug, err)
		}
		if err := json.Unmarshal([]byte(facts), &p.Facts); err != nil {
			return nil, fmt.Errorf("decode facts of %s: %w", slug, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListTimeSeries returns the points in their original period order.
func (s *SQLiteDB) ListTimeSeries(ctx context.Context) ([]models.TimeSeriesPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT period, category, count FROM time_series ORDER BY position, category`)
	if err != nil {
		return nil, fmt.Errorf("query time series: %w", err)
	}
	defer rows.Close()

	var points []models.TimeSeriesPoint
	for rows.Next() {
		var (
			period, slug string
			count        int
		)
		if err := rows.Scan(&period, &slug, &count); err != nil {
			return nil, fmt.Errorf("scan time series: %w", err)
		}
		if n := len(points); n == 0 || points[n-1].Period != period {
			points = append(points, models.TimeSeriesPoint{Period: period, Metrics: map[string]int{}})
		}
		points[len(points)-1].Metrics[slug] = count
	}
	return points, rows.Err()
}

func (s *SQLiteDB) ListEconomicImpact(ctx context.Context) ([]models.EconomicImpactEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.category, c.label, e.damage
		FROM economic_impact e LEFT JOIN categories c ON c.slug = e.category
		ORDER BY e.position`)
	if err != nil {
		return nil, fmt.Errorf("query economic impact: %w", err)
	}
	defer rows.Close()

	var entries []models.EconomicImpactEntry
	for rows.Next() {
		var (
			e     models.EconomicImpactEntry
			slug  string
			label sql.NullString
		)
		if err := rows.Scan(&slug, &label, &e.Damage); err != nil {
			return nil, fmt.Errorf("scan economic impact: %w", err)
		}
		if e.Category, err = models.ParseCategory(slug); err != nil {
			return nil, err
		}
		e.Name = label.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteDB) ListMarkers(ctx context.Context, opts Filter) ([]models.EventMarker, error) {
	query := `SELECT name, category, longitude, latitude, date, magnitude, color FROM event_markers`
	var (
		conditions []string
		args       []any
	)
	if opts.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, opts.Category.String())
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY position"
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1 // no limit
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	markers := []models.EventMarker{}
	for rows.Next() {
		var (
			m    models.EventMarker
			slug string
		)
		if err := rows.Scan(&m.Name, &slug, &m.Coordinates.Longitude, &m.Coordinates.Latitude, &m.Date, &m.Magnitude, &m.Color); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		if m.Category, err = models.ParseCategory(slug); err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
