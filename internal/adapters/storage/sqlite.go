package storage

// sqlite.go — catálogo de venues en SQLite.
//
// Es solo una fuente de entrada alternativa al JSON: el historial de
// oportunidades vive en memoria y nunca se escribe aquí.
//   - `venues`: una fila por venue (UPSERT por id). El rowid conserva el orden
//     de registro, que es el orden en que se cargan.
//   - `active = 0` deja el venue en el catálogo pero el scanner lo ignora.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alejandrodnm/geoarb/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS venues (
    id             TEXT PRIMARY KEY,
    name           TEXT    NOT NULL DEFAULT '',
    city           TEXT    NOT NULL DEFAULT '',
    lat            REAL    NOT NULL,
    lon            REAL    NOT NULL,
    category       TEXT    NOT NULL,
    fee_percent    REAL    NOT NULL DEFAULT 0.1,
    min_profit_bps REAL    NOT NULL DEFAULT 5,
    active         INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_venues_category ON venues(category);
`

// SQLiteStorage implementa ports.VenueSource usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer; además mantiene vivo ":memory:"
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveVenues hace upsert de los venues en una sola transacción.
// Un venue que ya existe conserva su posición en el catálogo.
func (s *SQLiteStorage) SaveVenues(ctx context.Context, venues []domain.Venue) error {
	if len(venues) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveVenues: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO venues
			(id, name, city, lat, lon, category, fee_percent, min_profit_bps, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name           = excluded.name,
			city           = excluded.city,
			lat            = excluded.lat,
			lon            = excluded.lon,
			category       = excluded.category,
			fee_percent    = excluded.fee_percent,
			min_profit_bps = excluded.min_profit_bps,
			active         = excluded.active
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveVenues: prepare: %w", err)
	}
	defer stmt.Close()

	for _, v := range venues {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("storage.SaveVenues: %w", err)
		}
		active := 0
		if v.Active {
			active = 1
		}
		if _, err := stmt.ExecContext(ctx,
			v.ID,
			v.Name,
			v.City,
			v.Latitude,
			v.Longitude,
			strings.ToLower(v.Category.String()),
			v.FeePercent,
			v.MinProfitBps,
			active,
		); err != nil {
			return fmt.Errorf("storage.SaveVenues: upsert %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveVenues: commit: %w", err)
	}
	return nil
}

// LoadVenues devuelve todo el catálogo en orden de inserción.
// Las filas que no pasan domain.Venue.Validate abortan la carga.
func (s *SQLiteStorage) LoadVenues(ctx context.Context) ([]domain.Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, city, lat, lon, category, fee_percent, min_profit_bps, active
		FROM venues
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadVenues: query: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		var catStr string
		var active int

		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.City,
			&v.Latitude,
			&v.Longitude,
			&catStr,
			&v.FeePercent,
			&v.MinProfitBps,
			&active,
		); err != nil {
			return nil, fmt.Errorf("storage.LoadVenues: scan row: %w", err)
		}

		v.Category, err = domain.ParseCategory(catStr)
		if err != nil {
			return nil, fmt.Errorf("storage.LoadVenues: venue %s: %w", v.ID, err)
		}
		v.Active = active == 1
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("storage.LoadVenues: %w", err)
		}
		venues = append(venues, v)
	}

	return venues, rows.Err()
}

// SetActive activa o desactiva un venue. Devuelve false si el id no existe.
func (s *SQLiteStorage) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	flag := 0
	if active {
		flag = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE venues SET active = ? WHERE id = ?`, flag, id)
	if err != nil {
		return false, fmt.Errorf("storage.SetActive: %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage.SetActive: rows affected: %w", err)
	}
	return n > 0, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
