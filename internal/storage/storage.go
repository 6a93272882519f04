// Package storage persists analysis results to the sqlite logbook:
// one session per imported file, its flights and batteries, and a
// decimated calibrated track used for profile rendering.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const maxTrackBatchSize = 500

// Store handles logbook database operations. Connections are opened
// lazily: the write connection initializes the schema, the read
// connection opens the file read-only.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a logbook store for the given database path.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession records one imported file and returns its session ID.
func (s *Store) CreateSession(ctx context.Context, sourceFile string, rows int64) (sessionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, sourceFile, rows)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// StoreSummary saves a session's flights and batteries in one
// transaction.
func (s *Store) StoreSummary(ctx context.Context, sessionID int64, flights []FlightRecord, batteries []BatteryRecord) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	for _, f := range flights {
		if _, err = tx.ExecContext(ctx, insertFlightSQL,
			sessionID, f.Ordinal, f.PeakAltitude, f.StartedAt.UTC(), f.EndedAt.UTC(), f.DurationSeconds); err != nil {
			return fmt.Errorf("inserting flight %d: %w", f.Ordinal, err)
		}
	}

	for _, b := range batteries {
		if _, err = tx.ExecContext(ctx, insertBatterySQL,
			sessionID, b.Ordinal, b.TotalDurationSeconds); err != nil {
			return fmt.Errorf("inserting battery %d: %w", b.Ordinal, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// StoreTrack saves a session's calibrated track points in chunked batch
// inserts within a single transaction.
func (s *Store) StoreTrack(ctx context.Context, sessionID int64, points []TrackPoint) (err error) {
	if len(points) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	for chunk := range slices.Chunk(points, maxTrackBatchSize) {
		values := make([]any, 0, len(chunk)*4)

		var sb strings.Builder
		sb.WriteString(insertTrackSQL)

		for i, p := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			values = append(values, sessionID, p.Timestamp.UTC(), p.Altitude, p.Current)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting track points: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Session returns a session by its ID.
func (s *Store) Session(ctx context.Context, id int64) (session *SessionRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var rec SessionRecord
	if err = stmt.QueryRowContext(ctx, id).Scan(&rec.ID, &rec.ImportedAt, &rec.SourceFile, &rec.Rows); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}

	return &rec, nil
}

// Sessions returns all sessions ordered by import time.
func (s *Store) Sessions(ctx context.Context) (sessions []*SessionRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec SessionRecord
		if err = rows.Scan(&rec.ID, &rec.ImportedAt, &rec.SourceFile, &rec.Rows); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, &rec)
	}
	err = rows.Err()
	return
}

// Flights returns a session's flights in detection order.
func (s *Store) Flights(ctx context.Context, sessionID int64) (flights []FlightRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectFlightsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying flights: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var f FlightRecord
		var endedAt sql.NullTime
		if err = rows.Scan(&f.ID, &f.SessionID, &f.Ordinal, &f.PeakAltitude, &f.StartedAt, &endedAt, &f.DurationSeconds); err != nil {
			err = fmt.Errorf("scanning flight: %w", err)
			return
		}
		if endedAt.Valid {
			f.EndedAt = endedAt.Time
		}
		flights = append(flights, f)
	}
	err = rows.Err()
	return
}

// Batteries returns a session's batteries in detection order.
func (s *Store) Batteries(ctx context.Context, sessionID int64) (batteries []BatteryRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectBatteriesSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying batteries: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var b BatteryRecord
		if err = rows.Scan(&b.ID, &b.SessionID, &b.Ordinal, &b.TotalDurationSeconds); err != nil {
			err = fmt.Errorf("scanning battery: %w", err)
			return
		}
		batteries = append(batteries, b)
	}
	err = rows.Err()
	return
}

// Track returns a session's calibrated track in time order.
func (s *Store) Track(ctx context.Context, sessionID int64) (points []TrackPoint, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectTrackSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying track: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var p TrackPoint
		if err = rows.Scan(&p.SessionID, &p.Timestamp, &p.Altitude, &p.Current); err != nil {
			err = fmt.Errorf("scanning track point: %w", err)
			return
		}
		points = append(points, p)
	}
	err = rows.Err()
	return
}

// Close releases both database connections. Safe to call multiple
// times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
