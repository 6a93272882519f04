package storage

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    source_file TEXT      NOT NULL,
    row_count   INTEGER   NOT NULL
);

CREATE TABLE IF NOT EXISTS flights (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id       INTEGER NOT NULL REFERENCES sessions (id),
    ordinal          INTEGER NOT NULL,
    peak_altitude    REAL    NOT NULL,
    started_at       TIMESTAMP NOT NULL,
    ended_at         TIMESTAMP,
    duration_seconds REAL    NOT NULL
);

CREATE TABLE IF NOT EXISTS batteries (
    id                     INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id             INTEGER NOT NULL REFERENCES sessions (id),
    ordinal                INTEGER NOT NULL,
    total_duration_seconds REAL    NOT NULL
);

CREATE TABLE IF NOT EXISTS track (
    session_id INTEGER   NOT NULL REFERENCES sessions (id),
    timestamp  TIMESTAMP NOT NULL,
    altitude   REAL      NOT NULL,
    current_draw REAL     NOT NULL
);`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_flights_session ON flights (session_id);
CREATE INDEX IF NOT EXISTS idx_batteries_session ON batteries (session_id);
CREATE INDEX IF NOT EXISTS idx_track_session ON track (session_id, timestamp);`

	insertSessionSQL = `
INSERT INTO sessions (imported_at,
                      source_file,
                      row_count)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	insertFlightSQL = `
INSERT INTO flights (session_id,
                     ordinal,
                     peak_altitude,
                     started_at,
                     ended_at,
                     duration_seconds)
VALUES (?, ?, ?, ?, ?, ?)`

	insertBatterySQL = `
INSERT INTO batteries (session_id,
                       ordinal,
                       total_duration_seconds)
VALUES (?, ?, ?)`

	insertTrackSQL = `
    INSERT INTO track (
        session_id,
        timestamp,
        altitude,
        current_draw
    )
    VALUES `

	selectSessionSQL = `
SELECT
    id,
    imported_at,
    source_file,
    row_count
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    imported_at,
    source_file,
    row_count
FROM sessions
ORDER BY imported_at`

	selectFlightsSQL = `
SELECT
    id,
    session_id,
    ordinal,
    peak_altitude,
    started_at,
    ended_at,
    duration_seconds
FROM flights
WHERE
    session_id = ?
ORDER BY ordinal`

	selectBatteriesSQL = `
SELECT
    id,
    session_id,
    ordinal,
    total_duration_seconds
FROM batteries
WHERE
    session_id = ?
ORDER BY ordinal`

	selectTrackSQL = `
SELECT
    session_id,
    timestamp,
    altitude,
    current_draw
FROM track
WHERE
    session_id = ?
ORDER BY timestamp`
)
