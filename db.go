package main

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB to add the catalog methods.
type DB struct {
	*sql.DB
}

func openAndInitDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// SQLite works best with a single connection
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{sqlDB}

	schema := `
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	src_path TEXT NOT NULL,
	size INTEGER NOT NULL,
	sha256 TEXT NOT NULL,
	osint INTEGER NOT NULL DEFAULT 0,
	field_count INTEGER NOT NULL DEFAULT 0,
	osint_count INTEGER NOT NULL DEFAULT 0,
	gps_located INTEGER NOT NULL DEFAULT 0,
	metadata JSON NOT NULL DEFAULT '{}',
	report_path TEXT DEFAULT '',
	thumbnail_path TEXT DEFAULT '',
	extracted_at TEXT NOT NULL
);`
	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, err
	}
	_, _ = sqlDB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_records_sha256 ON records(sha256)`)
	return db, nil
}

func (db *DB) clearRecords() error {
	_, err := db.Exec(`DELETE FROM records`)
	return err
}

// RecordRow is a catalog entry as stored, metadata kept as its JSON text.
type RecordRow struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SrcPath       string `json:"srcPath"`
	Size          int64  `json:"size"`
	SHA256        string `json:"sha256"`
	OSINT         bool   `json:"osint"`
	FieldCount    int64  `json:"fieldCount"`
	OSINTCount    int64  `json:"osintCount"`
	GPSLocated    bool   `json:"gpsLocated"`
	Metadata      string `json:"metadata"`
	ReportPath    string `json:"reportPath,omitempty"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
	ExtractedAt   string `json:"extractedAt"`
}

// upsertRecord inserts a catalog row, replacing any previous row for the
// same content hash. Retries on SQLITE_BUSY with backoff.
func (db *DB) upsertRecord(row RecordRow) (int64, error) {
	osintInt, gpsInt := 0, 0
	if row.OSINT {
		osintInt = 1
	}
	if row.GPSLocated {
		gpsInt = 1
	}

	stmt := `INSERT INTO records (name, src_path, size, sha256, osint, field_count, osint_count, gps_located, metadata, report_path, thumbnail_path, extracted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(sha256) DO UPDATE SET
  name=excluded.name,
  src_path=excluded.src_path,
  size=excluded.size,
  osint=excluded.osint,
  field_count=excluded.field_count,
  osint_count=excluded.osint_count,
  gps_located=excluded.gps_located,
  metadata=excluded.metadata,
  report_path=excluded.report_path,
  thumbnail_path=excluded.thumbnail_path,
  extracted_at=excluded.extracted_at`

	maxRetries := 3
	var err error
	for i := 0; i < maxRetries; i++ {
		_, err = db.Exec(stmt,
			row.Name, row.SrcPath, row.Size, row.SHA256,
			osintInt, row.FieldCount, row.OSINTCount, gpsInt,
			row.Metadata, row.ReportPath, row.ThumbnailPath, row.ExtractedAt,
		)
		if err == nil {
			break
		}
		if errStr := err.Error(); !strings.Contains(errStr, "database is locked") && !strings.Contains(errStr, "SQLITE_BUSY") {
			return 0, err
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	if err != nil {
		return 0, err
	}

	var id int64
	if err := db.QueryRow(`SELECT id FROM records WHERE sha256 = ?`, row.SHA256).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *DB) listRecords(offset, limit int64) ([]RecordRow, error) {
	rows, err := db.Query(`SELECT id, name, src_path, size, sha256, osint, field_count, osint_count, gps_located, metadata, IFNULL(report_path,''), IFNULL(thumbnail_path,''), extracted_at
FROM records ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordRow
	for rows.Next() {
		r, err := scanRecordRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) getRecordByID(id int64) (*RecordRow, error) {
	row := db.QueryRow(`SELECT id, name, src_path, size, sha256, osint, field_count, osint_count, gps_located, metadata, IFNULL(report_path,''), IFNULL(thumbnail_path,''), extracted_at
FROM records WHERE id = ?`, id)
	r, err := scanRecordRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRecordRow(scan func(...interface{}) error) (RecordRow, error) {
	var r RecordRow
	var osintInt, gpsInt int
	err := scan(&r.ID, &r.Name, &r.SrcPath, &r.Size, &r.SHA256,
		&osintInt, &r.FieldCount, &r.OSINTCount, &gpsInt,
		&r.Metadata, &r.ReportPath, &r.ThumbnailPath, &r.ExtractedAt)
	if err != nil {
		return r, err
	}
	r.OSINT = osintInt == 1
	r.GPSLocated = gpsInt == 1
	return r, nil
}
