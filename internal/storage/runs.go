package storage

import "time"

// RunRow is one entry of the run history.
type RunRow struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	Language   string    `json:"language"`
	Outcome    string    `json:"outcome"`
	DurationMS int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
}

// RecordRun appends a run to the history.
func (d *DB) RecordRun(fileName, language, outcome string, started time.Time, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(`
		INSERT INTO _runs (file_name, language, outcome, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		fileName, language, outcome, dur.Milliseconds(), started.UTC(),
	)
	return err
}

// ListRuns returns up to limit runs, newest first.
func (d *DB) ListRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 50
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT id, file_name, language, outcome, duration_ms, started_at
		FROM _runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.FileName, &r.Language, &r.Outcome, &r.DurationMS, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneRuns keeps only the newest keep runs.
func (d *DB) PruneRuns(keep int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(`
		DELETE FROM _runs WHERE id NOT IN (
			SELECT id FROM _runs ORDER BY id DESC LIMIT ?
		)`, keep)
	return err
}
