package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sample represents a recorded landmark sample stored in the database.
// Features holds the flattened landmark vector for one captured frame.
type Sample struct {
	ID          int64     `json:"id"`
	SignID      string    `json:"sign_id"`
	SampleIndex int       `json:"sample_index"`
	Features    []float64 `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
}

// SampleRepository provides CRUD operations for sign samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts multiple samples for a sign in a single transaction.
// It also updates the sample count on the sign.
func (r *SampleRepository) Create(signID string, samples [][]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO sign_samples (sign_id, sample_index, features) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, features := range samples {
		data, err := json.Marshal(features)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(signID, i, string(data)); err != nil {
			return err
		}
	}

	// Update sample count on the sign
	_, err = tx.Exec(`UPDATE signs SET samples = ?, updated_at = ? WHERE id = ?`,
		len(samples), time.Now(), signID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetBySignID retrieves all samples for a given sign.
func (r *SampleRepository) GetBySignID(signID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, sign_id, sample_index, features, created_at
		 FROM sign_samples
		 WHERE sign_id = ?
		 ORDER BY sample_index`,
		signID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var data string
		if err := rows.Scan(&s.ID, &s.SignID, &s.SampleIndex, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &s.Features); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// DeleteBySignID removes all samples for a given sign.
func (r *SampleRepository) DeleteBySignID(signID string) error {
	_, err := r.db.Exec(`DELETE FROM sign_samples WHERE sign_id = ?`, signID)
	return err
}
