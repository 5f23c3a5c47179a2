package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Announcement represents a spoken recognition event stored in the database.
type Announcement struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	AnnouncedAt time.Time `json:"announced_at"`
}

// AnnouncementRepository provides access to the announcement log.
type AnnouncementRepository struct {
	db *sql.DB
}

// Announcements returns the announcement repository for this store.
func (s *Store) Announcements() *AnnouncementRepository {
	return &AnnouncementRepository{db: s.db}
}

// Record inserts a new announcement into the log.
func (r *AnnouncementRepository) Record(a *Announcement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AnnouncedAt.IsZero() {
		a.AnnouncedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO announcements (id, label, confidence, announced_at)
		 VALUES (?, ?, ?, ?)`,
		a.ID, a.Label, a.Confidence, a.AnnouncedAt,
	)
	return err
}

// Recent retrieves the most recent announcements, newest first.
func (r *AnnouncementRepository) Recent(limit int) ([]*Announcement, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, label, confidence, announced_at
		 FROM announcements ORDER BY announced_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []*Announcement
	for rows.Next() {
		a := &Announcement{}

		err := rows.Scan(&a.ID, &a.Label, &a.Confidence, &a.AnnouncedAt)
		if err != nil {
			return nil, err
		}

		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

// Prune deletes announcements older than the given cutoff and returns
// the number of rows removed.
func (r *AnnouncementRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM announcements WHERE announced_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
