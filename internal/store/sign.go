package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Sign represents a sign class definition stored in the database.
type Sign struct {
	ID        string
	Label     string
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignRepository provides CRUD operations for signs.
type SignRepository struct {
	db *sql.DB
}

// Signs returns the sign repository for this store.
func (s *Store) Signs() *SignRepository {
	return &SignRepository{db: s.db}
}

// Create inserts a new sign into the database.
func (r *SignRepository) Create(sign *Sign) error {
	now := time.Now()
	sign.CreatedAt = now
	sign.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO signs (id, label, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sign.ID, sign.Label, sign.Samples, sign.CreatedAt, sign.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a sign by its ID.
func (r *SignRepository) GetByID(id string) (*Sign, error) {
	sign := &Sign{}

	err := r.db.QueryRow(
		`SELECT id, label, samples, created_at, updated_at
		 FROM signs WHERE id = ?`,
		id,
	).Scan(&sign.ID, &sign.Label, &sign.Samples, &sign.CreatedAt, &sign.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sign, nil
}

// GetByLabel retrieves a sign by its label.
func (r *SignRepository) GetByLabel(label string) (*Sign, error) {
	sign := &Sign{}

	err := r.db.QueryRow(
		`SELECT id, label, samples, created_at, updated_at
		 FROM signs WHERE label = ?`,
		label,
	).Scan(&sign.ID, &sign.Label, &sign.Samples, &sign.CreatedAt, &sign.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sign, nil
}

// List retrieves all signs from the database.
func (r *SignRepository) List() ([]*Sign, error) {
	rows, err := r.db.Query(
		`SELECT id, label, samples, created_at, updated_at
		 FROM signs ORDER BY label`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signs []*Sign
	for rows.Next() {
		sign := &Sign{}

		err := rows.Scan(&sign.ID, &sign.Label, &sign.Samples, &sign.CreatedAt, &sign.UpdatedAt)
		if err != nil {
			return nil, err
		}

		signs = append(signs, sign)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signs, nil
}

// Update updates an existing sign in the database.
func (r *SignRepository) Update(sign *Sign) error {
	sign.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE signs SET label = ?, samples = ?, updated_at = ? WHERE id = ?`,
		sign.Label, sign.Samples, sign.UpdatedAt, sign.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a sign from the database by its ID.
func (r *SignRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM signs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
