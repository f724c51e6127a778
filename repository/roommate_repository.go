// repository/roommate_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/roomledger/roomledger-backend/models"
)

// RoommateRepository handles database operations for roommates
type RoommateRepository struct {
	db *sql.DB
}

// NewRoommateRepository creates a new RoommateRepository
func NewRoommateRepository(db *sql.DB) *RoommateRepository {
	return &RoommateRepository{db: db}
}

// Create stores a new roommate
func (r *RoommateRepository) Create(roommate *models.Roommate) error {
	_, err := r.db.Exec(
		`INSERT INTO roommates (id, name, email, phone, balance, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		roommate.ID, roommate.Name, roommate.Email, roommate.Phone,
		roommate.Balance, roommate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert roommate: %v", err)
	}
	return nil
}

// FindByID retrieves a roommate by id, returning nil when none exists
func (r *RoommateRepository) FindByID(id string) (*models.Roommate, error) {
	var roommate models.Roommate
	err := r.db.QueryRow(
		`SELECT id, name, email, phone, balance, created_at
         FROM roommates WHERE id = $1`,
		id,
	).Scan(&roommate.ID, &roommate.Name, &roommate.Email, &roommate.Phone,
		&roommate.Balance, &roommate.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roommate: %v", err)
	}
	return &roommate, nil
}

// FindByIDs retrieves all roommates matching the given ids. Duplicate or
// unknown ids simply yield fewer rows than requested.
func (r *RoommateRepository) FindByIDs(ids []string) ([]*models.Roommate, error) {
	rows, err := r.db.Query(
		`SELECT id, name, email, phone, balance, created_at
         FROM roommates WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get roommates: %v", err)
	}
	defer rows.Close()

	var roommates []*models.Roommate
	for rows.Next() {
		var roommate models.Roommate
		if err := rows.Scan(&roommate.ID, &roommate.Name, &roommate.Email,
			&roommate.Phone, &roommate.Balance, &roommate.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roommate: %v", err)
		}
		roommates = append(roommates, &roommate)
	}
	return roommates, rows.Err()
}

// List retrieves all roommates ordered by name
func (r *RoommateRepository) List() ([]*models.Roommate, error) {
	rows, err := r.db.Query(
		`SELECT id, name, email, phone, balance, created_at
         FROM roommates ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roommates: %v", err)
	}
	defer rows.Close()

	var roommates []*models.Roommate
	for rows.Next() {
		var roommate models.Roommate
		if err := rows.Scan(&roommate.ID, &roommate.Name, &roommate.Email,
			&roommate.Phone, &roommate.Balance, &roommate.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roommate: %v", err)
		}
		roommates = append(roommates, &roommate)
	}
	return roommates, rows.Err()
}

// IncrementBalance applies a signed delta to a roommate's balance as a single
// atomic update against the stored value. Concurrent increments against the
// same roommate compose regardless of interleaving; a cached balance is never
// written back.
func (r *RoommateRepository) IncrementBalance(id string, delta float64) (float64, error) {
	var newBalance float64
	err := r.db.QueryRow(
		`UPDATE roommates SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		delta, id,
	).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("roommate %s does not exist", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment balance: %v", err)
	}
	return newBalance, nil
}
