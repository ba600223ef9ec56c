package profile

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ragavi522/knee-prime-assessment/internal/db"
	"github.com/ragavi522/knee-prime-assessment/internal/phone"
)

// DBResolver resolves profiles from Postgres.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) ByPhone(
	ctx context.Context,
	rawPhone string,
) (*Profile, error) {

	// Canonical form first, bare digits second. Rows written before
	// normalization was enforced may carry either.
	for _, candidate := range phone.Variants(rawPhone) {
		p, err := r.lookup(ctx, candidate)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return nil, ErrNotFound
}

func (r *DBResolver) lookup(ctx context.Context, phone string) (*Profile, error) {
	var (
		p       Profile
		rawRole string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, phone, profile_type, name, created_at
		FROM profiles
		WHERE phone = $1
	`, phone).Scan(&p.ID, &p.Phone, &rawRole, &p.Name, &p.CreatedAt)

	if err != nil {
		return nil, err
	}

	// Unrecognized role strings collapse to patient at the scan boundary.
	p.Role = ParseRole(rawRole)

	return &p, nil
}

func (r *DBResolver) Provision(
	ctx context.Context,
	rawPhone string,
) (*Profile, error) {

	now := time.Now()

	p := Profile{
		ID:        uuid.NewString(),
		Phone:     phone.Normalize(rawPhone),
		Role:      RolePatient,
		Name:      "Patient",
		CreatedAt: now,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, phone, profile_type, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		p.ID,
		p.Phone,
		string(p.Role),
		p.Name,
		p.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &p, nil
}
