package repository

import (
	"context"
	"database/sql"

	"admin-console/internal/domain"
)

const principalColumns = `id, name, email, credential, role, created_at, updated_at`

// PrincipalRepo implements domain.PrincipalRepository on SQLite.
type PrincipalRepo struct {
	db *sql.DB
}

// NewPrincipalRepo creates a PrincipalRepo on the given pool.
func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

func scanPrincipal(row interface{ Scan(...interface{}) error }) (*domain.Principal, error) {
	var p domain.Principal
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Credential, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

func (r *PrincipalRepo) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE email = ?`, email)
	return scanPrincipal(row)
}

func (r *PrincipalRepo) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	return scanPrincipal(row)
}

func (r *PrincipalRepo) Insert(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (id, name, email, credential, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Credential, p.Role, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PrincipalRepo) Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE principals
		 SET name = ?, email = ?, credential = ?, role = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Email, p.Credential, p.Role, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound("account not found")
	}
	return r.FindByID(ctx, p.ID)
}

// Delete removes a principal and returns the deleted record.
func (r *PrincipalRepo) Delete(ctx context.Context, id string) (*domain.Principal, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM principals WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

func (r *PrincipalRepo) ListAll(ctx context.Context) ([]domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM principals ORDER BY created_at, id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		principals = append(principals, *p)
	}
	return principals, rows.Err()
}
