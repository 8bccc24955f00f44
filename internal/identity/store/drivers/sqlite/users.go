package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/northfit/installops/internal/identity/domain"
	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/rbac"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, name, email, phone, role, store_id, status, password_hash, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var (
		u       domain.User
		role    string
		phone   sql.NullString
		storeID sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &phone, &role, &storeID,
		&u.Status, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = rbac.Normalize(role)
	u.Phone = mapNullStringPtr(phone)
	u.StoreID = mapNullStringPtr(storeID)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	return r.scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, strings.ToLower(strings.TrimSpace(u.Email)),
		mapOptionalString(u.Phone), string(u.Role), mapOptionalString(u.StoreID),
		u.Status, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdateUserStatus(ctx context.Context, userID string, status string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
