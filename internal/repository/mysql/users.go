package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

const userColumns = `id, name, email, password_hash, phone, address, status, is_admin, is_subscriber, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}

	query := `INSERT INTO users (name, email, password_hash, phone, address, status, is_admin, is_subscriber)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.Address,
		user.Status, user.IsAdmin, user.IsSubscriber,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	if err := sqlx.GetContext(ctx, r.db, user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Update applies the present fields of patch to the user.
func (r *UserRepository) Update(ctx context.Context, id int64, patch model.UserPatch) error {
	rec := goqu.Record{}
	if patch.Name != nil {
		rec["name"] = *patch.Name
	}
	if patch.Phone != nil {
		rec["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		rec["address"] = *patch.Address
	}
	if patch.Status != nil {
		rec["status"] = string(*patch.Status)
	}
	if patch.IsSubscriber != nil {
		rec["is_subscriber"] = *patch.IsSubscriber
	}
	if len(rec) == 0 {
		return nil
	}

	query, args, err := dialect.Update("users").Prepared(true).
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build user update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
