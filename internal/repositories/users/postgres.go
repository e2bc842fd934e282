package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes mapped to sentinel errors.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// classify maps constraint violations to common sentinels and wraps
// everything else as a db error.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrUsernameTaken, pgErr.ConstraintName)
		case sqlStateCheckViolation:
			return fmt.Errorf("%w: %s", common.ErrConstraint, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Exists(ctx context.Context, userName string) (bool, error) {
	query :=
		`SELECT COUNT(*) FROM users
		 WHERE username = $1
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

// Create inserts a user and lets pgcrypto hash the password.
func (r *PostgresRepository) Create(ctx context.Context, userName, password string) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, crypt($2, gen_salt('bf')))
		 RETURNING user_id, password_hash
		 `

	user := &models.User{UserName: userName}
	err := r.db.QueryRowContext(ctx, query, userName, password).Scan(&user.ID, &user.PasswordHash)
	if err != nil {
		return nil, classify(err)
	}

	return user, nil
}

// CreateWithHash inserts a user with a hash computed by the caller.
func (r *PostgresRepository) CreateWithHash(ctx context.Context, userName, hash string) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING user_id
		 `

	user := &models.User{UserName: userName, PasswordHash: hash}
	if err := r.db.QueryRowContext(ctx, query, userName, hash).Scan(&user.ID); err != nil {
		return nil, classify(err)
	}

	return user, nil
}

// Authenticate returns the user only when the password matches the stored
// pgcrypto hash. A missing user and a wrong password are both reported as
// common.ErrorNotFound.
func (r *PostgresRepository) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	query :=
		`SELECT user_id, username, password_hash FROM users
		 WHERE username = $1 AND password_hash = crypt($2, password_hash)
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName, password).Scan(&user.ID, &user.UserName, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT user_id, username, password_hash FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(&user.ID, &user.UserName, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// ValidatePassword delegates the policy check to the validate_password()
// function installed by the migrations.
func (r *PostgresRepository) ValidatePassword(ctx context.Context, password string) (bool, error) {
	query := `SELECT validate_password($1)`

	var ok sql.NullBool
	if err := r.db.QueryRowContext(ctx, query, password).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok.Valid && ok.Bool, nil
}

// Delete removes the user; notes and sessions go with it via ON DELETE
// CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, userName string) error {
	query :=
		`DELETE FROM users
		 WHERE username = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
