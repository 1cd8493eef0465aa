// file: repository/user_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicate is returned by Create when the username or email is already registered.
var ErrDuplicate = errors.New("duplicate user")

const uniqueViolation = "23505"

// IUserRepository defines the contract for identity persistence.
// Lookups return (nil, nil) when no row matches.
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Patch(ctx context.Context, username string, patch model.UserPatch) (*model.User, error)
	Disable(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// UserRepository implements IUserRepository on PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, first_name, last_name, password, created_at, is_active, is_elevated, is_disabled`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Password, &user.CreatedAt, &user.IsActive, &user.IsElevated, &user.IsDisabled)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. The caller supplies an already hashed password.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `INSERT INTO users (id, username, email, first_name, last_name, password, is_active, is_elevated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.FirstName,
		user.LastName, user.Password, user.IsActive, user.IsElevated).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Warn("User insert rejected by unique constraint")
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, column string, value any) (*model.User, error) {
	log := logger.Log.WithField("lookup", column)

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute find user query")
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email", email)
}

// Patch updates only the non-nil fields of patch and returns the updated row.
func (r *UserRepository) Patch(ctx context.Context, username string, patch model.UserPatch) (*model.User, error) {
	log := logger.Log.WithField("username", username)
	log.Info("Executing query to patch user")

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Password != nil {
		add("password", *patch.Password)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.IsDisabled != nil {
		add("is_disabled", *patch.IsDisabled)
	}
	if len(sets) == 0 {
		return r.FindByUsername(ctx, username)
	}

	args = append(args, username)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE username = $` + strconv.Itoa(len(args)) + ` RETURNING ` + userColumns
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute patch user query")
		return nil, err
	}
	return user, nil
}

// Disable deactivates a user and marks it disabled, so a pending email
// verification cannot turn it back on. Users are never hard-deleted.
func (r *UserRepository) Disable(ctx context.Context, username string) (*model.User, error) {
	inactive, disabled := false, true
	return r.Patch(ctx, username, model.UserPatch{IsActive: &inactive, IsDisabled: &disabled})
}

// List returns every user, newest first. For elevated callers only.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	log := logger.Log
	log.Info("Executing query to list users")

	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
