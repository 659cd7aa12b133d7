package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/userhub/accounts-api/internal/core/domain"
)

const selectColumns = `SELECT id, name, email, age, password, role, created_at, updated_at FROM users`

// AccountRepository implements ports.AccountRepository on SQLite. Email
// uniqueness is enforced by the table's UNIQUE constraint.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Age       int       `db:"age"`
	Password  string    `db:"password"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Age:          r.Age,
		PasswordHash: r.Password,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func toDomainList(rows []accountRow) []*domain.Account {
	out := make([]*domain.Account, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	var rows []accountRow
	if err := r.db.SelectContext(ctx, &rows, selectColumns+` ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return toDomainList(rows), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, selectColumns+` WHERE id = ?`, id)
}

// FindByEmail compares with SQLite's default BINARY collation, so the match
// is case-sensitive.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, selectColumns+` WHERE email = ?`, email)
}

// SearchByName relies on LIKE being case-insensitive for ASCII. Wildcards in
// fragment are escaped so they match literally.
func (r *AccountRepository) SearchByName(ctx context.Context, fragment string) ([]*domain.Account, error) {
	pattern := "%" + escapeLike(fragment) + "%"

	var rows []accountRow
	if err := r.db.SelectContext(ctx, &rows, selectColumns+` WHERE name LIKE ? ESCAPE '\' ORDER BY created_at, id`, pattern); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return toDomainList(rows), nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
		INSERT INTO users (id, name, email, age, password, role, created_at, updated_at)
		VALUES (:id, :name, :email, :age, :password, :role, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromDomain(account)); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailInUse
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
		UPDATE users
		SET name = :name, email = :email, age = :age, password = :password, role = :role, updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, fromDomain(account))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailInUse
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Ping reports whether the database is reachable.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toDomain(), nil
}

func fromDomain(a *domain.Account) accountRow {
	return accountRow{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Age:       a.Age,
		Password:  a.PasswordHash,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint && se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
