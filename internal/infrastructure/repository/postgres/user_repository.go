package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	PublicID    string `db:"public_id"`
	Email       string `db:"email"`
	PhoneNumber string `db:"phone_number"`
	GamerTag    string `db:"gamer_tag"`
	FullName    string `db:"full_name"`
	County      string `db:"county"`
	IsStaff     bool   `db:"is_staff"`
}

func (row userRow) toDomain() user.User {
	return user.User{
		ID:          row.PublicID,
		Email:       row.Email,
		PhoneNumber: row.PhoneNumber,
		GamerTag:    row.GamerTag,
		FullName:    row.FullName,
		County:      row.County,
		IsStaff:     row.IsStaff,
	}
}

const userColumns = `public_id, email, phone_number, gamer_tag, full_name, county, is_staff`

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE public_id = $1 AND deleted_at IS NULL`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByGamerTag(ctx context.Context, gamerTag string) (user.User, bool, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE gamer_tag = $1 AND deleted_at IS NULL`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, gamerTag); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by gamer tag: %w", err)
	}

	return row.toDomain(), true, nil
}
