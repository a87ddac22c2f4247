package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/cohort"
)

type CohortRepository struct {
	db *sqlx.DB
}

func NewCohortRepository(db *sqlx.DB) *CohortRepository {
	return &CohortRepository{db: db}
}

type cohortRow struct {
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	ClosesAt     time.Time `db:"closes_at"`
	Status       string    `db:"status"`
	IsOpenToJoin bool      `db:"is_open_to_join"`
}

func (row cohortRow) toDomain() cohort.Cohort {
	return cohort.Cohort{
		ID:           row.PublicID,
		Name:         row.Name,
		Description:  row.Description,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		ClosesAt:     row.ClosesAt,
		Status:       cohort.Status(row.Status),
		IsOpenToJoin: row.IsOpenToJoin,
	}
}

const cohortColumns = `public_id, name, description, start_date, end_date, closes_at, status, is_open_to_join`

func (r *CohortRepository) ListOpen(ctx context.Context) ([]cohort.Cohort, error) {
	query := `SELECT ` + cohortColumns + `
FROM cohorts
WHERE is_open_to_join = TRUE
  AND deleted_at IS NULL
ORDER BY start_date DESC`

	var rows []cohortRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list open cohorts: %w", err)
	}

	out := make([]cohort.Cohort, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *CohortRepository) GetByID(ctx context.Context, cohortID string) (cohort.Cohort, bool, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts WHERE public_id = $1 AND deleted_at IS NULL`

	var row cohortRow
	if err := r.db.GetContext(ctx, &row, query, cohortID); err != nil {
		if isNotFound(err) {
			return cohort.Cohort{}, false, nil
		}
		return cohort.Cohort{}, false, fmt.Errorf("get cohort: %w", err)
	}

	return row.toDomain(), true, nil
}

// AddParticipant relies on ON CONFLICT DO NOTHING for set semantics.
func (r *CohortRepository) AddParticipant(ctx context.Context, cohortID, userID string) error {
	const query = `
INSERT INTO cohort_participants (cohort_public_id, user_public_id)
VALUES ($1, $2)
ON CONFLICT (cohort_public_id, user_public_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, cohortID, userID); err != nil {
		return fmt.Errorf("add cohort participant: %w", err)
	}

	return nil
}

func (r *CohortRepository) IsParticipant(ctx context.Context, cohortID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM cohort_participants
	WHERE cohort_public_id = $1 AND user_public_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, cohortID, userID); err != nil {
		return false, fmt.Errorf("check cohort participant: %w", err)
	}

	return exists, nil
}

func (r *CohortRepository) ListParticipants(ctx context.Context, cohortID string) ([]string, error) {
	const query = `
SELECT user_public_id
FROM cohort_participants
WHERE cohort_public_id = $1
ORDER BY user_public_id`

	var userIDs []string
	if err := r.db.SelectContext(ctx, &userIDs, query, cohortID); err != nil {
		return nil, fmt.Errorf("list cohort participants: %w", err)
	}

	return userIDs, nil
}
