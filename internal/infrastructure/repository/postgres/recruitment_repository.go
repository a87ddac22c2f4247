package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/arrotech/codarena/internal/domain/recruitment"
)

type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

type inviteRow struct {
	PublicID  string    `db:"public_id"`
	SquadID   string    `db:"squad_public_id"`
	InviterID string    `db:"inviter_public_id"`
	InviteeID string    `db:"invitee_public_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (row inviteRow) toDomain() recruitment.Invite {
	return recruitment.Invite{
		ID:        row.PublicID,
		SquadID:   row.SquadID,
		InviterID: row.InviterID,
		InviteeID: row.InviteeID,
		Status:    recruitment.InviteStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
}

const inviteColumns = `public_id, squad_public_id, inviter_public_id, invitee_public_id, status, created_at`

// CreatePending inserts a pending invite. A partial unique index on
// (squad, invitee) WHERE status = 'PENDING' turns concurrent duplicates into
// a unique violation, which is resolved by returning the existing row with
// ErrDuplicatePending.
func (r *InviteRepository) CreatePending(ctx context.Context, inv recruitment.Invite) (recruitment.Invite, error) {
	const query = `
INSERT INTO invites (public_id, squad_public_id, inviter_public_id, invitee_public_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.SquadID, inv.InviterID, inv.InviteeID, string(recruitment.InviteStatusPending), inv.CreatedAt)
	if err == nil {
		inv.Status = recruitment.InviteStatusPending
		return inv, nil
	}
	if !isUniqueViolation(err) {
		return recruitment.Invite{}, fmt.Errorf("insert invite: %w", err)
	}

	existing := `SELECT ` + inviteColumns + `
FROM invites
WHERE squad_public_id = $1 AND invitee_public_id = $2 AND status = 'PENDING'`

	var row inviteRow
	if err := r.db.GetContext(ctx, &row, existing, inv.SquadID, inv.InviteeID); err != nil {
		return recruitment.Invite{}, fmt.Errorf("get existing pending invite: %w", err)
	}

	return row.toDomain(), recruitment.ErrDuplicatePending
}

func (r *InviteRepository) GetByID(ctx context.Context, inviteID string) (recruitment.Invite, bool, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE public_id = $1`

	var row inviteRow
	if err := r.db.GetContext(ctx, &row, query, inviteID); err != nil {
		if isNotFound(err) {
			return recruitment.Invite{}, false, nil
		}
		return recruitment.Invite{}, false, fmt.Errorf("get invite: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *InviteRepository) CountPendingBySquad(ctx context.Context, squadID string) (int, error) {
	const query = `SELECT COUNT(*) FROM invites WHERE squad_public_id = $1 AND status = 'PENDING'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, squadID); err != nil {
		return 0, fmt.Errorf("count pending invites: %w", err)
	}

	return count, nil
}

func (r *InviteRepository) ListPendingByInvitee(ctx context.Context, userID string) ([]recruitment.Invite, error) {
	query := `SELECT ` + inviteColumns + `
FROM invites
WHERE invitee_public_id = $1 AND status = 'PENDING'
ORDER BY created_at DESC`

	return r.selectInvites(ctx, query, userID)
}

func (r *InviteRepository) ListPendingBySquad(ctx context.Context, squadID string) ([]recruitment.Invite, error) {
	query := `SELECT ` + inviteColumns + `
FROM invites
WHERE squad_public_id = $1 AND status = 'PENDING'
ORDER BY created_at DESC`

	return r.selectInvites(ctx, query, squadID)
}

// Decide resolves a pending invite. The status precondition is part of the
// UPDATE so a double response loses the race at the database.
func (r *InviteRepository) Decide(ctx context.Context, inviteID string, status recruitment.InviteStatus) (recruitment.Invite, error) {
	query := `
UPDATE invites
SET status = $2, updated_at = NOW()
WHERE public_id = $1 AND status = 'PENDING'
RETURNING ` + inviteColumns

	var row inviteRow
	if err := r.db.GetContext(ctx, &row, query, inviteID, string(status)); err != nil {
		if isNotFound(err) {
			return recruitment.Invite{}, recruitment.ErrInviteClosed
		}
		return recruitment.Invite{}, fmt.Errorf("decide invite: %w", err)
	}

	return row.toDomain(), nil
}

func (r *InviteRepository) selectInvites(ctx context.Context, query string, args ...any) ([]recruitment.Invite, error) {
	var rows []inviteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	out := make([]recruitment.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

type JoinRequestRepository struct {
	db *sqlx.DB
}

func NewJoinRequestRepository(db *sqlx.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

type joinRequestRow struct {
	PublicID  string    `db:"public_id"`
	SquadID   string    `db:"squad_public_id"`
	PlayerID  string    `db:"player_public_id"`
	Message   string    `db:"message"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (row joinRequestRow) toDomain() recruitment.JoinRequest {
	return recruitment.JoinRequest{
		ID:        row.PublicID,
		SquadID:   row.SquadID,
		PlayerID:  row.PlayerID,
		Message:   row.Message,
		Status:    recruitment.RequestStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
}

const joinRequestColumns = `public_id, squad_public_id, player_public_id, message, status, created_at`

func (r *JoinRequestRepository) CreatePending(ctx context.Context, req recruitment.JoinRequest) (recruitment.JoinRequest, error) {
	const query = `
INSERT INTO join_requests (public_id, squad_public_id, player_public_id, message, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.SquadID, req.PlayerID, req.Message, string(recruitment.RequestStatusPending), req.CreatedAt)
	if err == nil {
		req.Status = recruitment.RequestStatusPending
		return req, nil
	}
	if !isUniqueViolation(err) {
		return recruitment.JoinRequest{}, fmt.Errorf("insert join request: %w", err)
	}

	existing := `SELECT ` + joinRequestColumns + `
FROM join_requests
WHERE squad_public_id = $1 AND player_public_id = $2 AND status = 'PENDING'`

	var row joinRequestRow
	if err := r.db.GetContext(ctx, &row, existing, req.SquadID, req.PlayerID); err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("get existing pending join request: %w", err)
	}

	return row.toDomain(), recruitment.ErrDuplicatePending
}

func (r *JoinRequestRepository) GetByID(ctx context.Context, requestID string) (recruitment.JoinRequest, bool, error) {
	query := `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE public_id = $1`

	var row joinRequestRow
	if err := r.db.GetContext(ctx, &row, query, requestID); err != nil {
		if isNotFound(err) {
			return recruitment.JoinRequest{}, false, nil
		}
		return recruitment.JoinRequest{}, false, fmt.Errorf("get join request: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *JoinRequestRepository) ListPendingBySquad(ctx context.Context, squadID string) ([]recruitment.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + `
FROM join_requests
WHERE squad_public_id = $1 AND status = 'PENDING'
ORDER BY created_at DESC`

	var rows []joinRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, squadID); err != nil {
		return nil, fmt.Errorf("list pending join requests: %w", err)
	}

	out := make([]recruitment.JoinRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *JoinRequestRepository) Decide(ctx context.Context, requestID string, status recruitment.RequestStatus) (recruitment.JoinRequest, error) {
	query := `
UPDATE join_requests
SET status = $2, updated_at = NOW()
WHERE public_id = $1 AND status = 'PENDING'
RETURNING ` + joinRequestColumns

	var row joinRequestRow
	if err := r.db.GetContext(ctx, &row, query, requestID, string(status)); err != nil {
		if isNotFound(err) {
			return recruitment.JoinRequest{}, recruitment.ErrRequestClosed
		}
		return recruitment.JoinRequest{}, fmt.Errorf("decide join request: %w", err)
	}

	return row.toDomain(), nil
}

type BoardRepository struct {
	db *sqlx.DB
}

func NewBoardRepository(db *sqlx.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

type postRow struct {
	PublicID     string    `db:"public_id"`
	SquadID      string    `db:"squad_public_id"`
	SlotsOpen    int       `db:"slots_open"`
	Requirements string    `db:"requirements"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row postRow) toDomain() recruitment.Post {
	return recruitment.Post{
		ID:           row.PublicID,
		SquadID:      row.SquadID,
		SlotsOpen:    row.SlotsOpen,
		Requirements: row.Requirements,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type freeAgentRow struct {
	PublicID    string         `db:"public_id"`
	UserID      string         `db:"user_public_id"`
	GameModeIDs pq.StringArray `db:"game_mode_public_ids"`
	Message     string         `db:"message"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row freeAgentRow) toDomain() recruitment.FreeAgent {
	return recruitment.FreeAgent{
		ID:          row.PublicID,
		UserID:      row.UserID,
		GameModeIDs: []string(row.GameModeIDs),
		Message:     row.Message,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

const postColumns = `public_id, squad_public_id, slots_open, requirements, is_active, created_at, updated_at`

func (r *BoardRepository) CreatePost(ctx context.Context, p recruitment.Post) error {
	const query = `
INSERT INTO recruitment_posts (public_id, squad_public_id, slots_open, requirements, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SquadID, p.SlotsOpen, p.Requirements, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert recruitment post: %w", err)
	}

	return nil
}

func (r *BoardRepository) GetPostByID(ctx context.Context, postID string) (recruitment.Post, bool, error) {
	query := `SELECT ` + postColumns + ` FROM recruitment_posts WHERE public_id = $1`

	var row postRow
	if err := r.db.GetContext(ctx, &row, query, postID); err != nil {
		if isNotFound(err) {
			return recruitment.Post{}, false, nil
		}
		return recruitment.Post{}, false, fmt.Errorf("get recruitment post: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BoardRepository) ListActivePosts(ctx context.Context) ([]recruitment.Post, error) {
	query := `SELECT ` + postColumns + `
FROM recruitment_posts
WHERE is_active = TRUE
ORDER BY created_at DESC`

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active recruitment posts: %w", err)
	}

	out := make([]recruitment.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *BoardRepository) DeactivatePost(ctx context.Context, postID string) error {
	const query = `UPDATE recruitment_posts SET is_active = FALSE, updated_at = NOW() WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("deactivate recruitment post: %w", err)
	}

	return nil
}

const freeAgentColumns = `public_id, user_public_id, game_mode_public_ids, message, is_active, created_at, updated_at`

func (r *BoardRepository) CreateFreeAgent(ctx context.Context, a recruitment.FreeAgent) error {
	const query = `
INSERT INTO free_agents (public_id, user_public_id, game_mode_public_ids, message, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, pq.StringArray(a.GameModeIDs), a.Message, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert free agent listing: %w", err)
	}

	return nil
}

func (r *BoardRepository) GetFreeAgentByID(ctx context.Context, listingID string) (recruitment.FreeAgent, bool, error) {
	query := `SELECT ` + freeAgentColumns + ` FROM free_agents WHERE public_id = $1`

	var row freeAgentRow
	if err := r.db.GetContext(ctx, &row, query, listingID); err != nil {
		if isNotFound(err) {
			return recruitment.FreeAgent{}, false, nil
		}
		return recruitment.FreeAgent{}, false, fmt.Errorf("get free agent listing: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BoardRepository) ListActiveFreeAgents(ctx context.Context) ([]recruitment.FreeAgent, error) {
	query := `SELECT ` + freeAgentColumns + `
FROM free_agents
WHERE is_active = TRUE
ORDER BY created_at DESC`

	var rows []freeAgentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active free agents: %w", err)
	}

	out := make([]recruitment.FreeAgent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *BoardRepository) DeactivateFreeAgent(ctx context.Context, listingID string) error {
	const query = `UPDATE free_agents SET is_active = FALSE, updated_at = NOW() WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, listingID); err != nil {
		return fmt.Errorf("deactivate free agent listing: %w", err)
	}

	return nil
}
