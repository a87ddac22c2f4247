package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/domain/squad"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSquadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.squadService.Create(ctx, usecase.CreateSquadInput{
		CaptainID:  principal.UserID,
		Name:       req.Name,
		GameModeID: req.GameModeID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create squad failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, squadToDTO(ctx, created))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	squadID := r.PathValue("squadID")
	item, err := h.squadService.Get(ctx, squadID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "squad_id", squadID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, item))
}

func (h *Handler) ListMySquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMySquads")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	squads, err := h.squadService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list squads failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]squadDTO, 0, len(squads))
	for _, s := range squads {
		items = append(items, squadToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) InviteToSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InviteToSquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req inviteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	invite, err := h.squadService.Invite(ctx, usecase.InviteInput{
		ActorID:  principal.UserID,
		SquadID:  r.PathValue("squadID"),
		GamerTag: req.GamerTag,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "invite failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, inviteToDTO(ctx, invite))
}

func (h *Handler) MyInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyInvites")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	invites, err := h.squadService.MyInvites(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list invites failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]inviteDTO, 0, len(invites))
	for _, inv := range invites {
		items = append(items, inviteToDTO(ctx, inv))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RespondInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RespondInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req respondInviteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	invite, err := h.squadService.RespondInvite(ctx, usecase.RespondInviteInput{
		ActorID:  principal.UserID,
		InviteID: r.PathValue("inviteID"),
		Accept:   strings.EqualFold(req.Action, "accept"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "respond invite failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, inviteToDTO(ctx, invite))
}

func (h *Handler) SquadReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SquadReadiness")
	defer span.End()

	squadID := r.PathValue("squadID")
	cohortID := strings.TrimSpace(r.URL.Query().Get("cohort_id"))
	if cohortID == "" {
		writeError(ctx, w, fmt.Errorf("%w: cohort_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	ready, err := h.readinessService.IsReady(ctx, squadID, cohortID)
	if err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "squad_id", squadID, "cohort_id", cohortID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"ready": ready})
}

func (h *Handler) SquadPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SquadPaymentStatus")
	defer span.End()

	squadID := r.PathValue("squadID")
	cohortID := strings.TrimSpace(r.URL.Query().Get("cohort_id"))
	if cohortID == "" {
		writeError(ctx, w, fmt.Errorf("%w: cohort_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	statuses, err := h.readinessService.PaymentStatus(ctx, squadID, cohortID)
	if err != nil {
		h.logger.WarnContext(ctx, "payment status failed", "squad_id", squadID, "cohort_id", cohortID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberPaymentStatusDTO, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, memberPaymentStatusDTO{UserID: s.UserID, Paid: s.Paid})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createSquadRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	GameModeID string `json:"game_mode_id" validate:"required"`
}

type inviteRequest struct {
	GamerTag string `json:"gamer_tag" validate:"required,max=60"`
}

type respondInviteRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

type squadDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CaptainID  string   `json:"captainId"`
	GameModeID string   `json:"gameModeId"`
	MemberIDs  []string `json:"memberIds"`
}

type inviteDTO struct {
	ID        string `json:"id"`
	SquadID   string `json:"squadId"`
	InviterID string `json:"inviterId"`
	InviteeID string `json:"inviteeId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAtUtc"`
}

type memberPaymentStatusDTO struct {
	UserID string `json:"userId"`
	Paid   bool   `json:"paid"`
}

func squadToDTO(ctx context.Context, v squad.Squad) squadDTO {
	ctx, span := startSpan(ctx, "httpapi.squadToDTO")
	defer span.End()

	return squadDTO{
		ID:         v.ID,
		Name:       v.Name,
		CaptainID:  v.CaptainID,
		GameModeID: v.GameModeID,
		MemberIDs:  append([]string(nil), v.MemberIDs...),
	}
}

func inviteToDTO(ctx context.Context, v recruitment.Invite) inviteDTO {
	ctx, span := startSpan(ctx, "httpapi.inviteToDTO")
	defer span.End()

	return inviteDTO{
		ID:        v.ID,
		SquadID:   v.SquadID,
		InviterID: v.InviterID,
		InviteeID: v.InviteeID,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
