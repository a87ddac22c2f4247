package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) CreateRecruitmentPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRecruitmentPost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPostRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	post, err := h.recruitmentService.CreatePost(ctx, usecase.CreatePostInput{
		ActorID:      principal.UserID,
		SquadID:      req.SquadID,
		SlotsOpen:    req.SlotsOpen,
		Requirements: req.Requirements,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create recruitment post failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, postToDTO(ctx, post))
}

func (h *Handler) ListRecruitmentPosts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecruitmentPosts")
	defer span.End()

	posts, err := h.recruitmentService.ListPosts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list recruitment posts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]postDTO, 0, len(posts))
	for _, p := range posts {
		items = append(items, postToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeactivateRecruitmentPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateRecruitmentPost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	postID := r.PathValue("postID")
	if err := h.recruitmentService.DeactivatePost(ctx, principal.UserID, postID); err != nil {
		h.logger.WarnContext(ctx, "deactivate recruitment post failed", "user_id", principal.UserID, "post_id", postID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"postId": postID, "status": "deactivated"})
}

func (h *Handler) ApplyToPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyToPost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req applyRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joinRequest, err := h.recruitmentService.Apply(ctx, usecase.ApplyInput{
		ActorID: principal.UserID,
		PostID:  r.PathValue("postID"),
		Message: req.Message,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply to post failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, joinRequestToDTO(ctx, joinRequest))
}

func (h *Handler) DecideJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DecideJoinRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req decideRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joinRequest, err := h.recruitmentService.Decide(ctx, usecase.DecideRequestInput{
		ActorID:   principal.UserID,
		RequestID: r.PathValue("requestID"),
		Approve:   strings.EqualFold(req.Action, "approve"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "decide join request failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, joinRequestToDTO(ctx, joinRequest))
}

func (h *Handler) ListPendingJoinRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingJoinRequests")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	squadID := r.PathValue("squadID")
	requests, err := h.recruitmentService.PendingRequests(ctx, principal.UserID, squadID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending join requests failed", "user_id", principal.UserID, "squad_id", squadID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]joinRequestDTO, 0, len(requests))
	for _, req := range requests {
		items = append(items, joinRequestToDTO(ctx, req))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RegisterFreeAgent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterFreeAgent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req registerFreeAgentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	listing, err := h.recruitmentService.RegisterFreeAgent(ctx, usecase.RegisterFreeAgentInput{
		ActorID:     principal.UserID,
		GameModeIDs: req.GameModeIDs,
		Message:     req.Message,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register free agent failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, freeAgentToDTO(ctx, listing))
}

func (h *Handler) ListFreeAgents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFreeAgents")
	defer span.End()

	listings, err := h.recruitmentService.ListFreeAgents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list free agents failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]freeAgentDTO, 0, len(listings))
	for _, l := range listings {
		items = append(items, freeAgentToDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeactivateFreeAgent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateFreeAgent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	listingID := r.PathValue("listingID")
	if err := h.recruitmentService.DeactivateFreeAgent(ctx, principal.UserID, listingID); err != nil {
		h.logger.WarnContext(ctx, "deactivate free agent failed", "user_id", principal.UserID, "listing_id", listingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"listingId": listingID, "status": "deactivated"})
}

type createPostRequest struct {
	SquadID      string `json:"squad_id" validate:"required"`
	SlotsOpen    int    `json:"slots_open" validate:"required,gt=0"`
	Requirements string `json:"requirements" validate:"max=500"`
}

type applyRequest struct {
	Message string `json:"message" validate:"max=500"`
}

type decideRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

type registerFreeAgentRequest struct {
	GameModeIDs []string `json:"game_mode_ids" validate:"required,min=1,dive,required"`
	Message     string   `json:"message" validate:"max=500"`
}

type postDTO struct {
	ID           string `json:"id"`
	SquadID      string `json:"squadId"`
	SlotsOpen    int    `json:"slotsOpen"`
	Requirements string `json:"requirements"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAtUtc"`
}

type joinRequestDTO struct {
	ID        string `json:"id"`
	SquadID   string `json:"squadId"`
	PlayerID  string `json:"playerId"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAtUtc"`
}

type freeAgentDTO struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	GameModeIDs []string `json:"gameModeIds"`
	Message     string   `json:"message"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   string   `json:"createdAtUtc"`
}

func postToDTO(ctx context.Context, v recruitment.Post) postDTO {
	ctx, span := startSpan(ctx, "httpapi.postToDTO")
	defer span.End()

	return postDTO{
		ID:           v.ID,
		SquadID:      v.SquadID,
		SlotsOpen:    v.SlotsOpen,
		Requirements: v.Requirements,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func joinRequestToDTO(ctx context.Context, v recruitment.JoinRequest) joinRequestDTO {
	ctx, span := startSpan(ctx, "httpapi.joinRequestToDTO")
	defer span.End()

	return joinRequestDTO{
		ID:        v.ID,
		SquadID:   v.SquadID,
		PlayerID:  v.PlayerID,
		Message:   v.Message,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func freeAgentToDTO(ctx context.Context, v recruitment.FreeAgent) freeAgentDTO {
	ctx, span := startSpan(ctx, "httpapi.freeAgentToDTO")
	defer span.End()

	return freeAgentDTO{
		ID:          v.ID,
		UserID:      v.UserID,
		GameModeIDs: append([]string(nil), v.GameModeIDs...),
		Message:     v.Message,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
