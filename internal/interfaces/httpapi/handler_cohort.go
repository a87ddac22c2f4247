package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) ListCohorts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCohorts")
	defer span.End()

	cohorts, err := h.cohortService.ListOpen(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list cohorts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]cohortDTO, 0, len(cohorts))
	for _, c := range cohorts {
		items = append(items, cohortToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGameModes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameModes")
	defer span.End()

	modes, err := h.cohortService.ListGameModes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list game modes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameModeDTO, 0, len(modes))
	for _, m := range modes {
		items = append(items, gameModeToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameMode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameMode")
	defer span.End()

	modeID := r.PathValue("modeID")
	mode, err := h.cohortService.GetGameMode(ctx, modeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game mode failed", "game_mode_id", modeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameModeToDTO(ctx, mode))
}

func (h *Handler) JoinCohort(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinCohort")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	cohortID := r.PathValue("cohortID")
	if err := h.cohortService.Join(ctx, principal.UserID, cohortID); err != nil {
		h.logger.WarnContext(ctx, "join cohort failed", "user_id", principal.UserID, "cohort_id", cohortID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"cohortId": cohortID, "status": "joined"})
}

type cohortDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	ClosesAt     string `json:"closesAt"`
	Status       string `json:"status"`
	IsOpenToJoin bool   `json:"isOpenToJoin"`
}

type gameModeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EntryFee    int64  `json:"entryFee"`
	MaxPlayers  int    `json:"maxPlayers"`
}

func cohortToDTO(ctx context.Context, v cohort.Cohort) cohortDTO {
	ctx, span := startSpan(ctx, "httpapi.cohortToDTO")
	defer span.End()

	return cohortDTO{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		StartDate:    v.StartDate.UTC().Format(time.RFC3339),
		EndDate:      v.EndDate.UTC().Format(time.RFC3339),
		ClosesAt:     v.ClosesAt.UTC().Format(time.RFC3339),
		Status:       string(v.Status),
		IsOpenToJoin: v.IsOpenToJoin,
	}
}

func gameModeToDTO(ctx context.Context, v gamemode.GameMode) gameModeDTO {
	ctx, span := startSpan(ctx, "httpapi.gameModeToDTO")
	defer span.End()

	return gameModeDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		EntryFee:    v.EntryFee,
		MaxPlayers:  v.MaxPlayers,
	}
}
