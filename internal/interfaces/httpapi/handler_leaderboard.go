package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/arrotech/codarena/internal/domain/stats"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	rows, err := h.leaderboardService.Leaderboard(ctx, stats.LeaderboardFilter{
		CohortID:   strings.TrimSpace(query.Get("cohort_id")),
		GameModeID: strings.TrimSpace(query.Get("game_mode_id")),
		Query:      strings.TrimSpace(query.Get("q")),
		Limit:      limit,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowDTO{
			UserID:   row.UserID,
			GamerTag: row.GamerTag,
			Kills:    row.Kills,
			Deaths:   row.Deaths,
			Damage:   row.Damage,
			XP:       row.XP,
			Matches:  row.Matches,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RecordRoundStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordRoundStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req recordRoundStatsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	recorded, err := h.leaderboardService.RecordRoundStats(ctx, usecase.RecordRoundStatsInput{
		ActorID:    principal.UserID,
		UserID:     req.UserID,
		CohortID:   req.CohortID,
		GameModeID: req.GameModeID,
		RoundRef:   req.RoundRef,
		Rank:       req.Rank,
		Kills:      req.Kills,
		Deaths:     req.Deaths,
		Damage:     req.Damage,
		XP:         req.XP,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record round stats failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundStatsDTO{
		ID:       recorded.ID,
		UserID:   recorded.UserID,
		CohortID: recorded.CohortID,
		RoundRef: recorded.RoundRef,
		Rank:     recorded.Rank,
		Kills:    recorded.Kills,
		Deaths:   recorded.Deaths,
		Damage:   recorded.Damage,
		XP:       recorded.XP,
	})
}

func (h *Handler) PublishRoundResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishRoundResults")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req publishRoundResultsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.leaderboardService.PublishRoundResults(ctx, usecase.PublishRoundResultsInput{
		ActorID:  principal.UserID,
		CohortID: req.CohortID,
		RoundRef: req.RoundRef,
		Message:  req.Message,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish round results failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"cohortId": req.CohortID, "roundRef": req.RoundRef, "status": "published"})
}

type recordRoundStatsRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	CohortID   string `json:"cohort_id" validate:"required"`
	GameModeID string `json:"game_mode_id"`
	RoundRef   string `json:"round_ref" validate:"required,max=80"`
	Rank       int    `json:"rank" validate:"gte=0"`
	Kills      int    `json:"kills" validate:"gte=0"`
	Deaths     int    `json:"deaths" validate:"gte=0"`
	Damage     int    `json:"damage" validate:"gte=0"`
	XP         int    `json:"xp" validate:"gte=0"`
}

type publishRoundResultsRequest struct {
	CohortID string `json:"cohort_id" validate:"required"`
	RoundRef string `json:"round_ref" validate:"required,max=80"`
	Message  string `json:"message" validate:"max=500"`
}

type leaderboardRowDTO struct {
	UserID   string `json:"userId"`
	GamerTag string `json:"gamerTag"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Damage   int    `json:"damage"`
	XP       int    `json:"xp"`
	Matches  int    `json:"matches"`
}

type roundStatsDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	CohortID string `json:"cohortId"`
	RoundRef string `json:"roundRef"`
	Rank     int    `json:"rank"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Damage   int    `json:"damage"`
	XP       int    `json:"xp"`
}
