package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/arrotech/codarena/internal/platform/logging"
	"github.com/arrotech/codarena/internal/usecase"
)

type Handler struct {
	cohortService       *usecase.CohortService
	squadService        *usecase.SquadService
	recruitmentService  *usecase.RecruitmentService
	paymentService      *usecase.PaymentService
	readinessService    *usecase.ReadinessService
	notificationService *usecase.NotificationService
	leaderboardService  *usecase.LeaderboardService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	cohortService *usecase.CohortService,
	squadService *usecase.SquadService,
	recruitmentService *usecase.RecruitmentService,
	paymentService *usecase.PaymentService,
	readinessService *usecase.ReadinessService,
	notificationService *usecase.NotificationService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		cohortService:       cohortService,
		squadService:        squadService,
		recruitmentService:  recruitmentService,
		paymentService:      paymentService,
		readinessService:    readinessService,
		notificationService: notificationService,
		leaderboardService:  leaderboardService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
