package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/arrotech/codarena/external/daraja"
	"github.com/arrotech/codarena/internal/config"
	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/domain/squad"
	"github.com/arrotech/codarena/internal/domain/stats"
	"github.com/arrotech/codarena/internal/domain/user"
	"github.com/arrotech/codarena/internal/infrastructure/account/authsvc"
	cacherepo "github.com/arrotech/codarena/internal/infrastructure/repository/cache"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
	"github.com/arrotech/codarena/internal/infrastructure/repository/postgres"
	"github.com/arrotech/codarena/internal/interfaces/httpapi"
	basecache "github.com/arrotech/codarena/internal/platform/cache"
	idgen "github.com/arrotech/codarena/internal/platform/id"
	"github.com/arrotech/codarena/internal/platform/logging"
	"github.com/arrotech/codarena/internal/platform/resilience"
	"github.com/arrotech/codarena/internal/usecase"
)

type repositories struct {
	users         user.Repository
	cohorts       cohort.Repository
	gameModes     gamemode.Repository
	squads        squad.Repository
	payments      payment.Repository
	invites       recruitment.InviteRepository
	joinRequests  recruitment.JoinRequestRepository
	board         recruitment.BoardRepository
	notifications notification.Repository
	stats         stats.Repository
}

// NewHTTPServer wires repositories, services and transport. The returned
// cleanup releases the broadcast pool and the database handle and must be
// called after the server stops.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.cohorts = cacherepo.NewCohortRepository(repos.cohorts, store)
		repos.gameModes = cacherepo.NewGameModeRepository(repos.gameModes, store)
	}

	generator := idgen.NewRandomGenerator()

	notifSvc, err := usecase.NewNotificationService(repos.notifications, generator, cfg.BroadcastWorkers, logger)
	if err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("build notification service: %w", err)
	}

	gateway := daraja.NewClient(daraja.Config{
		BaseURL:        cfg.DarajaBaseURL,
		ConsumerKey:    cfg.DarajaConsumerKey,
		ConsumerSecret: cfg.DarajaConsumerSecret,
		ShortCode:      cfg.DarajaShortCode,
		Passkey:        cfg.DarajaPasskey,
		CallbackURL:    cfg.DarajaCallbackURL,
		Timeout:        cfg.DarajaTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DarajaCircuitEnabled,
			FailureThreshold: cfg.DarajaCircuitFailureCount,
			OpenTimeout:      cfg.DarajaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DarajaCircuitHalfOpenMaxReq,
		},
	}, logger)
	if !cfg.DarajaEnabled {
		logger.Warn("daraja credentials not configured, stk pushes will be rejected by the gateway")
	}

	cohortSvc := usecase.NewCohortService(repos.cohorts, repos.gameModes, logger)
	squadSvc := usecase.NewSquadService(repos.squads, repos.gameModes, repos.users, repos.invites, notifSvc, generator, logger)
	recruitSvc := usecase.NewRecruitmentService(repos.board, repos.joinRequests, repos.squads, repos.gameModes, notifSvc, generator, logger)
	paymentSvc := usecase.NewPaymentService(gateway, repos.payments, repos.cohorts, repos.gameModes, repos.squads, notifSvc, generator, cfg.PhoneCountryCode, logger)
	readinessSvc := usecase.NewReadinessService(repos.squads, repos.gameModes, repos.payments, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.stats, repos.users, repos.cohorts, notifSvc, generator, logger)

	authClient := authsvc.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		cfg.AuthAdminKey,
		cfg.AuthCacheTTL,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
		logger,
	)

	httpLogger := logging.Default()
	handler := httpapi.NewHandler(cohortSvc, squadSvc, recruitSvc, paymentSvc, readinessSvc, notifSvc, leaderboardSvc, httpLogger)
	router := httpapi.NewRouter(handler, authClient, httpLogger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		notifSvc.Close()
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() error {
		notifSvc.Close()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}

// buildRepositories returns the in-memory seed set when DB_URL is the
// literal "memory", otherwise an instrumented postgres handle backs every
// repository.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.DBURL), "memory") {
		logger.Info("using in-memory repositories with seed data")
		userRepo := memory.NewUserRepository(memory.SeedUsers())
		return repositories{
			users:         userRepo,
			cohorts:       memory.NewCohortRepository(memory.SeedCohorts()),
			gameModes:     memory.NewGameModeRepository(memory.SeedGameModes()),
			squads:        memory.NewSquadRepository(nil),
			payments:      memory.NewPaymentRepository(),
			invites:       memory.NewInviteRepository(),
			joinRequests:  memory.NewJoinRequestRepository(),
			board:         memory.NewBoardRepository(),
			notifications: memory.NewNotificationRepository(),
			stats:         memory.NewStatsRepository(userRepo),
		}, nil, nil
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	return repositories{
		users:         postgres.NewUserRepository(db),
		cohorts:       postgres.NewCohortRepository(db),
		gameModes:     postgres.NewGameModeRepository(db),
		squads:        postgres.NewSquadRepository(db),
		payments:      postgres.NewPaymentRepository(db),
		invites:       postgres.NewInviteRepository(db),
		joinRequests:  postgres.NewJoinRequestRepository(db),
		board:         postgres.NewBoardRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		stats:         postgres.NewStatsRepository(db),
	}, db, nil
}

func closeDB(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
