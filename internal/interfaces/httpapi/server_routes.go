package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/cohorts", handler.ListCohorts)
	mux.HandleFunc("GET /v1/gamemodes", handler.ListGameModes)
	mux.HandleFunc("GET /v1/gamemodes/{modeID}", handler.GetGameMode)
	mux.HandleFunc("GET /v1/leaderboard", handler.Leaderboard)
	// Unauthenticated gateway webhook; validated by correlation IDs only.
	mux.HandleFunc("POST /v1/payments/callback", handler.PaymentCallback)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedCohortRoutes(mux, handler, verifier)
	registerAuthorizedSquadRoutes(mux, handler, verifier)
	registerAuthorizedRecruitmentRoutes(mux, handler, verifier)
	registerAuthorizedPaymentRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
	registerAuthorizedStatsRoutes(mux, handler, verifier)
}

func registerAuthorizedCohortRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/cohorts/{cohortID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinCohort)))
}

func registerAuthorizedSquadRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/squads", RequireAuth(verifier, http.HandlerFunc(handler.CreateSquad)))
	mux.Handle("GET /v1/squads/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMySquads)))
	mux.Handle("GET /v1/squads/{squadID}", RequireAuth(verifier, http.HandlerFunc(handler.GetSquad)))
	mux.Handle("POST /v1/squads/{squadID}/invites", RequireAuth(verifier, http.HandlerFunc(handler.InviteToSquad)))
	mux.Handle("GET /v1/squads/{squadID}/readiness", RequireAuth(verifier, http.HandlerFunc(handler.SquadReadiness)))
	mux.Handle("GET /v1/squads/{squadID}/payments", RequireAuth(verifier, http.HandlerFunc(handler.SquadPaymentStatus)))
	mux.Handle("GET /v1/squads/{squadID}/join-requests", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingJoinRequests)))
	mux.Handle("GET /v1/invites/me", RequireAuth(verifier, http.HandlerFunc(handler.MyInvites)))
	mux.Handle("POST /v1/invites/{inviteID}/respond", RequireAuth(verifier, http.HandlerFunc(handler.RespondInvite)))
}

func registerAuthorizedRecruitmentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/recruitment/posts", RequireAuth(verifier, http.HandlerFunc(handler.CreateRecruitmentPost)))
	mux.Handle("GET /v1/recruitment/posts", RequireAuth(verifier, http.HandlerFunc(handler.ListRecruitmentPosts)))
	mux.Handle("DELETE /v1/recruitment/posts/{postID}", RequireAuth(verifier, http.HandlerFunc(handler.DeactivateRecruitmentPost)))
	mux.Handle("POST /v1/recruitment/posts/{postID}/apply", RequireAuth(verifier, http.HandlerFunc(handler.ApplyToPost)))
	mux.Handle("POST /v1/join-requests/{requestID}/decide", RequireAuth(verifier, http.HandlerFunc(handler.DecideJoinRequest)))
	mux.Handle("POST /v1/recruitment/free-agents", RequireAuth(verifier, http.HandlerFunc(handler.RegisterFreeAgent)))
	mux.Handle("GET /v1/recruitment/free-agents", RequireAuth(verifier, http.HandlerFunc(handler.ListFreeAgents)))
	mux.Handle("DELETE /v1/recruitment/free-agents/{listingID}", RequireAuth(verifier, http.HandlerFunc(handler.DeactivateFreeAgent)))
}

func registerAuthorizedPaymentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/payments", RequireAuth(verifier, http.HandlerFunc(handler.InitiatePayment)))
	mux.Handle("GET /v1/payments/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPayments)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListNotifications)))
	mux.Handle("POST /v1/notifications/{notificationID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationRead)))
}

func registerAuthorizedStatsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	// Staff-only; the service enforces the staff check on the principal.
	mux.Handle("POST /v1/stats/rounds", RequireAuth(verifier, http.HandlerFunc(handler.RecordRoundStats)))
	mux.Handle("POST /v1/stats/rounds/publish", RequireAuth(verifier, http.HandlerFunc(handler.PublishRoundResults)))
}
