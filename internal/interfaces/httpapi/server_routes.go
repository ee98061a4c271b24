package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{number}/scores", handler.ListGameweekScores)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rosters", RequireAuth(verifier, http.HandlerFunc(handler.CreateRoster)))
	mux.Handle("GET /v1/rosters/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRoster)))
	mux.Handle("POST /v1/rosters/me/transfers", RequireAuth(verifier, http.HandlerFunc(handler.ProposeTransfer)))
	mux.Handle("PUT /v1/rosters/me/captaincy", RequireAuth(verifier, http.HandlerFunc(handler.SetCaptaincy)))
	mux.Handle("POST /v1/rosters/me/chips", RequireAuth(verifier, http.HandlerFunc(handler.UseChip)))
	mux.Handle("DELETE /v1/rosters/me/chips", RequireAuth(verifier, http.HandlerFunc(handler.CancelChip)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/score-gameweek", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreGameweekJob)))
	mux.Handle("POST /v1/internal/jobs/ingest-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestStatsJob)))
	mux.Handle("POST /v1/internal/jobs/advance-gameweek", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAdvanceGameweekJob)))
}
