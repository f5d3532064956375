package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/choreboard/internal/auth"
	"github.com/hearthside/choreboard/internal/handler"
	"github.com/hearthside/choreboard/internal/middleware"
	"github.com/hearthside/choreboard/internal/rewardbank"
	"github.com/hearthside/choreboard/internal/rollover"
	"github.com/hearthside/choreboard/internal/roster"
	"github.com/hearthside/choreboard/internal/snapshot"
	"github.com/hearthside/choreboard/internal/store"
	"github.com/hearthside/choreboard/internal/task"
)

type Server struct {
	db          *sql.DB
	stateH      *handler.StateHandler
	authH       *handler.AuthHandler
	childH      *handler.ChildHandler
	taskH       *handler.TaskHandler
	rosterH     *handler.RosterHandler
	templateH   *handler.TemplateHandler
	settingsH   *handler.SettingsHandler
	rewardH     *handler.RewardHandler
	issuer      *auth.TokenIssuer
	rateLimiter *middleware.RateLimiter
	rollover    *rollover.Engine
	logger      *slog.Logger
}

func New(db *sql.DB, secret string, logger *slog.Logger) *Server {
	childStore := store.NewChildStore(db)
	templateStore := store.NewTemplateStore(db)
	taskStore := store.NewTaskStore(db)
	settingsStore := store.NewSettingsStore(db)
	rewardStore := store.NewRewardStore(db)
	walletStore := store.NewWalletStore(db)

	engine := rollover.NewEngine(db, childStore, templateStore, settingsStore, logger.With("component", "rollover"))
	taskSvc := task.NewService(taskStore, childStore)
	rosterMgr := roster.NewManager(childStore, engine)
	builder := snapshot.NewBuilder(childStore, taskStore, settingsStore, engine)
	bank := rewardbank.NewBank(rewardStore)
	wallet := rewardbank.NewWalletLedger(walletStore, settingsStore)
	issuer := auth.NewTokenIssuer(secret)

	return &Server{
		db:          db,
		stateH:      handler.NewStateHandler(builder, logger.With("component", "state")),
		authH:       handler.NewAuthHandler(settingsStore, issuer, logger.With("component", "auth")),
		childH:      handler.NewChildHandler(taskSvc, bank, wallet),
		taskH:       handler.NewTaskHandler(taskSvc, taskStore, logger.With("component", "task")),
		rosterH:     handler.NewRosterHandler(rosterMgr),
		templateH:   handler.NewTemplateHandler(templateStore),
		settingsH:   handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		rewardH:     handler.NewRewardHandler(bank, wallet),
		issuer:      issuer,
		rateLimiter: middleware.NewRateLimiter(),
		rollover:    engine,
		logger:      logger,
	}
}

// Rollover returns the rollover engine so callers can prime the day at
// startup instead of on the first request.
func (s *Server) Rollover() *rollover.Engine {
	return s.rollover
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Kiosk routes, no credential required. Task actions are scoped by the
	// child id in the path; a wrong id reads as not found.
	mux.HandleFunc("GET /healthz", s.healthHandler)
	mux.HandleFunc("GET /api/state", s.stateH.Get)
	mux.HandleFunc("POST /api/unlock", s.rateLimitedHandler(s.authH.Unlock))

	mux.HandleFunc("POST /api/children/{id}/tasks/{task_id}/claim", s.childH.Claim)
	mux.HandleFunc("POST /api/children/{id}/tasks/{task_id}/unclaim", s.childH.Unclaim)
	mux.HandleFunc("GET /api/children/{id}/rewards", s.childH.ListRewards)
	mux.HandleFunc("POST /api/children/{id}/rewards/{reward_id}/request", s.childH.RequestReward)
	mux.HandleFunc("GET /api/children/{id}/wallet", s.childH.Wallet)
	mux.HandleFunc("POST /api/children/{id}/wallet/cashout", s.childH.Cashout)
	mux.HandleFunc("POST /api/children/{id}/wallet/spend", s.childH.Spend)

	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	// Parent routes behind the bearer token from /api/unlock.
	parentMux := http.NewServeMux()
	s.registerParentRoutes(parentMux)

	requireParent := middleware.RequireParent(s.issuer)
	mux.Handle("/api/parent/", requireParent(parentMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerParentRoutes(mux *http.ServeMux) {
	// Review queues and task transitions
	mux.HandleFunc("GET /api/parent/pending", s.taskH.Pending)
	mux.HandleFunc("GET /api/parent/completed", s.taskH.Completed)
	mux.HandleFunc("POST /api/parent/tasks/{id}/approve", s.taskH.Approve)
	mux.HandleFunc("POST /api/parent/tasks/{id}/reject", s.taskH.Reject)
	mux.HandleFunc("POST /api/parent/tasks/{id}/revoke", s.taskH.Revoke)

	// Direct edits to today's board
	mux.HandleFunc("GET /api/parent/tasks/today", s.taskH.ListToday)
	mux.HandleFunc("POST /api/parent/tasks/today", s.taskH.CreateToday)
	mux.HandleFunc("PATCH /api/parent/tasks/today/{id}", s.taskH.UpdateToday)
	mux.HandleFunc("DELETE /api/parent/tasks/today/{id}", s.taskH.DeleteToday)

	// Roster
	mux.HandleFunc("GET /api/parent/children", s.rosterH.List)
	mux.HandleFunc("POST /api/parent/children", s.rosterH.Create)
	mux.HandleFunc("PATCH /api/parent/children/{id}", s.rosterH.Update)
	mux.HandleFunc("DELETE /api/parent/children/{id}", s.rosterH.Delete)

	// Templates
	mux.HandleFunc("GET /api/parent/templates", s.templateH.List)
	mux.HandleFunc("POST /api/parent/templates", s.templateH.Create)
	mux.HandleFunc("PUT /api/parent/templates/{id}", s.templateH.Update)
	mux.HandleFunc("DELETE /api/parent/templates/{id}", s.templateH.Delete)

	// Settings
	mux.HandleFunc("GET /api/parent/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/parent/settings", s.settingsH.Update)
	mux.HandleFunc("POST /api/parent/settings/pin", s.settingsH.ChangePIN)

	// Reward bank and wallets
	mux.HandleFunc("GET /api/parent/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/parent/rewards", s.rewardH.Grant)
	mux.HandleFunc("POST /api/parent/rewards/{id}/settle", s.rewardH.Settle)
	mux.HandleFunc("DELETE /api/parent/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("GET /api/parent/wallets", s.rewardH.Wallets)
	mux.HandleFunc("GET /api/parent/wallets/{child_id}/transactions", s.rewardH.Transactions)
	mux.HandleFunc("POST /api/parent/transactions/{id}/settle", s.rewardH.SettleTransaction)
}
