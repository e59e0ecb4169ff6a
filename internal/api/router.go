// Package api exposes the HTTP surface of the server: a chi router over
// the service layer, with every response wrapped in a common envelope.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
)

// API bundles the services behind the HTTP handlers.
type API struct {
	Auth   *service.AuthService
	Ledger *service.LedgerService
	Groups *service.GroupService
	Splits *service.SplitService
}

// NewRouter builds the chi router with logging, metrics and JWT auth
// wired in.
func NewRouter(a *API, tokens *auth.JWTManager) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)

		// Protected routes
		r.With(middleware.JWTAuth(tokens)).Group(func(r chi.Router) {
			r.Get("/users/me", a.currentUser)

			r.Post("/categories", a.createCategory)
			r.Get("/categories", a.listCategories)
			r.Put("/categories/{categoryID}", a.renameCategory)

			r.Post("/expenses", a.createExpense)
			r.Get("/expenses", a.listExpenses)
			r.Put("/expenses/{expenseID}", a.updateExpense)
			r.Delete("/expenses/{expenseID}", a.deleteExpense)

			r.Post("/goals", a.createGoal)
			r.Get("/goals", a.listGoals)
			r.Put("/goals/{goalID}", a.updateGoal)
			r.Delete("/goals/{goalID}", a.deleteGoal)

			r.Post("/split/groups", a.createGroup)
			r.Get("/split/groups", a.listGroups)
			r.Put("/split/groups/{groupID}", a.updateGroup)
			r.Get("/split/groups/{groupID}/expenses", a.groupExpenses)
			r.Get("/split/groups/{groupID}/activity", a.groupActivity)

			r.Post("/split/expenses", a.createSplitExpense)
			r.Put("/split/expenses/{expenseID}", a.updateSplitExpense)
			r.Delete("/split/expenses/{expenseID}", a.deleteSplitExpense)
			r.Post("/split/settle-up", a.createSettleUp)
			r.Put("/split/settle-up/{expenseID}", a.updateSettleUp)
		})
	})

	return r
}
