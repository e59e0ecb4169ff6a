package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// queryRange parses optional from/to query params as Unix milliseconds.
func queryRange(r *http.Request) (from, to int64) {
	from, _ = strconv.ParseInt(r.URL.Query().Get("from"), 10, 64)
	to, _ = strconv.ParseInt(r.URL.Query().Get("to"), 10, 64)
	return from, to
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryName string             `json:"categoryName"`
		ExpenseType  models.ExpenseType `json:"expenseType"`
	}
	if !decode(w, r, &req) {
		return
	}

	cat, err := a.Ledger.CreateCategory(r.Context(), middleware.UserID(r.Context()), req.CategoryName, req.ExpenseType)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "category created", cat)
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.Ledger.ListCategories(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "categories fetched", cats)
}

func (a *API) renameCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}
	var req struct {
		CategoryName string `json:"categoryName"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := a.Ledger.RenameCategory(r.Context(), middleware.UserID(r.Context()), categoryID, req.CategoryName); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "category renamed", nil)
}

func (a *API) createExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID  int64              `json:"categoryId"`
		Name        string             `json:"name"`
		ExpenseType models.ExpenseType `json:"expenseType"`
		Amount      float64            `json:"amount"`
		Description string             `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Ledger.CreateExpense(r.Context(), middleware.UserID(r.Context()), service.CreateExpenseParams{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		ExpenseType: req.ExpenseType,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "expense created", exp)
}

func (a *API) listExpenses(w http.ResponseWriter, r *http.Request) {
	from, to := queryRange(r)
	expenses, err := a.Ledger.ListExpenses(r.Context(), middleware.UserID(r.Context()), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "expenses fetched", expenses)
}

func (a *API) updateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}
	var req struct {
		CategoryID  *int64              `json:"categoryId"`
		Name        *string             `json:"name"`
		ExpenseType *models.ExpenseType `json:"expenseType"`
		Amount      *float64            `json:"amount"`
		Description *string             `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Ledger.UpdateExpense(r.Context(), middleware.UserID(r.Context()), expenseID, service.UpdateExpenseParams{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		ExpenseType: req.ExpenseType,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "expense updated", exp)
}

func (a *API) deleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}
	if err := a.Ledger.DeleteExpense(r.Context(), middleware.UserID(r.Context()), expenseID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "expense deleted", map[string]bool{"deleted": true})
}

func (a *API) createGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID   int64              `json:"categoryId"`
		ExpenseType  models.ExpenseType `json:"expenseType"`
		TargetAmount float64            `json:"targetAmount"`
		Description  string             `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}

	goal, err := a.Ledger.CreateGoal(r.Context(), middleware.UserID(r.Context()), service.CreateGoalParams{
		CategoryID:   req.CategoryID,
		ExpenseType:  req.ExpenseType,
		TargetAmount: req.TargetAmount,
		Description:  req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "goal created", goal)
}

func (a *API) listGoals(w http.ResponseWriter, r *http.Request) {
	from, to := queryRange(r)
	goals, err := a.Ledger.ListGoals(r.Context(), middleware.UserID(r.Context()), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "goals fetched", goals)
}

func (a *API) updateGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}
	var req struct {
		TargetAmount *float64 `json:"targetAmount"`
		Description  *string  `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}

	goal, err := a.Ledger.UpdateGoal(r.Context(), middleware.UserID(r.Context()), goalID, service.UpdateGoalParams{
		TargetAmount: req.TargetAmount,
		Description:  req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "goal updated", goal)
}

func (a *API) deleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}
	if err := a.Ledger.DeleteGoal(r.Context(), middleware.UserID(r.Context()), goalID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "goal deleted", map[string]bool{"deleted": true})
}
