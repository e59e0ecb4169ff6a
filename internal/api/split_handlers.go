package api

import (
	"net/http"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
)

func (a *API) createGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Members []int64 `json:"members"`
	}
	if !decode(w, r, &req) {
		return
	}

	group, err := a.Groups.CreateGroup(r.Context(), req.Name, req.Members)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "group created", group)
}

func (a *API) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.Groups.GetAllGroups(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "groups fetched", groups)
}

func (a *API) updateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	var req struct {
		Name    *string `json:"name"`
		Members []int64 `json:"members"`
	}
	if !decode(w, r, &req) {
		return
	}

	group, err := a.Groups.UpdateGroup(r.Context(), groupID, service.UpdateGroupParams{
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "group updated", group)
}

func (a *API) groupExpenses(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	expenses, err := a.Splits.GetExpensesByGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "split expenses fetched", expenses)
}

func (a *API) groupActivity(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	activity, err := a.Splits.GetSplitActivity(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "split activity fetched", activity)
}

type splitExpenseRequest struct {
	SplitGroupID int64   `json:"splitGroupId"`
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	PaidBy       int64   `json:"paidBy"`
	SplitBetween []int64 `json:"splitBetween"`
}

func (r splitExpenseRequest) params() service.SplitExpenseParams {
	return service.SplitExpenseParams{
		SplitGroupID: r.SplitGroupID,
		Title:        r.Title,
		Amount:       r.Amount,
		PaidBy:       r.PaidBy,
		SplitBetween: r.SplitBetween,
	}
}

func (a *API) createSplitExpense(w http.ResponseWriter, r *http.Request) {
	var req splitExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Splits.CreateSplitExpense(r.Context(), req.params())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "split expense created", exp)
}

func (a *API) updateSplitExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}
	var req splitExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Splits.UpdateSplitExpense(r.Context(), expenseID, middleware.UserID(r.Context()), req.params())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "split expense updated", exp)
}

func (a *API) deleteSplitExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}
	if err := a.Splits.DeleteSplitExpense(r.Context(), expenseID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "split expense deleted", map[string]bool{"deleted": true})
}

type settleUpRequest struct {
	SplitGroupID int64   `json:"splitGroupId"`
	From         int64   `json:"from"`
	To           int64   `json:"to"`
	Amount       float64 `json:"amount"`
}

func (r settleUpRequest) params() service.SettleUpParams {
	return service.SettleUpParams{
		SplitGroupID: r.SplitGroupID,
		From:         r.From,
		To:           r.To,
		Amount:       r.Amount,
	}
}

func (a *API) createSettleUp(w http.ResponseWriter, r *http.Request) {
	var req settleUpRequest
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Splits.CreateSettleUp(r.Context(), req.params())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "settle up created", exp)
}

func (a *API) updateSettleUp(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}
	var req settleUpRequest
	if !decode(w, r, &req) {
		return
	}

	exp, err := a.Splits.UpdateSettleUp(r.Context(), expenseID, middleware.UserID(r.Context()), req.params())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "settle up updated", exp)
}
