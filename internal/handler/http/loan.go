package http

import (
	"encoding/json"
	"net/http"

	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LoanHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	ListEmployeeLoans(w http.ResponseWriter, r *http.Request)
	UpdateLoan(w http.ResponseWriter, r *http.Request)
	DeactivateLoan(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.Service
}

func NewLoanHandler(loanService loan.Service) LoanHandler {
	return &loanHandlerImpl{loanService: loanService}
}

func (h *loanHandlerImpl) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loan.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.CreateLoan(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan created", result)
}

func (h *loanHandlerImpl) ListEmployeeLoans(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	activeOnly := r.URL.Query().Get("active_only") != "false"

	result, err := h.loanService.ListEmployeeLoans(r.Context(), employeeID, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	var req loan.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.loanService.UpdateLoan(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) DeactivateLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	if err := h.loanService.DeactivateLoan(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan deactivated", nil)
}
