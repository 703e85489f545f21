package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/api/middleware"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db *gorm.DB
}

func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description,omitempty"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	TransactionID string  `json:"transactionId"`
	ClientID      string  `json:"clientId"`
	ClientName    string  `json:"clientName,omitempty"`
	PaymentDate   string  `json:"paymentDate"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func paymentToResponse(payment *models.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            payment.ID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Description:   payment.Description,
		Status:        payment.Status,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		ClientID:      payment.ClientID.String(),
		PaymentDate:   payment.PaymentDate.Format(time.RFC3339),
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     payment.UpdatedAt.Format(time.RFC3339),
	}
	if payment.Client != nil {
		resp.ClientName = payment.Client.Name
	}
	return resp
}

// newTransactionID mirrors the original TXN-<12 hex> convention.
func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TXN-%s", strings.ToUpper(hex[:12]))
}

// List handles GET /api/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	query := h.db.WithContext(r.Context()).
		Preload("Client").
		Where("user_id = ?", userID)

	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("payment_date DESC").Find(&payments).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list payments"})
		return
	}

	response := make([]PaymentResponse, len(payments))
	for i := range payments {
		response[i] = paymentToResponse(&payments[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// CreatePaymentRequest represents the request to create a payment
type CreatePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	ClientID      string  `json:"clientId"`
}

func (r CreatePaymentRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Amount == 0 {
		errs["amount"] = "Amount is required"
	}
	if r.ClientID == "" {
		errs["clientId"] = "Client ID is required"
	}
	return errs
}

// Create handles POST /api/payments. The referenced client must belong to
// the caller.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var client models.Client
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", req.ClientID, userID).
		First(&client).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Client not found"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	payment := models.Payment{
		Amount:        req.Amount,
		Currency:      currency,
		Description:   req.Description,
		Status:        status,
		PaymentMethod: req.PaymentMethod,
		TransactionID: newTransactionID(),
		ClientID:      client.ID,
		UserID:        userID,
		PaymentDate:   time.Now(),
	}

	if err := h.db.WithContext(r.Context()).Create(&payment).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error adding payment"})
		return
	}

	payment.Client = &client
	writeJSON(w, http.StatusCreated, paymentToResponse(&payment))
}

// Get handles GET /api/payments/:id
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
		return
	}

	var payment models.Payment
	if err := h.db.WithContext(r.Context()).
		Preload("Client").
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get payment"})
		return
	}

	writeJSON(w, http.StatusOK, paymentToResponse(&payment))
}

// Update handles PUT /api/payments/:id
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
		return
	}

	var payment models.Payment
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get payment"})
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if amount, ok := req["amount"].(float64); ok {
		payment.Amount = amount
	}
	if status, ok := req["status"].(string); ok {
		payment.Status = status
	}
	if description, ok := req["description"].(string); ok {
		payment.Description = description
	}
	if method, ok := req["paymentMethod"].(string); ok {
		payment.PaymentMethod = method
	}

	if err := h.db.WithContext(r.Context()).Save(&payment).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error updating payment"})
		return
	}

	writeJSON(w, http.StatusOK, paymentToResponse(&payment))
}

// Delete handles DELETE /api/payments/:id
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
		return
	}

	var payment models.Payment
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Payment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get payment"})
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(&payment).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error deleting payment"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Payment deleted successfully"})
}
