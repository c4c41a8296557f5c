// internal/service/loyalty/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tienda/internal/service/loyalty/application"
	"tienda/internal/service/loyalty/domain"
)

// LoyaltyHandler 封装了 loyalty 服务的 HTTP 处理器
type LoyaltyHandler struct {
	service *application.LoyaltyService
}

// NewLoyaltyHandler 创建一个新的 HTTP 处理器实例
func NewLoyaltyHandler(service *application.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *LoyaltyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/redeem_points", h.handleRedeemPoints)
	mux.HandleFunc("/loyalty_balance", h.handleBalance)
	mux.HandleFunc("/loyalty_history", h.handleHistory)
	mux.HandleFunc("/tier_progress", h.handleTierProgress)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *LoyaltyHandler) handleRedeemPoints(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.RedeemPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.RedeemPoints(r.Context(), &req)
	if err != nil {
		var statusCode int
		switch {
		case errors.Is(err, domain.ErrInsufficientPoints):
			statusCode = http.StatusForbidden
		case errors.Is(err, domain.ErrInvalidPointsAmount):
			statusCode = http.StatusBadRequest
		default:
			statusCode = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), statusCode)
		return
	}
	writeJSON(w, resp)
}

func (h *LoyaltyHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}

	balance, err := h.service.Balance(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"customer_id": customerID,
		"balance":     balance,
	})
}

func (h *LoyaltyHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.service.History(r.Context(), customerID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

func (h *LoyaltyHandler) handleTierProgress(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.TierProgress(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}
