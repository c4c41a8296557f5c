// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tienda/internal/service/order/application"
	"tienda/internal/service/order/domain"
)

// OrderHandler 封装了 order 服务的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/create_order", h.handleCreateOrder)
	mux.HandleFunc("/get_order", h.handleGetOrder)
	mux.HandleFunc("/list_orders", h.handleListOrders)
	mux.HandleFunc("/transition_order", h.handleTransitionOrder)
	mux.HandleFunc("/set_payment_status", h.handleSetPaymentStatus)
	mux.HandleFunc("/reorder", h.handleReorder)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

// orderStatusCode 把订单领域错误映射为 HTTP 状态码。
func orderStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusForbidden // 请求本身有效，但状态机拒绝执行
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrNegativeShipping):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, resp)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	view, err := h.service.GetOrder(r.Context(), r.URL.Query().Get("order_id"))
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	writeJSON(w, view)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	views, err := h.service.ListCustomerOrders(r.Context(), r.URL.Query().Get("customer_id"))
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	writeJSON(w, views)
}

func (h *OrderHandler) handleTransitionOrder(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.TransitionStatus(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	writeJSON(w, view)
}

func (h *OrderHandler) handleSetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.PaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SetPaymentStatus(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	writeJSON(w, view)
}

func (h *OrderHandler) handleReorder(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	resp, err := h.service.Reorder(r.Context(), r.URL.Query().Get("order_id"))
	if err != nil {
		http.Error(w, err.Error(), orderStatusCode(err))
		return
	}
	writeJSON(w, resp)
}
