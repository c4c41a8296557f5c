// internal/service/promotion/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tienda/internal/service/promotion/application"
	"tienda/internal/service/promotion/domain"
)

// PromotionHandler 封装了 promotion 服务的 HTTP 处理器
type PromotionHandler struct {
	service *application.PromotionService
}

// NewPromotionHandler 创建一个新的 HTTP 处理器实例
func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *PromotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/validate_coupon", h.handleValidateCoupon)
	mux.HandleFunc("/consume_coupon", h.handleConsumeCoupon)
	mux.HandleFunc("/get_coupon", h.handleGetCoupon)
	mux.HandleFunc("/admin/create_coupon", h.handleCreateCoupon)
	mux.HandleFunc("/admin/update_coupon", h.handleUpdateCoupon)
	mux.HandleFunc("/admin/deactivate_coupon", h.handleDeactivateCoupon)
	mux.HandleFunc("/admin/list_coupons", h.handleListCoupons)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

// couponStatusCode 把券的各类拒绝原因映射为 HTTP 状态码。
// 每种拒绝都保持独立错误语义，前端据此展示精确的提示文案。
func couponStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCouponInactive),
		errors.Is(err, domain.ErrCouponOutOfWindow),
		errors.Is(err, domain.ErrCouponBelowMinimum),
		errors.Is(err, domain.ErrCouponExhausted):
		return http.StatusForbidden // 请求本身有效，但服务器拒绝执行
	case errors.Is(err, domain.ErrCouponCodeTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCouponCode),
		errors.Is(err, domain.ErrInvalidDiscountType),
		errors.Is(err, domain.ErrInvalidDiscountValue),
		errors.Is(err, domain.ErrInvalidValidityWindow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *PromotionHandler) handleValidateCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ValidateCoupon(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	writeJSON(w, resp)
}

func (h *PromotionHandler) handleConsumeCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.ConsumeCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ConsumeCoupon(r.Context(), req.Code); err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	writeJSON(w, map[string]interface{}{"success": true})
}

func (h *PromotionHandler) handleGetCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	code := r.URL.Query().Get("code")
	view, err := h.service.GetCoupon(r.Context(), code)
	if err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	writeJSON(w, view)
}

func (h *PromotionHandler) handleCreateCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var input application.CouponInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.CreateCoupon(r.Context(), &input)
	if err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, view)
}

func (h *PromotionHandler) handleUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	code := r.URL.Query().Get("code")
	var input application.CouponInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateCoupon(r.Context(), code, &input)
	if err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	writeJSON(w, view)
}

func (h *PromotionHandler) handleDeactivateCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	code := r.URL.Query().Get("code")
	if err := h.service.DeactivateCoupon(r.Context(), code); err != nil {
		http.Error(w, err.Error(), couponStatusCode(err))
		return
	}
	writeJSON(w, map[string]interface{}{"success": true})
}

func (h *PromotionHandler) handleListCoupons(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	views, err := h.service.ListCoupons(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, views)
}
