package coupon

import (
	"net/http"
	"strconv"

	"taplink/internal/pkg/response"
	"taplink/internal/pkg/validator"
	"taplink/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected, owned *gin.RouterGroup) {
	// Redeem is registered separately in main behind its own rate limiter.
	if public != nil {
		public.POST("/coupon/create", h.Create)
	}
	if protected != nil {
		protected.POST("/coupon/verify", h.Verify)
	}
	if owned != nil {
		owned.GET("/business/:id/coupons", h.ListByBusiness)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
		return
	}

	coupon, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business or feedback not found")
		case ErrNotEligible:
			response.Error(c, http.StatusUnprocessableEntity, "NOT_ELIGIBLE", "This feedback does not qualify for a reward")
		case ErrAlreadyIssued:
			response.Error(c, http.StatusConflict, "ALREADY_ISSUED", "A coupon was already issued for this feedback")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, coupon)
}

func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	coupon, err := h.svc.Redeem(c.Request.Context(), req.Code)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Coupon not found")
		case ErrAlreadyUsed:
			response.Error(c, http.StatusConflict, "ALREADY_USED", "Coupon has already been used")
		case ErrExpired:
			response.Error(c, http.StatusGone, "EXPIRED", "Coupon has expired")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	view, err := h.svc.Verify(c.Request.Context(), userID, req.Code, req.BusinessID)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Coupon not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This coupon belongs to another business")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ListByBusiness(c *gin.Context) {
	businessID := c.GetInt64("business_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, stats, err := h.svc.ListByBusiness(c.Request.Context(), businessID, repository.CouponFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items, "total": total, "stats": stats})
}
