package business

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"taplink/internal/pkg/response"
	"taplink/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Uploader interface {
	UploadFormFile(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error)
}

type Handler struct {
	svc     *Service
	uploads Uploader
}

func NewHandler(svc *Service, uploads Uploader) *Handler {
	return &Handler{svc: svc, uploads: uploads}
}

// RegisterRoutes wires the public slug lookup plus the owner endpoints.
// owned must already carry JWT auth and the ownership check on ":id".
func (h *Handler) RegisterRoutes(public, protected, owned *gin.RouterGroup) {
	// The public lookup lives under /public to keep the :slug wildcard from
	// clashing with the owner-side /business/:id routes.
	if public != nil {
		public.GET("/public/business/:slug", h.GetBySlug)
	}
	if protected != nil {
		protected.POST("/business", h.Create)
		protected.GET("/business", h.ListMine)
	}
	if owned != nil {
		owned.GET("/business/:id", h.Get)
		owned.PUT("/business/:id", h.Update)
		owned.PUT("/business/:id/rewards", h.UpdateRewards)
		owned.POST("/business/:id/logo", h.UploadLogo)
		owned.GET("/business/:id/stats", h.Stats)
		owned.GET("/business/:id/qr", h.QRCode)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
		return
	}

	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	b, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch err {
		case ErrInvalidSlug:
			response.Error(c, http.StatusBadRequest, "INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
		case ErrSlugTaken:
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", "Slug is already in use")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	items, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id := c.GetInt64("business_id")
	b, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	b, err := h.svc.Update(c.Request.Context(), c.GetInt64("business_id"), req)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateRewards(c *gin.Context) {
	var req UpdateRewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	b, err := h.svc.UpdateRewards(c.Request.Context(), c.GetInt64("business_id"), req)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UploadLogo(c *gin.Context) {
	if h.uploads == nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "File storage is not configured")
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "logo file is required")
		return
	}
	if fh.Size > 5<<20 {
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Logo must be under 5MB")
		return
	}

	id := c.GetInt64("business_id")
	url, err := h.uploads.UploadFormFile(c.Request.Context(), "logos", fh)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Could not store logo")
		return
	}

	if err := h.svc.UpdateLogo(c.Request.Context(), id, url); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logoUrl": url})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.GetInt64("business_id"))
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) QRCode(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.svc.QRCode(c.Request.Context(), c.GetInt64("business_id"), size)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
