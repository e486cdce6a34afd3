package feedback

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"taplink/internal/domain"
	"taplink/internal/pkg/response"
	"taplink/internal/repository"

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

func (h *Handler) RegisterRoutes(public, protected, owned *gin.RouterGroup) {
	if public != nil {
		public.POST("/feedback", h.Create)
		public.POST("/feedback/photos", h.UploadPhotos)
	}
	if protected != nil {
		protected.PUT("/feedback/:id/status", h.UpdateStatus)
	}
	if owned != nil {
		owned.GET("/business/:id/feedback", h.ListByBusiness)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch err {
		case ErrInvalidRating:
			response.Error(c, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 1 and 5")
		case ErrBusinessNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// UploadPhotos accepts up to 3 images and returns their URLs; the visitor
// then references them in the feedback submission.
func (h *Handler) UploadPhotos(c *gin.Context) {
	if h.uploads == nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "File storage is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Multipart form expected")
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "photos files are required")
		return
	}
	if len(files) > 3 {
		response.Error(c, http.StatusBadRequest, "TOO_MANY_FILES", "At most 3 photos per submission")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > 5<<20 {
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Each photo must be under 5MB")
			return
		}
		url, err := h.uploads.UploadFormFile(c.Request.Context(), "feedback", fh)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Could not store photo")
			return
		}
		urls = append(urls, url)
	}

	response.Success(c, http.StatusOK, gin.H{"photos": urls})
}

func (h *Handler) ListByBusiness(c *gin.Context) {
	businessID := c.GetInt64("business_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	rating, _ := strconv.Atoi(c.Query("rating"))

	items, total, err := h.svc.ListByBusiness(c.Request.Context(), businessID, repository.FeedbackFilter{
		Status: domain.FeedbackStatus(c.Query("status")),
		Rating: rating,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	feedbackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || feedbackID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid feedback ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	fb, err := h.svc.Moderate(c.Request.Context(), userID, feedbackID, req.Status)
	if err != nil {
		switch err {
		case ErrInvalidStatus:
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be pending, approved or rejected")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Feedback not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this business")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, fb)
}
