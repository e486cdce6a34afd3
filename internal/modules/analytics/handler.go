package analytics

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"taplink/internal/pkg/jwt"
	"taplink/internal/pkg/response"
	"taplink/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	svc        *Service
	hub        *Hub
	jwtService *jwt.Service
	businesses *repository.BusinessRepository
}

func NewHandler(svc *Service, hub *Hub, jwtService *jwt.Service, businesses *repository.BusinessRepository) *Handler {
	return &Handler{svc: svc, hub: hub, jwtService: jwtService, businesses: businesses}
}

func (h *Handler) RegisterRoutes(public, owned *gin.RouterGroup) {
	if public != nil {
		public.POST("/views", h.TrackView)
	}
	if owned != nil {
		owned.GET("/business/:id/analytics", h.Dashboard)
	}
}

// RegisterWS wires the dashboard stream outside the JWT middleware; the
// browser WebSocket API cannot set headers, so the token rides the query.
func (h *Handler) RegisterWS(r *gin.Engine) {
	r.GET("/api/v1/dashboard/ws", h.DashboardWS)
}

func (h *Handler) TrackView(c *gin.Context) {
	var req TrackViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	err := h.svc.TrackView(c.Request.Context(), req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		if err == ErrBusinessNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"tracked": true})
}

func (h *Handler) Dashboard(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))

	resp, err := h.svc.Dashboard(c.Request.Context(), c.GetInt64("business_id"), days)
	if err != nil {
		if err == ErrBusinessNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// DashboardWS streams live view and feedback events for one business.
//
// Endpoint: GET /api/v1/dashboard/ws?token=JWT&business_id=N
func (h *Handler) DashboardWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Token is required. Use ?token=YOUR_JWT_TOKEN"},
		})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"},
		})
		return
	}

	businessID, err := strconv.ParseInt(c.Query("business_id"), 10, 64)
	if err != nil || businessID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "business_id query parameter is required"},
		})
		return
	}

	business, err := h.businesses.GetByID(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "Business not found"},
		})
		return
	}
	if business.OwnerID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "FORBIDDEN", "message": "You don't own this business"},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := h.hub.Register(businessID, conn)
	log.Printf("dashboard connected business_id=%d user_id=%d", businessID, claims.UserID)

	defer func() {
		h.hub.Unregister(businessID, client)
		log.Printf("dashboard disconnected business_id=%d", businessID)
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	h.readLoop(conn, businessID)
}

// readLoop drains client frames until the connection dies. The dashboard
// stream is push-only; anything the client sends is ignored.
func (h *Handler) readLoop(conn *websocket.Conn, businessID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error business_id=%d: %v", businessID, err)
			}
			return
		}
	}
}
