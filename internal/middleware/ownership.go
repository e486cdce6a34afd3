package middleware

import (
	"net/http"
	"strconv"

	"taplink/internal/repository"

	"github.com/gin-gonic/gin"
)

// OwnershipChecker provides middleware to verify resource ownership
type OwnershipChecker struct {
	businessRepo *repository.BusinessRepository
}

// NewOwnershipChecker creates a new ownership checker
func NewOwnershipChecker(businessRepo *repository.BusinessRepository) *OwnershipChecker {
	return &OwnershipChecker{businessRepo: businessRepo}
}

// CheckBusinessOwnership verifies the user owns the business
// Expects business ID in URL param "id"
func (oc *OwnershipChecker) CheckBusinessOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			return
		}

		businessIDStr := c.Param("id")
		businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_ID", "message": "Invalid business ID"},
			})
			return
		}

		business, err := oc.businessRepo.GetByID(c.Request.Context(), businessID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   gin.H{"code": "NOT_FOUND", "message": "Business not found"},
			})
			return
		}

		if business.OwnerID != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "You don't own this business"},
			})
			return
		}

		c.Set("business_id", businessID)
		c.Next()
	}
}
