// Package response renders the envelope every TapLink endpoint shares:
// {"success":true,"data":...} on success, {"success":false,"error":{...}}
// on failure. Handlers never write JSON any other way.
package response

import "github.com/gin-gonic/gin"

// Success wraps the payload in the success envelope.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error reports a machine-readable code plus a human-readable message.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails is Error with an extra details payload, used for the
// per-field messages of validation failures.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
