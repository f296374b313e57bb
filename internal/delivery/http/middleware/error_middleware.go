package middleware

import (
	"errors"
	"net/http"

	"go-contact-relay/internal/delivery/http/response"
	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/apperror"
	"go-contact-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors pushed with c.Error. Raw causes of server
// errors are returned as details only when exposeDetails is set.
func ErrorHandler(exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			details := ""
			if exposeDetails && appErr.Code >= http.StatusInternalServerError {
				details = appErr.Details()
			}
			response.Error(c, appErr.Code, appErr.Message, details)
			return
		}

		// SECURITY: Never expose unclassified error text to clients.
		logger.Log.ErrorContext(c.Request.Context(), "Global error", "error", err, "path", c.Request.URL.Path)
		response.Error(c, http.StatusInternalServerError, domain.MsgInternalError, "")
	}
}

// Recovery turns panics into the generic 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.ErrorContext(c.Request.Context(), "Global error", "panic", recovered, "path", c.Request.URL.Path)
		response.Error(c, http.StatusInternalServerError, domain.MsgInternalError, "")
		c.Abort()
	})
}

// NotFound answers every unmatched route
func NotFound(c *gin.Context) {
	c.Error(apperror.NotFound(domain.MsgNotFound))
}
