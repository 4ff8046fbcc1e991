package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	Stack     []string    `json:"stack,omitempty"`
}

// ErrorHandler renders the last error attached with ctx.Error as
// {"error": APIError}. Stacks are only exposed when exposeStack is set.
func ErrorHandler(log *slog.Logger, exposeStack bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}

		ae := apperr.From(ctx.Errors.Last().Err)

		if ae.Status >= http.StatusInternalServerError {
			log.ErrorContext(ctx.Request.Context(), "request failed",
				"err", ae.Error(),
				"route", ctx.FullPath(),
			)
		}

		body := APIError{
			Code:      ae.Code,
			Message:   ae.Message,
			RequestID: RequestIDFrom(ctx),
			Details:   ae.Details,
		}
		if exposeStack {
			body.Stack = ae.Stack
		}

		ctx.AbortWithStatusJSON(ae.Status, gin.H{"error": body})
	}
}

// Recovery turns a panic into a 500 handled by ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered any) {
		_ = ctx.Error(apperr.Internal("Internal server error", fmt.Errorf("panic: %v", recovered)))
		ctx.Abort()
	})
}
