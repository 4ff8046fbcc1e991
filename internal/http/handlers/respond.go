package handlers

import (
	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

// fail records err for the error middleware and stops the chain. Handlers
// return right after calling it.
func fail(ctx *gin.Context, err *apperr.Error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func failInternal(ctx *gin.Context, message string, err error) {
	fail(ctx, apperr.Internal(message, err))
}
