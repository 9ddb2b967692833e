package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/leave-api/internal/middleware"
	"github.com/noah-isme/leave-api/internal/models"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
	"github.com/noah-isme/leave-api/pkg/response"
)

// identityOrAbort returns the authenticated caller, writing a 401 when absent.
func identityOrAbort(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Abort(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return *identity, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return false
	}
	return true
}
