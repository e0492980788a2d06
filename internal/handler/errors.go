package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps err onto the standard envelope. Internal causes are
// logged here and never sent to the client.
func respondError(ctx context.Context, c *gin.Context, action string, err error) {
	status := apperrors.ToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, action).
			Int("http_status", status).
			Err(err).
			Log()
	} else {
		logger.WarnWithContext(ctx, action).
			Int("http_status", status).
			Err(err).
			Log()
	}

	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}
