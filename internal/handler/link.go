package handler

import (
	"net/http"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/internal/dto"
	"github.com/Payphone-Digital/shortlink/internal/middleware"
	"github.com/Payphone-Digital/shortlink/internal/service"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/gin-gonic/gin"
)

type LinkHandler struct {
	linkService     *service.LinkService
	redirectService *service.RedirectService
}

func NewLinkHandler(linkService *service.LinkService, redirectService *service.RedirectService) *LinkHandler {
	return &LinkHandler{
		linkService:     linkService,
		redirectService: redirectService,
	}
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := ctxutil.GetUserIDUint(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgNoToken, nil))
	}
	return userID, ok
}

func (h *LinkHandler) Shorten(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Shorten")

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	req, ok := middleware.ValidatedBody[dto.ShortenRequest](c)
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgURLRequired, nil))
		return
	}

	link, err := h.linkService.CreateLink(ctx, userID, req)
	if err != nil {
		respondError(ctx, c, "Failed to shorten url", err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(constants.MsgURLShortened, link))
}

func (h *LinkHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListLinks")

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	links, err := h.linkService.ListLinks(ctx, userID)
	if err != nil {
		respondError(ctx, c, "Failed to fetch urls", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(constants.MsgURLsFetched, links))
}

func (h *LinkHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteLink")

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.linkService.DeleteLink(ctx, userID, c.Param("urlId")); err != nil {
		respondError(ctx, c, "Failed to delete url", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgURLDeleted))
}

// Redirect is public: it records the click and answers 302. Failures stay JSON.
func (h *LinkHandler) Redirect(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Redirect")

	code := c.Param("shortCode")
	visit := dto.NewVisit(
		c.GetHeader(constants.HeaderReferer),
		c.GetHeader(constants.HeaderUserAgent),
		c.ClientIP(),
		c.GetHeader(constants.HeaderCFIPCountry),
	)

	target, err := h.redirectService.Visit(ctx, code, visit)
	if err != nil {
		respondError(ctx, c, "Redirect failed", err)
		return
	}

	logger.DebugWithContext(ctx, "Redirecting").
		String("short_code", code).
		Log()

	c.Redirect(http.StatusFound, target)
}
