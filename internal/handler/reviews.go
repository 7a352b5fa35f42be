package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/model"
)

// ReviewStore is implemented by repository.ReviewRepo and memory.Reviews.
type ReviewStore interface {
	List(ctx context.Context) ([]model.Review, error)
	Insert(ctx context.Context, rv *model.Review) error
}

// ReviewHandler lists reviews and accepts new ones from clients.
type ReviewHandler struct {
	Reviews ReviewStore
	Log     *zap.Logger
}

func NewReviewHandler(reviews ReviewStore, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Log: orNop(log)}
}

type createReviewReq struct {
	Username string `json:"username"`
	Text     string `json:"testo"`
	Rating   int    `json:"voto"`
}

// List handles GET /api/recensioni, newest first.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		return writeError(c, h.Log, "list reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /api/recensioni.  The author is the session user;
// a body username naming someone else is refused.
func (h *ReviewHandler) Create(c echo.Context) error {
	req := requester(c)
	var body createReviewReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if body.Username != "" && body.Username != req.Username {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	body.Text = strings.TrimSpace(body.Text)
	if body.Text == "" {
		return fail(c, http.StatusBadRequest, "testo required")
	}
	if body.Rating < 1 || body.Rating > 5 {
		return fail(c, http.StatusBadRequest, "voto must be between 1 and 5")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	rv := model.Review{Username: req.Username, Text: body.Text, Rating: body.Rating}
	if err := h.Reviews.Insert(ctx, &rv); err != nil {
		return writeError(c, h.Log, "create review", err)
	}
	return created(c, http.StatusCreated, rv.ID)
}
