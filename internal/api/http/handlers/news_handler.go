package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/service"
)

// NewsHandler exposes the guarded news feed proxy.
type NewsHandler struct {
	news *service.NewsService
}

// NewNewsHandler constructs handler.
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{news: newsService}
}

// Feed handles GET /api/news.
func (h *NewsHandler) Feed(c *fiber.Ctx) error {
	feed, err := h.news.Feed(c.Context(), c.Query("topic"))
	if err != nil {
		return err
	}
	return c.JSON(feed)
}
