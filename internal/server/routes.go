package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godent-be/internal/config"
	"godent-be/internal/handler"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Favorite *handler.FavoriteHandler
	Order    *handler.OrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Catalog.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Favorite.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
}
