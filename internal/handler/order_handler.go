package handler

import (
	"io"
	"net/http"
	"strconv"

	"godent-be/internal/config"
	"godent-be/internal/middleware"
	"godent-be/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP。注文作成と webhook はゲストでも届く。
type OrderHandler struct {
	orderUC   *usecase.OrderUsecase
	webhookUC *usecase.WebhookUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, webhookUC *usecase.WebhookUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, webhookUC: webhookUC}
}

type CreateOrderRequest struct {
	CustomerName  string                         `json:"customerName"`
	CustomerEmail string                         `json:"customerEmail"`
	CartItems     []usecase.CreateOrderItemInput `json:"cartItems"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")

	// webhook は署名検証が認証。JWTは見ない。
	g.POST("/webhook", h.webhook)

	g.POST("/create-order", h.create, middleware.OptionalAuthJWT(cfg))
	g.GET("", h.list, middleware.AuthJWT(cfg))
	g.GET("/:orderId", h.detail, middleware.OptionalAuthJWT(cfg))
}

func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.orderUC.CreateOrder(c.Request().Context(), optionalUserID(c), usecase.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         req.CartItems,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orderUC.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	out, err := h.orderUC.GetOrder(c.Request().Context(), optionalUserID(c), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 署名検証に生のボディが要るので Bind は使わない。
func (h *OrderHandler) webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if err := h.webhookUC.HandleEvent(c.Request().Context(), payload, sig); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
