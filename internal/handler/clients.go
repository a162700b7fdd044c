package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// ClientHandler serves /clients.
type ClientHandler struct {
	Clients service.ClientStore
}

func NewClientHandler(clients service.ClientStore) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

// List returns every client ordered by name.
func (h *ClientHandler) List(c echo.Context, _ service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	clients, err := h.Clients.ListByName(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, clients)
}
