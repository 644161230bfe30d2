package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"BotAdmin/models"
	"BotAdmin/services"
	"BotAdmin/storage"

	"github.com/labstack/echo/v4"
)

type ClientHandler struct {
	store storage.Store
	seed  *services.SeedService
}

func NewClientHandler(store storage.Store, seed *services.SeedService) *ClientHandler {
	return &ClientHandler{store: store, seed: seed}
}

// GetClients lists every client with its current counters attached.
func (h *ClientHandler) GetClients(c echo.Context) error {
	clients, err := h.store.GetAllClients()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch clients"})
	}

	result := make([]models.ClientWithStats, 0, len(clients))
	for _, client := range clients {
		entry := models.ClientWithStats{Client: client}
		if stats, err := h.store.GetStatisticsByClientID(client.ID); err == nil && len(stats) > 0 {
			entry.MessageCount = stats[0].MessageCount
			entry.UserCount = stats[0].UserCount
			entry.SupportRequestCount = stats[0].SupportRequestCount
		}
		result = append(result, entry)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
	}

	client, err := h.store.GetClientByID(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch client"})
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(c echo.Context) error {
	var client models.Client
	if err := c.Bind(&client); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if client.Name == "" || client.ChatTitle == "" || client.WelcomeMessage == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name, chat_title and welcome_message are required"})
	}
	client.ID = 0
	client.IsActive = true
	if client.PrimaryColor == "" {
		client.PrimaryColor = "#3B82F6"
	}
	if client.SecondaryColor == "" {
		client.SecondaryColor = "#10B981"
	}

	if err := h.store.CreateClient(&client); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create client"})
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) UpdateClient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
	}

	client, err := h.store.GetClientByID(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch client"})
	}

	// partial update: the bind only overwrites fields present in the body
	if err := c.Bind(client); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	client.ID = uint(id)

	if err := h.store.SaveClient(client); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update client"})
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
	}

	if err := h.store.DeleteClient(uint(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete client"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDashboardStats aggregates the counters across all clients.
func (h *ClientHandler) GetDashboardStats(c echo.Context) error {
	stats, err := h.store.GetDashboardStats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch dashboard statistics"})
	}
	return c.JSON(http.StatusOK, stats)
}

// InitDB seeds the demo data set.
func (h *ClientHandler) InitDB(c echo.Context) error {
	if err := h.seed.Run(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to initialize database"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "database initialized successfully"})
}
