package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"BotAdmin/services"

	"github.com/labstack/echo/v4"
)

type AgentHandler struct {
	supportService *services.SupportService
}

func NewAgentHandler(supportService *services.SupportService) *AgentHandler {
	return &AgentHandler{supportService: supportService}
}

func (h *AgentHandler) GetAgents(c echo.Context) error {
	agents, err := h.supportService.ListAgents()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch support agents"})
	}
	return c.JSON(http.StatusOK, agents)
}

// UpdateAvailability flips the agent's availability gate.
func (h *AgentHandler) UpdateAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	agent, err := h.supportService.SetAgentAvailability(uint(id), req.IsAvailable)
	if err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "support agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update support agent"})
	}
	return c.JSON(http.StatusOK, agent)
}
