package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"BotAdmin/models"
	"BotAdmin/storage"

	"github.com/labstack/echo/v4"
)

type ResponseHandler struct {
	store storage.Store
}

func NewResponseHandler(store storage.Store) *ResponseHandler {
	return &ResponseHandler{store: store}
}

func (h *ResponseHandler) GetResponses(c echo.Context) error {
	clientID, err := strconv.ParseUint(c.Param("clientId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
	}

	responses, err := h.store.GetCustomResponsesByClientID(uint(clientID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch custom responses"})
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *ResponseHandler) CreateResponse(c echo.Context) error {
	var req struct {
		ClientID uint   `json:"client_id"`
		Keyword  string `json:"keyword"`
		Response string `json:"response"`
		IsActive *bool  `json:"is_active"` // omitted means active
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	// an empty keyword would match every message
	if strings.TrimSpace(req.Keyword) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "keyword is required"})
	}
	if req.Response == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "response text is required"})
	}
	if req.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_id is required"})
	}

	response := models.CustomResponse{
		ClientID: req.ClientID,
		Keyword:  req.Keyword,
		Response: req.Response,
		IsActive: true,
	}
	if req.IsActive != nil {
		response.IsActive = *req.IsActive
	}

	if err := h.store.CreateCustomResponse(&response); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create custom response"})
	}
	return c.JSON(http.StatusCreated, response)
}

func (h *ResponseHandler) UpdateResponse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid response ID"})
	}

	response, err := h.store.GetCustomResponse(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "custom response not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch custom response"})
	}

	if err := c.Bind(response); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(response.Keyword) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "keyword is required"})
	}
	response.ID = uint(id)

	if err := h.store.SaveCustomResponse(response); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update custom response"})
	}
	return c.JSON(http.StatusOK, response)
}

func (h *ResponseHandler) DeleteResponse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid response ID"})
	}

	if err := h.store.DeleteCustomResponse(uint(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "custom response not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete custom response"})
	}
	return c.NoContent(http.StatusNoContent)
}
