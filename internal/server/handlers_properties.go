package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/properties"
)

func (h *httpHandler) handleListProperties(c *gin.Context) {
	list, err := h.registry.List(c.Request.Context(), c.Param("databaseId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPropertyPayloads(list))
}

type createPropertyPayload struct {
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	Order              int             `json:"order"`
	Config             json.RawMessage `json:"config"`
	RelationDatabaseID *string         `json:"relationDatabaseId"`
}

func (h *httpHandler) handleCreateProperty(c *gin.Context) {
	var request createPropertyPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	propertyType, err := properties.ParseType(request.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_type"})
		return
	}

	configJSON := ""
	if len(request.Config) > 0 {
		configJSON = string(request.Config)
	}

	property, err := h.registry.Create(c.Request.Context(), properties.CreateRequest{
		DatabaseID:         c.Param("databaseId"),
		Name:               request.Name,
		Type:               propertyType,
		Order:              request.Order,
		ConfigJSON:         configJSON,
		RelationDatabaseID: request.RelationDatabaseID,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPropertyPayload(property))
}

type updatePropertyPayload struct {
	Name   *string         `json:"name"`
	Order  *int            `json:"order"`
	Config json.RawMessage `json:"config"`
}

func (h *httpHandler) handleUpdateProperty(c *gin.Context) {
	var request updatePropertyPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	update := properties.UpdateRequest{Name: request.Name, Order: request.Order}
	if len(request.Config) > 0 {
		config := string(request.Config)
		update.ConfigJSON = &config
	}

	property, err := h.registry.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPropertyPayload(property))
}

func (h *httpHandler) handleDeleteProperty(c *gin.Context) {
	if err := h.registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
