package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/databases"
)

func (h *httpHandler) handleListDatabases(c *gin.Context) {
	list, err := h.databases.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *httpHandler) handleListTemplates(c *gin.Context) {
	templates := databases.ListTemplates()
	payloads := make([]templatePayload, 0, len(templates))
	for _, template := range templates {
		payloads = append(payloads, toTemplatePayload(template))
	}
	c.JSON(http.StatusOK, payloads)
}

func (h *httpHandler) handleGetDatabase(c *gin.Context) {
	detail, err := h.databases.Get(c.Request.Context(), c.Param("databaseId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDatabaseDetailPayload(detail))
}

type createDatabasePayload struct {
	Name       string `json:"name"`
	ProjectID  string `json:"projectId"`
	TemplateID string `json:"templateId"`
}

// handleCreateDatabase serves both creation paths: a templateId instantiates
// the template's schema transactionally, otherwise a blank database is
// created. Both return the same hydrated detail shape.
func (h *httpHandler) handleCreateDatabase(c *gin.Context) {
	var request createDatabasePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var (
		detail databases.Detail
		err    error
	)
	if strings.TrimSpace(request.TemplateID) != "" {
		detail, err = h.databases.CreateFromTemplate(c.Request.Context(), request.Name, request.ProjectID, request.TemplateID)
	} else {
		detail, err = h.databases.Create(c.Request.Context(), request.Name, request.ProjectID)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDatabaseDetailPayload(detail))
}

type renameDatabasePayload struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleRenameDatabase(c *gin.Context) {
	var request renameDatabasePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	database, err := h.databases.Rename(c.Request.Context(), c.Param("databaseId"), request.Name)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, database)
}

type updateViewTypePayload struct {
	ViewType string `json:"viewType"`
}

func (h *httpHandler) handleUpdateViewType(c *gin.Context) {
	var request updateViewTypePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	viewType, err := databases.ParseViewType(request.ViewType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_view_type"})
		return
	}

	database, err := h.databases.SetViewType(c.Request.Context(), c.Param("databaseId"), viewType)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, database)
}

func (h *httpHandler) handleDeleteDatabase(c *gin.Context) {
	if err := h.databases.Delete(c.Request.Context(), c.Param("databaseId")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
