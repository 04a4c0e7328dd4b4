package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/documents"
)

func (h *httpHandler) handleListDocuments(c *gin.Context) {
	var projectID *string
	if value, ok := c.GetQuery("projectId"); ok && value != "" {
		projectID = &value
	}

	list, err := h.documents.List(c.Request.Context(), projectID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	payloads := make([]documentPayload, 0, len(list))
	for _, document := range list {
		payloads = append(payloads, toDocumentPayload(document))
	}
	c.JSON(http.StatusOK, payloads)
}

func (h *httpHandler) handleGetDocument(c *gin.Context) {
	document, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentPayload(document))
}

type createDocumentPayload struct {
	Title     string `json:"title"`
	ProjectID string `json:"projectId"`
}

func (h *httpHandler) handleCreateDocument(c *gin.Context) {
	var request createDocumentPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	document, err := h.documents.Create(c.Request.Context(), request.Title, request.ProjectID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDocumentPayload(document))
}

type updateDocumentPayload struct {
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
}

func (h *httpHandler) handleUpdateDocument(c *gin.Context) {
	var request updateDocumentPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	update := documents.UpdateRequest{Title: request.Title}
	if len(request.Content) > 0 {
		content := string(request.Content)
		update.ContentJSON = &content
	}

	document, err := h.documents.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentPayload(document))
}

func (h *httpHandler) handleDeleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
