package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleListProjects(c *gin.Context) {
	var parentID *string
	if value, ok := c.GetQuery("parentId"); ok && value != "" {
		parentID = &value
	}

	list, err := h.projects.List(c.Request.Context(), parentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *httpHandler) handleGetProject(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type createProjectPayload struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h *httpHandler) handleCreateProject(c *gin.Context) {
	var request createProjectPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), request.Name, request.ParentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

type renameProjectPayload struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleRenameProject(c *gin.Context) {
	var request renameProjectPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	project, err := h.projects.Rename(c.Request.Context(), c.Param("id"), request.Name)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *httpHandler) handleDeleteProject(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
