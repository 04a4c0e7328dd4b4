package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/databases"
	"github.com/nexum-labs/nexum/backend/internal/projects"
)

type searchResponsePayload struct {
	Projects  []projects.Project   `json:"projects"`
	Databases []databases.Database `json:"databases"`
	Documents []documentPayload    `json:"documents"`
}

func (h *httpHandler) handleSearch(c *gin.Context) {
	results, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	documents := make([]documentPayload, 0, len(results.Documents))
	for _, document := range results.Documents {
		documents = append(documents, toDocumentPayload(document))
	}

	c.JSON(http.StatusOK, searchResponsePayload{
		Projects:  results.Projects,
		Databases: results.Databases,
		Documents: documents,
	})
}
