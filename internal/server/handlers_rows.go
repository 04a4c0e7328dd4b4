package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/rows"
)

func (h *httpHandler) handleListRows(c *gin.Context) {
	list, err := h.rows.List(c.Request.Context(), c.Param("databaseId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRowPayloads(list))
}

type createRowCellPayload struct {
	PropertyID string          `json:"propertyId"`
	Value      json.RawMessage `json:"value"`
}

type createRowPayload struct {
	Order *int                   `json:"order"`
	Cells []createRowCellPayload `json:"cells"`
}

func (h *httpHandler) handleCreateRow(c *gin.Context) {
	var request createRowPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	seeds := make([]rows.CellSeed, 0, len(request.Cells))
	for _, cell := range request.Cells {
		seeds = append(seeds, rows.CellSeed{
			PropertyID: cell.PropertyID,
			ValueJSON:  rawToJSONString(cell.Value),
		})
	}

	row, err := h.rows.Create(c.Request.Context(), c.Param("databaseId"), request.Order, seeds)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRowPayload(row))
}

type updateRowOrderPayload struct {
	Order int `json:"order"`
}

func (h *httpHandler) handleUpdateRowOrder(c *gin.Context) {
	var request updateRowOrderPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	row, err := h.rows.UpdateOrder(c.Request.Context(), c.Param("id"), request.Order)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRowPayload(row))
}

type reorderRowsPayload struct {
	OrderedIDs []string `json:"orderedIds"`
}

func (h *httpHandler) handleReorderRows(c *gin.Context) {
	var request reorderRowsPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.rows.Reorder(c.Request.Context(), request.OrderedIDs); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *httpHandler) handleDeleteRow(c *gin.Context) {
	if err := h.rows.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type upsertCellPayload struct {
	Value json.RawMessage `json:"value"`
}

func (h *httpHandler) handleUpsertCell(c *gin.Context) {
	var request upsertCellPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cell, err := h.rows.UpsertCell(
		c.Request.Context(),
		c.Param("rowId"),
		c.Param("propertyId"),
		rawToJSONString(request.Value),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCellPayload(cell))
}

func (h *httpHandler) handleDeleteCell(c *gin.Context) {
	if err := h.rows.DeleteCell(c.Request.Context(), c.Param("rowId"), c.Param("propertyId")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
