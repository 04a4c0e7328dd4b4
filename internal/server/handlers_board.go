package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/kanban"
	"github.com/nexum-labs/nexum/backend/internal/properties"
)

func (h *httpHandler) handleGetBoard(c *gin.Context) {
	board, _, err := h.buildBoard(c.Request.Context(), c.Param("databaseId"), c.Query("groupBy"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardPayload(board))
}

type boardMovePayload struct {
	GroupBy      string `json:"groupBy"`
	RowID        string `json:"rowId"`
	TargetColumn string `json:"targetColumn"`
	TargetIndex  *int   `json:"targetIndex"`
}

// handleBoardMove executes a drop plan: the group-by cell write first, then
// the single flattened reorder. The two writes are not atomic with each
// other; a reorder failure after the cell write leaves the row in the new
// column at a stale position, which the next projection repairs visually.
func (h *httpHandler) handleBoardMove(c *gin.Context) {
	var request boardMovePayload
	if err := c.ShouldBindJSON(&request); err != nil || request.RowID == "" || request.TargetColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	ctx := c.Request.Context()
	board, _, err := h.buildBoard(ctx, c.Param("databaseId"), request.GroupBy)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	targetIndex := -1
	if request.TargetIndex != nil {
		targetIndex = *request.TargetIndex
	}

	plan, err := kanban.PlanDrop(board, request.RowID, request.TargetColumn, targetIndex)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if plan.CellChange != nil {
		change := plan.CellChange
		if change.ValueJSON == nil {
			if err := h.rows.DeleteCell(ctx, change.RowID, change.PropertyID); err != nil {
				h.writeServiceError(c, err)
				return
			}
		} else {
			if _, err := h.rows.UpsertCell(ctx, change.RowID, change.PropertyID, change.ValueJSON); err != nil {
				h.writeServiceError(c, err)
				return
			}
		}
	}

	if err := h.rows.Reorder(ctx, plan.OrderedIDs); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *httpHandler) buildBoard(ctx context.Context, databaseID, groupByID string) (kanban.Board, []properties.Property, error) {
	schema, err := h.registry.List(ctx, databaseID)
	if err != nil {
		return kanban.Board{}, nil, err
	}

	var groupBy *properties.Property
	for i := range schema {
		if schema[i].ID == groupByID {
			groupBy = &schema[i]
			break
		}
	}
	if groupBy == nil {
		return kanban.Board{}, nil, properties.ErrPropertyNotFound
	}

	rowList, err := h.rows.List(ctx, databaseID)
	if err != nil {
		return kanban.Board{}, nil, err
	}

	board, err := kanban.BuildBoard(*groupBy, schema, rowList)
	if err != nil {
		return kanban.Board{}, nil, err
	}
	return board, schema, nil
}
