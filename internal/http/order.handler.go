package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teyman11/voicebot/internal/appcontext"
	"github.com/teyman11/voicebot/internal/entity"
	"github.com/teyman11/voicebot/internal/sheetstore"
	"go.uber.org/zap"
)

// toolCallPayload is the envelope the voice assistant wraps around
// function-call arguments.
type toolCallPayload struct {
	Message struct {
		ToolCalls []struct {
			Function struct {
				Arguments json.RawMessage `json:"arguments"`
			} `json:"function"`
		} `json:"toolCalls"`
	} `json:"message"`
}

func GetOrders(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.OrdersSheet)
		if err != nil {
			ctx.Logger.Error("Failed to fetch orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		orders := make([]entity.Order, 0, len(records))
		for _, record := range records {
			orders = append(orders, entity.OrderFromRecord(record))
		}
		c.JSON(http.StatusOK, orders)
	}
}

func AddOrder(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order entity.Order
		if err := c.ShouldBindJSON(&order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		saveOrder(ctx, c, order)
	}
}

// OrderComplete handles order tool calls from the voice assistant.
func OrderComplete(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload toolCallPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(payload.Message.ToolCalls) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing toolCalls in payload"})
			return
		}

		var order entity.Order
		if err := json.Unmarshal(payload.Message.ToolCalls[0].Function.Arguments, &order); err != nil {
			ctx.Logger.Error("Failed to decode order arguments", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in arguments"})
			return
		}
		saveOrder(ctx, c, order)
	}
}

func saveOrder(ctx *appcontext.Context, c *gin.Context, order entity.Order) {
	if err := order.Validate(); err != nil {
		ctx.Logger.Warn("Order validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.NewString()
	order.ID = id
	order.Timestamp = time.Now().Format(time.RFC3339)

	row := order.Row(id, order.Timestamp)
	if err := ctx.Store.Append(c.Request.Context(), sheetstore.OrdersSheet, row); err != nil {
		ctx.Logger.Error("Failed to save order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Logger.Info("Order saved", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order saved successfully",
		"id":      id,
		"order":   order,
	})
}

func UpdateOrder(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var order entity.Order
		if err := c.ShouldBindJSON(&order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := order.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// timestamp is re-stamped on every update: last-modified semantics.
		row := order.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.UpdateByID(c.Request.Context(), sheetstore.OrdersSheet, id, row); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			ctx.Logger.Error("Failed to update order", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "id": id})
	}
}

func DeleteOrder(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := ctx.Store.DeleteByID(c.Request.Context(), sheetstore.OrdersSheet, id); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			ctx.Logger.Error("Failed to delete order", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
