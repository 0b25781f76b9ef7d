package http

import (
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

func GetMenuItems(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.MenuItemsSheet)
		if err != nil {
			ctx.Logger.Error("Failed to fetch menu items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		items := make([]entity.MenuItem, 0, len(records))
		for _, record := range records {
			items = append(items, entity.MenuItemFromRecord(record))
		}
		c.JSON(http.StatusOK, items)
	}
}

func AddMenuItem(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item entity.MenuItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := uuid.NewString()
		row := item.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.Append(c.Request.Context(), sheetstore.MenuItemsSheet, row); err != nil {
			ctx.Logger.Error("Failed to add menu item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added successfully", "id": id})
	}
}

func UpdateMenuItem(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var item entity.MenuItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		row := item.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.UpdateByID(c.Request.Context(), sheetstore.MenuItemsSheet, id, row); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
				return
			}
			ctx.Logger.Error("Failed to update menu item", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu item updated successfully", "id": id})
	}
}

func DeleteMenuItem(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := ctx.Store.DeleteByID(c.Request.Context(), sheetstore.MenuItemsSheet, id); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			ctx.Logger.Error("Failed to delete menu item", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	}
}
