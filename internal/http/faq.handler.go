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

func GetFAQs(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.FAQsSheet)
		if err != nil {
			ctx.Logger.Error("Failed to fetch FAQs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		faqs := make([]entity.FAQ, 0, len(records))
		for _, record := range records {
			faq := entity.FAQFromRecord(record)
			if faq.ID == "" || faq.Question == "" || faq.Answer == "" {
				continue
			}
			faqs = append(faqs, faq)
		}
		c.JSON(http.StatusOK, faqs)
	}
}

func AddFAQ(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var faq entity.FAQ
		if err := c.ShouldBindJSON(&faq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := faq.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Stray blank rows accumulate from manual sheet edits; drop them so
		// the new entry lands in a clean position.
		if err := ctx.Store.PruneBlankRows(c.Request.Context(), sheetstore.FAQsSheet); err != nil {
			ctx.Logger.Error("Failed to prune blank FAQ rows", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		id := uuid.NewString()
		row := faq.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.Append(c.Request.Context(), sheetstore.FAQsSheet, row); err != nil {
			ctx.Logger.Error("Failed to add FAQ", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added successfully", "id": id})
	}
}

func UpdateFAQ(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var faq entity.FAQ
		if err := c.ShouldBindJSON(&faq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := faq.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		row := faq.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.UpdateByID(c.Request.Context(), sheetstore.FAQsSheet, id, row); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
				return
			}
			ctx.Logger.Error("Failed to update FAQ", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "FAQ updated successfully", "id": id})
	}
}

func DeleteFAQ(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := ctx.Store.DeleteByID(c.Request.Context(), sheetstore.FAQsSheet, id); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
				return
			}
			ctx.Logger.Error("Failed to delete FAQ", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	}
}
