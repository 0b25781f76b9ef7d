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

func GetReservations(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.ReservationsSheet)
		if err != nil {
			ctx.Logger.Error("Failed to fetch reservations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		reservations := make([]entity.Reservation, 0, len(records))
		for _, record := range records {
			reservations = append(reservations, entity.ReservationFromRecord(record))
		}
		c.JSON(http.StatusOK, reservations)
	}
}

func AddReservation(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reservation entity.Reservation
		if err := c.ShouldBindJSON(&reservation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		saveReservation(ctx, c, reservation)
	}
}

// ReservationComplete handles reservation tool calls from the voice
// assistant.
func ReservationComplete(ctx *appcontext.Context) gin.HandlerFunc {
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

		var reservation entity.Reservation
		if err := json.Unmarshal(payload.Message.ToolCalls[0].Function.Arguments, &reservation); err != nil {
			ctx.Logger.Error("Failed to decode reservation arguments", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in arguments"})
			return
		}
		if reservation.SpecialRequests == "" {
			reservation.SpecialRequests = "None"
		}
		saveReservation(ctx, c, reservation)
	}
}

func saveReservation(ctx *appcontext.Context, c *gin.Context, reservation entity.Reservation) {
	if err := reservation.Validate(); err != nil {
		ctx.Logger.Warn("Reservation validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.NewString()
	reservation.ID = id
	reservation.Timestamp = time.Now().Format(time.RFC3339)

	row := reservation.Row(id, reservation.Timestamp)
	if err := ctx.Store.Append(c.Request.Context(), sheetstore.ReservationsSheet, row); err != nil {
		ctx.Logger.Error("Failed to save reservation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Logger.Info("Reservation saved", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Reservation saved successfully",
		"id":          id,
		"reservation": reservation,
	})
}

func UpdateReservation(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var reservation entity.Reservation
		if err := c.ShouldBindJSON(&reservation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := reservation.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// timestamp is re-stamped on every update: last-modified semantics.
		row := reservation.Row(id, time.Now().Format(time.RFC3339))
		if err := ctx.Store.UpdateByID(c.Request.Context(), sheetstore.ReservationsSheet, id, row); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
				return
			}
			ctx.Logger.Error("Failed to update reservation", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reservation updated successfully", "id": id})
	}
}

func DeleteReservation(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := ctx.Store.DeleteByID(c.Request.Context(), sheetstore.ReservationsSheet, id); err != nil {
			if errors.Is(err, sheetstore.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
				return
			}
			ctx.Logger.Error("Failed to delete reservation", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
	}
}
