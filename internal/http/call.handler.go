package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teyman11/voicebot/internal/appcontext"
	"github.com/teyman11/voicebot/internal/entity"
	"github.com/teyman11/voicebot/internal/services"
	"github.com/teyman11/voicebot/internal/sheetstore"
	"github.com/teyman11/voicebot/internal/utils"
	"go.uber.org/zap"
)

// InboundCall answers the telephony webhook for an incoming call: it
// composes a menu/FAQ summary from the sheets, starts an assistant call
// with that summary injected, and replies with the provider's TwiML.
// Every failure degrades to fixed fallback TwiML so the caller always
// hears something.
func InboundCall(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.PostForm("From")
		callSID := c.PostForm("CallSid")
		ctx.Logger.Info("Incoming call",
			zap.String("from", caller),
			zap.String("call_sid", callSID),
		)

		menuText := utils.MenuUnavailable
		if records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.MenuItemsSheet); err != nil {
			ctx.Logger.Error("Failed to fetch menu for inbound call", zap.Error(err))
		} else {
			items := make([]entity.MenuItem, 0, len(records))
			for _, record := range records {
				items = append(items, entity.MenuItemFromRecord(record))
			}
			menuText = utils.MenuSummary(items)
		}

		faqText := utils.FAQsUnavailable
		if records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.FAQsSheet); err != nil {
			ctx.Logger.Error("Failed to fetch FAQs for inbound call", zap.Error(err))
		} else {
			faqs := make([]entity.FAQ, 0, len(records))
			for _, record := range records {
				faqs = append(faqs, entity.FAQFromRecord(record))
			}
			faqText = utils.FAQSummary(faqs)
		}

		twiml, err := ctx.Assistant.CreateCall(c.Request.Context(), services.CallRequest{
			PhoneNumberID:  ctx.AssistantPhoneNumber,
			AssistantID:    ctx.AssistantID,
			CustomerNumber: caller,
			Menu:           menuText,
			FAQs:           faqText,
		})
		if err != nil {
			ctx.Logger.Error("Assistant call failed", zap.Error(err))
			c.Data(http.StatusOK, "application/xml", []byte(fallbackTwiML(err)))
			return
		}

		createCallLog(ctx, c, caller)
		c.Data(http.StatusOK, "application/xml", []byte(twiml))
	}
}

// createCallLog writes the initial call-log row. Best effort: a logging
// failure must never fail the webhook.
func createCallLog(ctx *appcontext.Context, c *gin.Context, phone string) {
	log := entity.NewCallLog(phone)
	id := uuid.NewString()
	row := log.Row(id, time.Now().Format(time.RFC3339))

	if err := ctx.Store.Append(c.Request.Context(), sheetstore.CallLogsSheet, row); err != nil {
		ctx.Logger.Error("Failed to create call log", zap.String("phone", phone), zap.Error(err))
		return
	}
	ctx.Logger.Info("Call log created", zap.String("id", id), zap.String("phone", phone))
}

func fallbackTwiML(err error) string {
	message := "System error"
	switch {
	case errors.Is(err, services.ErrAssistantUnavailable):
		message = "Unable to connect to assistant"
	case errors.Is(err, services.ErrMissingCallDetails):
		message = "Assistant configuration error"
	case errors.Is(err, services.ErrEmptyCallMarkup):
		message = "Assistant response error"
	}
	return fmt.Sprintf("<Response><Say>%s</Say></Response>", message)
}

func GetCallLogs(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := ctx.Store.ListAll(c.Request.Context(), sheetstore.CallLogsSheet)
		if err != nil {
			ctx.Logger.Error("Failed to fetch call logs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		logs := make([]entity.CallLog, 0, len(records))
		for _, record := range records {
			logs = append(logs, entity.CallLogFromRecord(record))
		}
		c.JSON(http.StatusOK, logs)
	}
}

// HealthCheck reports backend reachability with a lightweight read.
func HealthCheck(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		timestamp := time.Now().Format(time.RFC3339)

		if err := ctx.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status":           "unhealthy",
				"error":            err.Error(),
				"sheets_connected": false,
				"timestamp":        timestamp,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":           "healthy",
			"sheets_connected": true,
			"timestamp":        timestamp,
		})
	}
}

func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Twilio to VAPI Bridge is running"})
	}
}
