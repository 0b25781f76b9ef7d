package appcontext

import (
	"github.com/teyman11/voicebot/internal/services"
	"github.com/teyman11/voicebot/internal/sheetstore"
	"go.uber.org/zap"
)

type Context struct {
	Logger *zap.Logger

	Store  *sheetstore.Store
	Schema *sheetstore.SchemaManager

	Assistant            *services.AssistantClient
	AssistantID          string
	AssistantPhoneNumber string

	TwilioNumber string
}
