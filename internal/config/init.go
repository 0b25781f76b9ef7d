package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/teyman11/voicebot/internal/appcontext"
	"github.com/teyman11/voicebot/internal/services"
	"github.com/teyman11/voicebot/internal/sheetstore"
	"go.uber.org/zap"
)

const defaultAssistantBaseURL = "https://api.vapi.ai"

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	sheetID := os.Getenv("GOOGLE_SHEET_ID")
	if sheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID environment variable is not set")
	}
	credentialsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if credentialsJSON == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON environment variable is not set")
	}

	apiKey := os.Getenv("VAPI_API_KEY")
	assistantID := os.Getenv("VAPI_ASSISTANT_ID")
	assistantPhoneNumber := os.Getenv("VAPI_PHONE_NUMBER_ID")
	twilioNumber := os.Getenv("TWILIO_PHONE_NUMBER")
	if apiKey == "" || assistantID == "" || assistantPhoneNumber == "" || twilioNumber == "" {
		return nil, fmt.Errorf("missing required VAPI/Twilio environment variables")
	}

	baseURL := os.Getenv("VAPI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultAssistantBaseURL
	}

	backend, err := sheetstore.NewGoogleBackend(context.Background(), sheetID, []byte(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets backend: %w", err)
	}

	ctx := &appcontext.Context{
		Logger: logger,

		Store:  sheetstore.NewStore(backend, logger),
		Schema: sheetstore.NewSchemaManager(backend, logger),

		Assistant:            services.NewAssistantClient(baseURL, apiKey, logger),
		AssistantID:          assistantID,
		AssistantPhoneNumber: assistantPhoneNumber,

		TwilioNumber: twilioNumber,
	}

	return ctx, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
