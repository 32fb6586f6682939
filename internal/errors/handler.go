package errors

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ShopWizard/internal/metrics"
)

// GenericMessage is sent when a failure carries no user-facing text.
const GenericMessage = "An error occurred while processing your command. Please try again."

// Handler logs a failure and returns the text to reply with.
type Handler struct {
	logger *logrus.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *logrus.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle returns the reply for err. Expected failures are logged at info level
// and answered with their own message; anything else is logged as an error
// and answered with GenericMessage.
func (h *Handler) Handle(ctx context.Context, err error, fields logrus.Fields) string {
	if err == nil {
		return ""
	}

	entry := h.logger.WithContext(ctx).WithFields(fields)

	if appErr, ok := As(err); ok {
		metrics.RecordError(string(appErr.Kind))
		entry.WithFields(logrus.Fields{
			"kind":   appErr.Kind,
			"entity": appErr.Entity,
			"cause":  appErr.cause,
		}).Info(appErr.Message)

		if appErr.Message == "" {
			return GenericMessage
		}
		return appErr.Message
	}

	metrics.RecordError("internal")
	entry.WithError(err).Error("Unhandled error")
	return GenericMessage
}
