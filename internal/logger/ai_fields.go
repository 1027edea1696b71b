package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldRole     = "ai_role"
	FieldKind     = "ai_response_kind"
	FieldReason   = "ai_fallback_reason"
)

// Call describes one generative call as far as it is known. Blank attributes
// are left out of the log entry.
type Call struct {
	Provider string
	Model    string
	Role     string
	Kind     string
	Reason   string
}

// Fields renders the non-blank attributes of c in a stable order.
func (c Call) Fields() []zap.Field {
	pairs := [...][2]string{
		{FieldProvider, c.Provider},
		{FieldModel, c.Model},
		{FieldRole, c.Role},
		{FieldKind, c.Kind},
		{FieldReason, c.Reason},
	}

	fields := make([]zap.Field, 0, len(pairs))
	for _, pair := range pairs {
		if value := strings.TrimSpace(pair[1]); value != "" {
			fields = append(fields, zap.String(pair[0], value))
		}
	}
	return fields
}

// ForCall returns a child of logger annotated with c. A nil logger becomes a no-op logger.
func ForCall(logger *zap.Logger, c Call) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := c.Fields()
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
