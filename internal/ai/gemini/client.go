package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/folio/internal/ai"
)

const (
	Provider     = "gemini"
	defaultModel = "gemini-2.5-flash"

	// KeyPrefix is the prefix every Google AI Studio API key starts with.
	KeyPrefix    = "AIza"
	minKeyLength = 30
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator wraps the Google GenAI client and implements ai.Capability.
type Generator struct {
	chats  chatCreator
	apiKey string
	model  string
	logger *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
// The key is not validated here; callers decide whether it looks usable.
func NewGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:  &genaiChats{chats: client.Chats},
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}, nil
}

func (g *Generator) Credential() string {
	if g == nil {
		return ""
	}
	return g.apiKey
}

func (g *Generator) Provider() string { return Provider }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Generate opens a chat session seeded with the request history and sends the
// prompt once. There is no retry: a failed attempt is returned to the caller.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}

	chat, err := g.chats.Create(ctx, g.model, config, toContents(req.History))
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	return responseText(resp), nil
}

func toContents(history []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// ValidKey reports whether key looks like a usable API key for the given
// prefix. It is a syntactic check only, no request is made.
func ValidKey(key, prefix string) bool {
	if prefix == "" {
		prefix = KeyPrefix
	}

	if len(key) < minKeyLength || !strings.HasPrefix(key, prefix) {
		return false
	}

	for _, r := range key {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}

	return true
}

// Error classes reported by Classify.
const (
	ErrorClassAuth      = "auth"
	ErrorClassRateLimit = "rate_limit"
	ErrorClassTimeout   = "timeout"
	ErrorClassUpstream  = "upstream"
	ErrorClassCanceled  = "canceled"
	ErrorClassOther     = "other"
)

// Classify maps an error returned by Generate to a coarse class for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorClassTimeout
	case errors.Is(err, context.Canceled):
		return ErrorClassCanceled
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code)
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyStatus(apiErrPtr.Code)
	}

	return ErrorClassOther
}

func classifyStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrorClassAuth
	case code == http.StatusBadRequest:
		// Gemini reports invalid API keys as 400 INVALID_ARGUMENT.
		return ErrorClassAuth
	case code == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case code == http.StatusGatewayTimeout || code == http.StatusRequestTimeout:
		return ErrorClassTimeout
	case code >= http.StatusInternalServerError:
		return ErrorClassUpstream
	default:
		return ErrorClassOther
	}
}
