// Package responder produces conversational replies that never fail: every
// call either returns model output or a canned fallback phrase.
package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/ai/gemini"
	"github.com/spigell/folio/internal/logger"
	"github.com/spigell/folio/internal/metrics"
)

// Kind tags where a Result text came from.
type Kind string

const (
	KindPrimary  Kind = "primary"
	KindFallback Kind = "fallback"
)

// Role selects the system prompt and the fallback pool.
type Role string

const (
	RoleChat             Role = "chat"
	RolePersona          Role = "persona"
	RoleResumeSuggestion Role = "resume-suggestion"
)

func (r Role) orDefault() Role {
	switch r {
	case RoleChat, RolePersona, RoleResumeSuggestion:
		return r
	default:
		return RoleChat
	}
}

// EmptyResponseText is returned as primary text when the model answered with nothing.
const EmptyResponseText = "I'm sorry, I couldn't generate a response. Please try again."

// Failure classes that do not come from the provider.
const (
	classUnavailable = "unavailable"
	classBreakerOpen = "breaker_open"
	classPanic       = "panic"
)

var errCapabilityPanic = errors.New("ai capability panicked")

// Result is either model output (KindPrimary) or a locally produced phrase
// (KindFallback). Both are valid payloads; Text is never empty.
type Result struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Task is one request for a reply.
type Task struct {
	Role    Role
	Prompt  string
	History []ai.Message
}

// Config tunes the single bounded attempt made per task.
type Config struct {
	Timeout         time.Duration
	MaxOutputTokens int32
	Temperature     float32
	// HistoryLimit is the number of trailing history messages sent to the model.
	HistoryLimit int
	// KeyPrefix is the credential prefix the provider hands out.
	KeyPrefix string
	// PreviewLength bounds the prompt excerpt written to failure logs.
	PreviewLength int
	Breaker       BreakerConfig
}

func DefaultConfig() Config {
	return Config{
		Timeout:         8 * time.Second,
		MaxOutputTokens: 500,
		Temperature:     0.7,
		HistoryLimit:    10,
		KeyPrefix:       gemini.KeyPrefix,
		PreviewLength:   120,
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			Interval:         time.Minute,
		},
	}
}

type Responder struct {
	cfg     Config
	src     Source
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

// New creates a Responder. A nil src uses the process wide random generator,
// zero config values fall back to DefaultConfig.
func New(cfg Config, src Source, log *zap.Logger) *Responder {
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaults.HistoryLimit
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = defaults.PreviewLength
	}

	if src == nil {
		src = entropySource{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Responder{
		cfg:     cfg,
		src:     src,
		breaker: newBreaker(cfg.Breaker, log),
		logger:  log,
	}
}

// Respond answers task. It makes at most one call to capability and returns a
// fallback phrase when the capability is missing, misconfigured, failing, slow
// or behind an open circuit. It never panics.
func (r *Responder) Respond(ctx context.Context, task Task, capability ai.Capability) (result Result) {
	role := task.Role.orDefault()
	log := logger.ForCall(logger.FromContext(ctx, r.logger), logger.Call{Role: string(role)})

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("ai responder recovered from panic", zap.Any("panic", rec))
			metrics.RecordAIFailure(classPanic)
			result = r.fallback(role)
		}
		metrics.RecordAIResponse(string(role), string(result.Kind))
		log.Debug("ai response ready", zap.String(logger.FieldKind, string(result.Kind)))
	}()

	if !r.Available(capability) {
		metrics.RecordAIFailure(classUnavailable)
		log.Debug("ai capability unavailable, using fallback", zap.String(logger.FieldReason, classUnavailable))
		return r.fallback(role)
	}

	log = logger.ForCall(log, logger.Call{Provider: capability.Provider(), Model: capability.Model()})

	start := time.Now()
	text, err := r.attempt(ctx, role, task, capability)
	metrics.AIRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		class := classify(err)
		metrics.RecordAIFailure(class)
		log.Warn("ai call failed, using fallback",
			zap.String(logger.FieldReason, class),
			zap.String("prompt_preview", logger.Truncate(task.Prompt, r.cfg.PreviewLength)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return r.fallback(role)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Info("ai returned an empty reply")
		return Result{Kind: KindPrimary, Text: EmptyResponseText}
	}

	return Result{Kind: KindPrimary, Text: text}
}

// Available reports whether Respond would call capability at all. A nil or
// badly keyed capability is never called.
func (r *Responder) Available(capability ai.Capability) bool {
	if capability == nil {
		return false
	}
	return gemini.ValidKey(capability.Credential(), r.cfg.KeyPrefix)
}

func (r *Responder) attempt(ctx context.Context, role Role, task Task, capability ai.Capability) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req := ai.Request{
		System:          SystemPrompt(role),
		History:         ai.LastMessages(task.History, r.cfg.HistoryLimit),
		Prompt:          task.Prompt,
		MaxOutputTokens: r.cfg.MaxOutputTokens,
		Temperature:     r.cfg.Temperature,
	}

	if r.breaker == nil {
		return generate(ctx, capability, req)
	}

	return r.breaker.Execute(func() (string, error) {
		return generate(ctx, capability, req)
	})
}

type outcome struct {
	text string
	err  error
}

// generate runs the capability call in its own goroutine so the deadline holds
// even when the capability ignores ctx. A late reply is discarded.
func generate(ctx context.Context, capability ai.Capability, req ai.Request) (string, error) {
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", errCapabilityPanic, rec)}
			}
		}()
		text, err := capability.Generate(ctx, req)
		done <- outcome{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func classify(err error) string {
	switch {
	case isBreakerRejection(err):
		return classBreakerOpen
	case errors.Is(err, errCapabilityPanic):
		return classPanic
	default:
		return gemini.Classify(err)
	}
}
