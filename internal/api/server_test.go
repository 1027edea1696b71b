package api

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/catalog"
	"github.com/spigell/folio/internal/responder"
	"github.com/spigell/folio/internal/scoring"
)

type stubCapability struct {
	reply   string
	key     string
	calls   int
	lastReq ai.Request
}

func (s *stubCapability) Credential() string {
	if s.key != "" {
		return s.key
	}
	return "AIza" + strings.Repeat("k", 35)
}
func (s *stubCapability) Provider() string   { return "stub" }
func (s *stubCapability) Model() string      { return "stub-model" }

func (s *stubCapability) Generate(_ context.Context, req ai.Request) (string, error) {
	s.calls++
	s.lastReq = req
	return s.reply, nil
}

func newTestServer(t *testing.T, capability ai.Capability, cfg Config) http.Handler {
	t.Helper()

	deps := Deps{
		Engine:    scoring.NewEngine(rand.New(rand.NewPCG(11, 13)), nil),
		Responder: responder.New(responder.Config{}, rand.New(rand.NewPCG(5, 8)), nil),
		Logger:    zap.NewNop(),
	}
	if capability != nil {
		deps.Capability = capability
	}

	cfg.RateLimitDisabled = cfg.RateLimitRequests == 0
	return New(deps, cfg).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	contentType := ""
	if body != "" {
		contentType = "application/json"
	}
	return doWithContentType(t, h, method, path, contentType, body)
}

func doWithContentType(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		errPart string
	}{
		{name: "optimize empty content", path: "/optimize", body: `{"section":"summary","content":""}`, status: http.StatusBadRequest, errPart: "content is required"},
		{name: "optimize missing section", path: "/api/optimize", body: `{"content":"Led a team"}`, status: http.StatusBadRequest, errPart: "section is required"},
		{name: "chat missing message", path: "/chat", body: `{"conversationHistory":[]}`, status: http.StatusBadRequest, errPart: "message is required"},
		{name: "chat empty body", path: "/api/chat", body: "", status: http.StatusBadRequest, errPart: "message is required"},
		{name: "chat bad history role", path: "/api/chat", body: `{"message":"hi","conversationHistory":[{"role":"system","content":"x"}]}`, status: http.StatusBadRequest, errPart: "role must be one of"},
		{name: "recommend unknown type", path: "/recommend", body: `{"type":"books"}`, status: http.StatusBadRequest, errPart: "type must be one of"},
		{name: "recommend missing type", path: "/api/recommend", body: `{}`, status: http.StatusBadRequest, errPart: "type is required"},
		{name: "malformed json", path: "/api/chat", body: `{"message":`, status: http.StatusInternalServerError, errPart: "malformed request body"},
		{name: "wrong field type", path: "/optimize", body: `{"section":"summary","content":42}`, status: http.StatusInternalServerError, errPart: "malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}

			body := decode[errorResponse](t, rec)
			if !strings.Contains(body.Error, tt.errPart) {
				t.Fatalf("expected error containing %q, got %q", tt.errPart, body.Error)
			}
		})
	}
}

func TestChatWithoutCapabilityFallsBack(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	rec := do(t, h, http.MethodPost, "/chat", `{"message":"What do you build?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(headerResponseKind); got != string(responder.KindFallback) {
		t.Fatalf("expected fallback kind header, got %q", got)
	}

	body := decode[chatResponse](t, rec)
	if !body.Success || body.Response == "" {
		t.Fatalf("expected successful non-empty response, got %+v", body)
	}
}

func TestChatWithCapability(t *testing.T) {
	capability := &stubCapability{reply: "I build web services."}
	h := newTestServer(t, capability, Config{})

	rec := do(t, h, http.MethodPost, "/api/chat", `{"message":"What do you build?","conversationHistory":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(headerResponseKind); got != string(responder.KindPrimary) {
		t.Fatalf("expected primary kind header, got %q", got)
	}

	body := decode[chatResponse](t, rec)
	if body.Response != "I build web services." {
		t.Fatalf("unexpected response: %q", body.Response)
	}
	if len(capability.lastReq.History) != 2 {
		t.Fatalf("expected history to reach the capability, got %d messages", len(capability.lastReq.History))
	}
	if capability.lastReq.System != responder.SystemPrompt(responder.RoleChat) {
		t.Fatalf("expected chat system prompt")
	}
}

func TestChatKeepsOnlyRecentHistory(t *testing.T) {
	capability := &stubCapability{reply: "ok"}
	h := newTestServer(t, capability, Config{})

	history := make([]ai.Message, 0, 150)
	for i := 0; i < 150; i++ {
		history = append(history, ai.Message{Role: ai.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}
	payload, err := json.Marshal(chatRequest{Message: "still there?", ConversationHistory: history})
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}

	rec := do(t, h, http.MethodPost, "/chat", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	sent := capability.lastReq.History
	if len(sent) != 10 {
		t.Fatalf("expected 10 history messages to reach the capability, got %d", len(sent))
	}
	if sent[0].Content != "m140" || sent[9].Content != "m149" {
		t.Fatalf("expected the trailing window m140..m149, got %q..%q", sent[0].Content, sent[9].Content)
	}
}

func TestBodiesWithoutJSONContentType(t *testing.T) {
	capability := &stubCapability{reply: "hello"}
	h := newTestServer(t, capability, Config{})

	for _, contentType := range []string{"", "text/plain;charset=UTF-8"} {
		rec := doWithContentType(t, h, http.MethodPost, "/optimize", contentType, `{"section":"summary","content":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("content type %q: expected 400, got %d", contentType, rec.Code)
		}
		if body := decode[errorResponse](t, rec); !strings.Contains(body.Error, "content is required") {
			t.Fatalf("content type %q: unexpected error %q", contentType, body.Error)
		}

		rec = doWithContentType(t, h, http.MethodPost, "/api/chat", contentType, `{"message":"hi"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("content type %q: expected 200 for chat, got %d (%s)", contentType, rec.Code, rec.Body.String())
		}
		if body := decode[chatResponse](t, rec); body.Response != "hello" {
			t.Fatalf("content type %q: unexpected chat response %q", contentType, body.Response)
		}
	}
}

func TestPersonaChat(t *testing.T) {
	capability := &stubCapability{reply: "I'm a software engineer."}
	h := newTestServer(t, capability, Config{})

	rec := do(t, h, http.MethodPost, "/api/chat/persona", `{"message":"Who are you?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capability.lastReq.System != responder.SystemPrompt(responder.RolePersona) {
		t.Fatalf("expected persona system prompt")
	}
}

func TestRecommendReturnsTopThree(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	for _, path := range []string{"/recommend", "/api/recommend"} {
		rec := do(t, h, http.MethodPost, path, `{"type":"movie","preferences":{"minYear":2000}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}

		body := decode[recommendResponse](t, rec)
		if !body.Success || len(body.Recommendations) != recommendationCount {
			t.Fatalf("%s: expected %d recommendations, got %+v", path, recommendationCount, body)
		}
		for i, candidate := range body.Recommendations {
			if candidate.Score < 0 || candidate.Score > scoring.MaxScore {
				t.Fatalf("%s: score out of range: %d", path, candidate.Score)
			}
			if candidate.Justification == "" || candidate.Title == "" {
				t.Fatalf("%s: incomplete candidate: %+v", path, candidate)
			}
			if i > 0 && body.Recommendations[i-1].Score < candidate.Score {
				t.Fatalf("%s: recommendations not sorted", path)
			}
		}
		if body.Stats.ModelType == "" || body.Stats.TrainingSize < 10000 {
			t.Fatalf("%s: unexpected stats: %+v", path, body.Stats)
		}
	}
}

func TestRecommendFavoursHighlyRatedMovies(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	const trials = 300
	bothOnTop := 0
	for i := 0; i < trials; i++ {
		rec := do(t, h, http.MethodPost, "/recommend", `{"type":"movie","preferences":{"minRating":8.9}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		body := decode[recommendResponse](t, rec)
		top := map[string]bool{body.Recommendations[0].Title: true, body.Recommendations[1].Title: true}
		if top["The Dark Knight"] && top["Pulp Fiction"] {
			bothOnTop++
		}
	}

	if rate := float64(bothOnTop) / trials; rate <= 0.2 {
		t.Fatalf("expected top rated movies to lead more often than chance, got %.3f", rate)
	}
}

func TestRecommendUnreachablePreferencesGiveNoBonus(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	rec := do(t, h, http.MethodPost, "/api/recommend", `{"type":"movie","preferences":{"minRating":11,"minYear":3500}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := decode[recommendResponse](t, rec)
	if len(body.Recommendations) != recommendationCount {
		t.Fatalf("expected %d recommendations, got %d", recommendationCount, len(body.Recommendations))
	}
	for _, candidate := range body.Recommendations {
		if len(candidate.Matched) != 0 {
			t.Fatalf("expected no rule to match for %s, got %v", candidate.Title, candidate.Matched)
		}
	}
}

func TestRecommendCategoryMissingFromCatalog(t *testing.T) {
	movies, err := catalog.Default().ByCategory(catalog.CategoryMovie)
	if err != nil {
		t.Fatalf("loading movies: %v", err)
	}

	core, observed := observer.New(zapcore.ErrorLevel)
	h := New(Deps{
		Catalog: &catalog.Catalog{Items: movies},
		Logger:  zap.New(core),
	}, Config{RateLimitDisabled: true}).Handler()

	rec := do(t, h, http.MethodPost, "/recommend", `{"type":"music"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decode[errorResponse](t, rec); body.Error == "" {
		t.Fatalf("expected error body")
	}
	if got := observed.FilterMessage("no candidates to score").Len(); got != 1 {
		t.Fatalf("expected the empty category to be logged once, got %d", got)
	}
}

func TestOptimize(t *testing.T) {
	capability := &stubCapability{reply: "Led a platform team of 6 engineers."}
	h := newTestServer(t, capability, Config{})

	rec := do(t, h, http.MethodPost, "/api/optimize", `{"section":"experience","content":"Worked on backend services and databases","jobDescription":"Golang engineer with Kubernetes and backend services experience"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := decode[optimizeResponse](t, rec)
	if body.Suggestion != "Led a platform team of 6 engineers." {
		t.Fatalf("unexpected suggestion: %q", body.Suggestion)
	}
	if body.ATSScore < 0 || body.ATSScore > 100 || body.ATSScore != body.Analysis.ATSScore {
		t.Fatalf("unexpected ats score: %d (analysis %d)", body.ATSScore, body.Analysis.ATSScore)
	}
	if len(body.Keywords) == 0 || len(body.Improvements) == 0 {
		t.Fatalf("expected keywords and improvements, got %+v", body)
	}
	if len(body.MissingKeywords) == 0 {
		t.Fatalf("expected missing keywords when a job description is given")
	}
	if !strings.Contains(capability.lastReq.Prompt, "Section: experience") {
		t.Fatalf("expected resume prompt, got %q", capability.lastReq.Prompt)
	}
}

func TestOptimizeWithoutCapability(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	rec := do(t, h, http.MethodPost, "/optimize", `{"section":"summary","content":"Backend engineer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(headerResponseKind); got != string(responder.KindFallback) {
		t.Fatalf("expected fallback kind header, got %q", got)
	}

	body := decode[optimizeResponse](t, rec)
	if body.Suggestion == "" {
		t.Fatalf("expected fallback suggestion")
	}
	if body.MissingKeywords != nil {
		t.Fatalf("expected no missing keywords without job description, got %v", body.MissingKeywords)
	}
}

func TestViews(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	for want := 1; want <= 2; want++ {
		rec := do(t, h, http.MethodPost, "/api/views/hello-world", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if page := decode[struct {
			Slug  string `json:"slug"`
			Views int    `json:"views"`
		}](t, rec); page.Views != want {
			t.Fatalf("expected %d views, got %d", want, page.Views)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/views/hello-world", "")
	if !strings.Contains(rec.Body.String(), `"views":2`) {
		t.Fatalf("expected 2 views, got %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/views/Bad_Slug", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid slug, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/views", "")
	snapshot := decode[snapshotResponse](t, rec)
	if len(snapshot.Pages) != 1 || snapshot.Pages[0].Slug != "hello-world" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestServer(t, &stubCapability{}, Config{Version: "1.2.3"})

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decode[healthResponse](t, rec)
	if body.Status != "ok" || body.Version != "1.2.3" || !body.AI || body.Catalog != 10 {
		t.Fatalf("unexpected health: %+v", body)
	}
	if rec.Header().Get(headerRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestHealthReportsUnusableKey(t *testing.T) {
	capability := &stubCapability{reply: "never", key: "not-a-key"}
	h := newTestServer(t, capability, Config{})

	if body := decode[healthResponse](t, do(t, h, http.MethodGet, "/healthz", "")); body.AI {
		t.Fatalf("expected ai to be reported unavailable for an invalid key")
	}

	rec := do(t, h, http.MethodPost, "/chat", `{"message":"hi"}`)
	if got := rec.Header().Get(headerResponseKind); got != string(responder.KindFallback) {
		t.Fatalf("expected fallback kind header, got %q", got)
	}
	if capability.calls != 0 {
		t.Fatalf("expected no capability calls, got %d", capability.calls)
	}

	if body := decode[healthResponse](t, do(t, newTestServer(t, nil, Config{}), http.MethodGet, "/healthz", "")); body.AI {
		t.Fatalf("expected ai to be reported unavailable without a capability")
	}
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, nil, Config{})

	rec := do(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decode[errorResponse](t, rec); body.Error == "" {
		t.Fatalf("expected error body")
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, nil, Config{RateLimitRequests: 2})

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodPost, "/chat", `{"message":"hi"}`); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := do(t, h, http.MethodPost, "/api/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRequestLoggingUsesRequestScopedLogger(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	h := New(Deps{Logger: zap.New(core)}, Config{RateLimitDisabled: true}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "6f1c2a4e-8d3b-4c55-9a77-0e2f1b3c4d5e")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := observed.FilterMessage("request served").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "6f1c2a4e-8d3b-4c55-9a77-0e2f1b3c4d5e" {
		t.Fatalf("expected incoming request id to be kept, got %v", fields["request_id"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("expected status 200 in log, got %v", fields["status"])
	}
}
