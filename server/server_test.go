package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriscribe/veriscribe/gateway"
	"github.com/veriscribe/veriscribe/model"
)

func newTestServer(t *testing.T, m model.Model) *Server {
	t.Helper()
	return New(m, WithUploadDir(t.TempDir()))
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postFile(t *testing.T, s *Server, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, model.NewMock())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mock", body["model"])
}

func TestCheckAI_Text(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("This essay was written by me.", "```json\n"+
		`{"ai_score": 20, "human_score": 80, "explanation": "personal voice", "suggestions": ["keep it up"]}`+
		"\n```")
	s := newTestServer(t, m)

	rec := postJSON(t, s, "/api/check-ai", map[string]any{"text": "This essay was written by me."})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.CheckResult](t, rec)
	assert.Equal(t, float64(20), res.AIScore)
	assert.Equal(t, float64(80), res.HumanScore)
	assert.Equal(t, "personal voice", res.Explanation)
	assert.Equal(t, []string{"keep it up"}, res.Suggestions)
}

func TestCheckAI_EmptyTextRejected(t *testing.T) {
	s := newTestServer(t, model.NewMock())
	rec := postJSON(t, s, "/api/check-ai", map[string]any{"text": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["detail"], "text is required")
}

func TestCheckAI_File(t *testing.T) {
	text := "First sentence. Second sentence! Third one?"
	m := model.NewMock()
	m.AddResponse(text, `{
		"ai_detected": true,
		"confidence": 82,
		"human_indicators": [],
		"ai_indicators": [{"point": "generic phrasing", "example": "First sentence."}],
		"line_analysis": [{"line_number": 1, "text": "First sentence.", "likely_ai": true, "confidence": 82, "reason": "formulaic"}]
	}`)
	s := newTestServer(t, m)

	rec := postFile(t, s, "/api/check-ai", "essay.txt", text, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.Detection](t, rec)
	assert.True(t, res.AIDetected)
	assert.Equal(t, float64(82), res.Confidence)
	assert.Equal(t, 3, res.SentencesAnalyzed)
	require.Len(t, res.Analysis.AIIndicators, 1)
	assert.Equal(t, "generic phrasing", res.Analysis.AIIndicators[0].Point)
}

func TestCheckAI_File_UnreadableVerdictDegrades(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("Some content here.", "the model rambled instead of emitting JSON")
	s := newTestServer(t, m)

	rec := postFile(t, s, "/api/check-ai", "essay.txt", "Some content here.", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.Detection](t, rec)
	assert.False(t, res.AIDetected)
	assert.Equal(t, float64(50), res.Confidence)
	assert.NotNil(t, res.Analysis.LineAnalysis)
	assert.Equal(t, 1, res.SentencesAnalyzed)
}

func TestChat(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("How do I structure my thesis?", "What claim are you trying to defend?")
	s := newTestServer(t, m)

	rec := postJSON(t, s, "/api/chat", map[string]any{
		"message": "How do I structure my thesis?",
		"conversation_history": []gateway.Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello! How can I help?"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "What claim are you trying to defend?", body["response"])
}

func TestChat_WithFile(t *testing.T) {
	s := newTestServer(t, model.NewMock())

	rec := postFile(t, s, "/api/chat", "notes.txt", "lecture notes on photosynthesis",
		map[string]string{"message": "Summarize the key ideas"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	// Mock echoes unknown prompts; the framed file content must reach the
	// model.
	assert.Contains(t, body["response"], "notes.txt")
	assert.Contains(t, body["response"], "Summarize the key ideas")
}

func TestGenerateTitle(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("Can you explain recursion to me?", `"Understanding Recursion Fundamentals"`)
	s := newTestServer(t, m)

	rec := postJSON(t, s, "/api/generate-title", map[string]any{"message": "Can you explain recursion to me?"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Understanding Recursion Fundamentals", body["title"])
}

func TestGenerateTitle_FallsBackOnModelError(t *testing.T) {
	m := model.NewMock()
	m.FailWith(errors.New("provider down"))
	s := newTestServer(t, m)

	long := strings.Repeat("a very long question ", 10)
	rec := postJSON(t, s, "/api/generate-title", map[string]any{"message": long})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, long[:40], body["title"])
}

func TestUpload(t *testing.T) {
	text := "My essay about climate policy."
	m := model.NewMock()
	m.AddResponse("Evaluate this essay submission:\n\n"+text,
		"Score: 88/100\n\n**Strengths:**\nClear thesis and strong evidence.")
	s := newTestServer(t, m)

	rec := postFile(t, s, "/api/upload", "essay.txt", text, map[string]string{"task_type": "essay"})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.Feedback](t, rec)
	assert.Equal(t, 88, res.Score)
	assert.Equal(t, "essay", res.TaskType)
	assert.Equal(t, "essay.txt", res.Filename)
	assert.NotContains(t, res.Feedback, "*")
}

func TestUpload_ScoreDefaultsWhenMissing(t *testing.T) {
	text := "short submission"
	m := model.NewMock()
	m.AddResponse("Evaluate this code submission:\n\n"+text, "Good structure overall.")
	s := newTestServer(t, m)

	rec := postFile(t, s, "/api/upload", "main.go", text, map[string]string{"task_type": "code"})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.Feedback](t, rec)
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, "code", res.TaskType)
}

func TestAnalyze(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("List the themes", "```json\n"+`{"themes": ["identity", "memory"]}`+"\n```")
	s := newTestServer(t, m)

	rec := postJSON(t, s, "/api/analyze", map[string]any{
		"prompt": "List the themes",
		"response_json_schema": map[string]any{
			"type":       "object",
			"properties": map[string]any{"themes": map[string]any{"type": "array"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"themes": ["identity", "memory"]}`, rec.Body.String())
}

func TestAnalyze_InvalidModelJSON(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("List the themes", "not json at all")
	s := newTestServer(t, m)

	rec := postJSON(t, s, "/api/analyze", map[string]any{"prompt": "List the themes"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["detail"], "invalid JSON")
}

func TestStoreFile(t *testing.T) {
	s := newTestServer(t, model.NewMock())

	rec := postFile(t, s, "/api/files", "essay.txt", "stored content", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[gateway.FileRef](t, rec)
	assert.Contains(t, res.URL, "/uploads/")
	assert.Contains(t, res.URL, "essay.txt")
	assert.FileExists(t, res.Path)
}

func TestExtract(t *testing.T) {
	s := newTestServer(t, model.NewMock())

	rec := postFile(t, s, "/api/extract", "notes.txt", "  plain text body  ", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "plain text body", body["text"])
}

func TestExtract_MissingFile(t *testing.T) {
	s := newTestServer(t, model.NewMock())

	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "file is required", body["detail"])
}
