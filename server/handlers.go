package server

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veriscribe/veriscribe/extract"
	"github.com/veriscribe/veriscribe/gateway"
	"github.com/veriscribe/veriscribe/logging"
	"github.com/veriscribe/veriscribe/model"
)

const (
	// checkExcerptLimit caps how much submission text the detector sees.
	checkExcerptLimit = 6000
	// chatExcerptLimit caps attached-file content in tutor conversations.
	chatExcerptLimit = 3000
	// maxLineVerdicts caps the per-sentence analysis in a detection report.
	maxLineVerdicts = 10
)

// complete runs the model and records latency and token usage.
func (s *Server) complete(ctx context.Context, req model.Request) (string, error) {
	start := time.Now()
	resp, err := s.model.Complete(ctx, req)
	logging.LogLLMCall(s.logger, s.model.Info().Name, resp.Usage.TotalTokens, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// handleCheckAI serves both variants of the AI check: a JSON body with raw
// text gets the coarse score pair, a multipart body with a file gets the
// detailed per-sentence detection report.
func (s *Server) handleCheckAI(c *gin.Context) {
	if isMultipart(c) {
		s.checkFile(c)
		return
	}
	s.checkText(c)
}

func (s *Server) checkText(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		fail(c, http.StatusBadRequest, "text is required")
		return
	}

	out, err := s.complete(c.Request.Context(), model.Request{
		System:      scorePrompt,
		Messages:    []model.Message{{Role: "user", Content: truncate(body.Text, checkExcerptLimit)}},
		Temperature: 0,
		MaxTokens:   1000,
		JSONOnly:    true,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "AI check failed: "+err.Error())
		return
	}

	var res gateway.CheckResult
	if err := json.Unmarshal([]byte(stripFences(out)), &res); err != nil {
		fail(c, http.StatusInternalServerError, "AI check returned an unreadable verdict")
		return
	}
	if res.Suggestions == nil {
		res.Suggestions = []string{}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) checkFile(c *gin.Context) {
	filename, text, ok := s.readUpload(c)
	if !ok {
		return
	}

	sentences := splitSentences(text)
	analyzed := len(sentences)
	if analyzed > maxLineVerdicts {
		analyzed = maxLineVerdicts
	}

	out, err := s.complete(c.Request.Context(), model.Request{
		System:      detectorPrompt,
		Messages:    []model.Message{{Role: "user", Content: truncate(text, checkExcerptLimit)}},
		Temperature: 0,
		MaxTokens:   2000,
		JSONOnly:    true,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "AI check failed: "+err.Error())
		return
	}

	var detail struct {
		AIDetected bool    `json:"ai_detected"`
		Confidence float64 `json:"confidence"`
		gateway.DetectionDetail
	}
	if err := json.Unmarshal([]byte(stripFences(out)), &detail); err != nil {
		// Undecodable model output degrades to a neutral verdict rather
		// than failing the request.
		s.logger.Warn("detection output not decodable", "file", filename, "error", err.Error())
		c.JSON(http.StatusOK, gateway.Detection{
			AIDetected: false,
			Confidence: 50,
			Analysis: gateway.DetectionDetail{
				HumanIndicators: []gateway.Indicator{},
				AIIndicators:    []gateway.Indicator{},
				LineAnalysis:    []gateway.LineVerdict{},
			},
			SentencesAnalyzed: analyzed,
		})
		return
	}
	if detail.HumanIndicators == nil {
		detail.HumanIndicators = []gateway.Indicator{}
	}
	if detail.AIIndicators == nil {
		detail.AIIndicators = []gateway.Indicator{}
	}
	if detail.LineAnalysis == nil {
		detail.LineAnalysis = []gateway.LineVerdict{}
	}
	if len(detail.LineAnalysis) > maxLineVerdicts {
		detail.LineAnalysis = detail.LineAnalysis[:maxLineVerdicts]
	}
	c.JSON(http.StatusOK, gateway.Detection{
		AIDetected:        detail.AIDetected,
		Confidence:        detail.Confidence,
		Analysis:          detail.DetectionDetail,
		SentencesAnalyzed: analyzed,
	})
}

// handleChat serves the tutor conversation: a JSON body with prior turns, or
// a multipart body with an attached file the tutor reads first.
func (s *Server) handleChat(c *gin.Context) {
	if isMultipart(c) {
		s.chatWithFile(c)
		return
	}

	var body struct {
		Message string            `json:"message"`
		History []gateway.Message `json:"conversation_history"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		fail(c, http.StatusBadRequest, "message is required")
		return
	}

	messages := make([]model.Message, 0, len(body.History)+1)
	for _, m := range body.History {
		messages = append(messages, model.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, model.Message{Role: "user", Content: body.Message})

	s.respondChat(c, messages)
}

func (s *Server) chatWithFile(c *gin.Context) {
	message := c.PostForm("message")
	filename, text, ok := s.readUpload(c)
	if !ok {
		return
	}

	content := fmt.Sprintf("[User attached a file: %s]\n\nFile content:\n%s\n\n%s",
		filename, truncate(text, chatExcerptLimit), message)
	s.respondChat(c, []model.Message{{Role: "user", Content: content}})
}

func (s *Server) respondChat(c *gin.Context, messages []model.Message) {
	out, err := s.complete(c.Request.Context(), model.Request{
		System:      tutorPrompt,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "chat failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": out})
}

// handleGenerateTitle labels a conversation from its opening message. Model
// failures degrade to a truncated echo of the message; the label is never
// worth failing a request over.
func (s *Server) handleGenerateTitle(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	out, err := s.complete(c.Request.Context(), model.Request{
		System:      titlePrompt,
		Messages:    []model.Message{{Role: "user", Content: body.Message}},
		Temperature: 0.5,
		MaxTokens:   20,
	})
	if err != nil {
		s.logger.Warn("title generation failed, falling back", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"title": truncate(body.Message, 40)})
		return
	}
	title := strings.Trim(strings.TrimSpace(out), `"'`)
	if title == "" {
		title = truncate(body.Message, 40)
	}
	c.JSON(http.StatusOK, gin.H{"title": title})
}

// handleUpload scores a submitted assignment against its task type and
// optional rubric.
func (s *Server) handleUpload(c *gin.Context) {
	taskType := c.DefaultPostForm("task_type", "essay")
	rubric := c.PostForm("rubric")
	filename, text, ok := s.readUpload(c)
	if !ok {
		return
	}

	prompt := fmt.Sprintf("Evaluate this %s submission:\n\n%s", taskType, text)
	if rubric != "" {
		prompt = fmt.Sprintf("GRADING RUBRIC:\n%s\n\n%s", rubric, prompt)
	}

	out, err := s.complete(c.Request.Context(), model.Request{
		System:      uploadPrompt(taskType, rubric != ""),
		Messages:    []model.Message{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   2500,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "evaluation failed: "+err.Error())
		return
	}

	feedback := stripAsterisks(out)
	c.JSON(http.StatusOK, gateway.Feedback{
		Score:    parseScore(feedback),
		Feedback: feedback,
		TaskType: taskType,
		Filename: filename,
	})
}

// handleAnalyze runs a freeform prompt against a caller-declared JSON schema
// and returns the model's JSON verbatim.
func (s *Server) handleAnalyze(c *gin.Context) {
	var body struct {
		Prompt string         `json:"prompt"`
		Schema map[string]any `json:"response_json_schema"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		fail(c, http.StatusBadRequest, "prompt is required")
		return
	}

	system := "Answer the user's request as a single JSON object."
	if body.Schema != nil {
		schemaJSON, err := json.Marshal(body.Schema)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid response_json_schema")
			return
		}
		system = fmt.Sprintf("Answer the user's request as a single JSON object conforming to this JSON schema:\n%s", schemaJSON)
	}

	out, err := s.complete(c.Request.Context(), model.Request{
		System:      system,
		Messages:    []model.Message{{Role: "user", Content: body.Prompt}},
		Temperature: 0,
		MaxTokens:   2000,
		JSONOnly:    true,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}

	raw := stripFences(out)
	if !json.Valid([]byte(raw)) {
		fail(c, http.StatusInternalServerError, "analysis returned invalid JSON")
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(raw))
}

// handleStoreFile persists an upload and returns its reference.
func (s *Server) handleStoreFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		fail(c, http.StatusInternalServerError, "store file: "+err.Error())
		return
	}

	stored := uuid.NewString() + "_" + filepath.Base(header.Filename)
	path := filepath.Join(s.uploadDir, stored)
	if err := c.SaveUploadedFile(header, path); err != nil {
		fail(c, http.StatusInternalServerError, "store file: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gateway.FileRef{
		URL:  s.baseURL + "/uploads/" + stored,
		Path: path,
	})
}

// handleExtract decodes an upload to plain text without storing it.
func (s *Server) handleExtract(c *gin.Context) {
	_, text, ok := s.readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// readUpload pulls the "file" part out of a multipart request and extracts
// its text. On failure it writes the error response and returns ok=false.
func (s *Server) readUpload(c *gin.Context) (filename, text string, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return "", "", false
	}
	text, err = extractUpload(header)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	if strings.TrimSpace(text) == "" {
		fail(c, http.StatusBadRequest, "file contains no extractable text")
		return "", "", false
	}
	return header.Filename, text, true
}

func extractUpload(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()
	return extract.Text(header.Filename, f)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
