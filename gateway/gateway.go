package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/veriscribe/veriscribe/logging"
)

// DefaultBaseURL is the analysis backend used when no base URL is
// configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Message is one chat turn forwarded to the tutoring backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CheckResult is the AI-likelihood verdict for a piece of text.
type CheckResult struct {
	AIScore     float64  `json:"ai_score"`
	HumanScore  float64  `json:"human_score"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

// Indicator is one authorship signal quoted from the analyzed text.
type Indicator struct {
	Point   string `json:"point"`
	Example string `json:"example"`
}

// LineVerdict is the per-sentence classification within a Detection.
type LineVerdict struct {
	LineNumber int     `json:"line_number"`
	Text       string  `json:"text"`
	LikelyAI   bool    `json:"likely_ai"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// DetectionDetail groups the evidence behind a Detection verdict.
type DetectionDetail struct {
	HumanIndicators []Indicator   `json:"human_indicators"`
	AIIndicators    []Indicator   `json:"ai_indicators"`
	LineAnalysis    []LineVerdict `json:"line_analysis"`
}

// Detection is the detailed report returned by the file variant of the AI
// check.
type Detection struct {
	AIDetected        bool            `json:"ai_detected"`
	Confidence        float64         `json:"confidence"`
	Analysis          DetectionDetail `json:"analysis"`
	SentencesAnalyzed int             `json:"sentences_analyzed"`
}

// Upload describes an assignment submission for scoring.
type Upload struct {
	Filename string
	Reader   io.Reader
	TaskType string
	// Rubric optionally carries grading criteria the backend should score
	// against.
	Rubric string
}

// Feedback is the scored evaluation of an uploaded assignment.
type Feedback struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	TaskType string `json:"task_type"`
	Filename string `json:"filename"`
}

// FileRef is the stored-file reference returned by UploadFile. It carries
// only the reference, never the bytes.
type FileRef struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Options configure the gateway client.
type Options struct {
	// HTTPClient overrides the transport. Timeout policy belongs here or to
	// the per-call context; the gateway enforces none.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to the analysis backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a gateway client for the given base URL; an empty URL
// selects DefaultBaseURL.
func NewClient(baseURL string, optFns ...func(o *Options)) *Client {
	opts := Options{
		HTTPClient: http.DefaultClient,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// CheckAILikelihood submits raw text for an AI-authorship verdict. Empty
// text is forwarded unchanged; rejecting it is the backend's call.
func (c *Client) CheckAILikelihood(ctx context.Context, text string) (CheckResult, error) {
	var res CheckResult
	err := c.postJSON(ctx, "check-ai", "/check-ai", map[string]any{"text": text}, &res)
	return res, err
}

// CheckFile submits a file for the detailed per-sentence detection report.
// Distinct from CheckAILikelihood: the backend extracts the text itself and
// answers with line-level evidence.
func (c *Client) CheckFile(ctx context.Context, filename string, r io.Reader) (Detection, error) {
	var res Detection
	err := c.postMultipart(ctx, "check-ai file", "/check-ai", func(w *multipart.Writer) error {
		return writeFilePart(w, filename, r)
	}, &res)
	return res, err
}

// Chat sends a message plus prior conversation turns (oldest first,
// forwarded unchanged) and returns the tutor's reply.
func (c *Client) Chat(ctx context.Context, message string, history []Message) (string, error) {
	if history == nil {
		history = []Message{}
	}
	var res struct {
		Response string `json:"response"`
	}
	err := c.postJSON(ctx, "chat", "/chat", map[string]any{
		"message":              message,
		"conversation_history": history,
	}, &res)
	return res.Response, err
}

// ChatWithFile sends a chat message with an attached file the tutor should
// read before answering.
func (c *Client) ChatWithFile(ctx context.Context, message, filename string, r io.Reader) (string, error) {
	var res struct {
		Response string `json:"response"`
	}
	err := c.postMultipart(ctx, "chat file", "/chat", func(w *multipart.Writer) error {
		if err := w.WriteField("message", message); err != nil {
			return err
		}
		return writeFilePart(w, filename, r)
	}, &res)
	return res.Response, err
}

// GenerateTitle asks the backend for a short descriptive title for a
// conversation opener.
func (c *Client) GenerateTitle(ctx context.Context, message string) (string, error) {
	var res struct {
		Title string `json:"title"`
	}
	err := c.postJSON(ctx, "generate-title", "/generate-title", map[string]any{"message": message}, &res)
	return res.Title, err
}

// UploadAssignment submits an assignment for scored feedback (store-and-score
// semantics).
func (c *Client) UploadAssignment(ctx context.Context, up Upload) (Feedback, error) {
	var res Feedback
	err := c.postMultipart(ctx, "upload", "/upload", func(w *multipart.Writer) error {
		if err := w.WriteField("task_type", up.TaskType); err != nil {
			return err
		}
		if up.Rubric != "" {
			if err := w.WriteField("rubric", up.Rubric); err != nil {
				return err
			}
		}
		return writeFilePart(w, up.Filename, up.Reader)
	}, &res)
	return res, err
}

// UploadFile stores a file and returns its reference (store-and-reference
// semantics). Deliberately a separate operation from ExtractText; the two
// must never be conflated into one overload.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (FileRef, error) {
	var res FileRef
	err := c.postMultipart(ctx, "upload file", "/files", func(w *multipart.Writer) error {
		return writeFilePart(w, filename, r)
	}, &res)
	return res, err
}

// ExtractText uploads a file and synchronously returns its decoded text
// (store-and-extract semantics).
func (c *Client) ExtractText(ctx context.Context, filename string, r io.Reader) (string, error) {
	var res struct {
		Text string `json:"text"`
	}
	err := c.postMultipart(ctx, "extract", "/extract", func(w *multipart.Writer) error {
		return writeFilePart(w, filename, r)
	}, &res)
	return res.Text, err
}

// StructuredAnalyze runs a freeform analysis against a caller-declared JSON
// schema and returns the raw JSON result. The response is not validated
// against the schema here; the backend is trusted to honor it.
func (c *Client) StructuredAnalyze(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error) {
	var res json.RawMessage
	err := c.postJSON(ctx, "analyze", "/analyze", map[string]any{
		"prompt":               prompt,
		"response_json_schema": schema,
	}, &res)
	return res, err
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, op, out)
}

func (c *Client) postMultipart(ctx context.Context, op, path string, build func(*multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := build(mw); err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, op, out)
}

// send performs the single network call and decodes the response. Faults are
// logged and returned, never swallowed.
func (c *Client) send(req *http.Request, op string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := &RequestError{Op: op, Err: err}
		c.logger.Error("analysis call failed", "op", op, "duration", time.Since(start), "error", err.Error())
		return reqErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
		c.logger.Error("analysis call rejected", "op", op, "status", resp.StatusCode, "duration", time.Since(start))
		return statusErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error("analysis response malformed", "op", op, "duration", time.Since(start), "error", err.Error())
			return &DecodeError{Op: op, Err: err}
		}
	}
	c.logger.Debug("analysis call completed", "op", op, "duration", time.Since(start))
	return nil
}

// readDetail extracts the backend's {"detail": ...} error message, falling
// back to the raw body.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 2048))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(raw))
}

func writeFilePart(w *multipart.Writer, filename string, r io.Reader) error {
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file %s: %w", filename, err)
	}
	return nil
}
