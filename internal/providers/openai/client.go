package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dreamtoons/internal/infra"
)

// Options configures the OpenAI client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin HTTP facade over the OpenAI endpoints the pipeline
// consumes: chat completions (storyboarding), the responses API with the
// image-generation tool (panel synthesis), image edits (avatars),
// moderations and audio transcription.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

const defaultTimeout = 120 * time.Second

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("openai: api key is required")

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured chat model identifier.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatJSON sends a system+user chat completion constrained to a JSON object
// response and returns the raw JSON content.
func (c *Client) ChatJSON(ctx context.Context, system, user string) ([]byte, error) {
	payload := chatRequest{
		Model:          c.model,
		ResponseFormat: &chatFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var decoded chatResponse
	if err := c.postJSON(ctx, "/chat/completions", payload, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return nil, errors.New("openai: chat completion returned no content")
	}
	return []byte(decoded.Choices[0].Message.Content), nil
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Tools []responsesTool  `json:"tools"`
}

type responsesInput struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesTool struct {
	Type    string `json:"type"`
	Quality string `json:"quality,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type   string `json:"type"`
		Result string `json:"result"`
	} `json:"output"`
}

// GenerateImage runs the responses API with the image_generation tool,
// anchoring identity with the base64 reference image. Returns raw image
// bytes; an empty tool result is an error, never a silent success.
func (c *Client) GenerateImage(ctx context.Context, prompt string, reference []byte) ([]byte, error) {
	content := []responsesContent{{Type: "input_text", Text: prompt}}
	if len(reference) > 0 {
		content = append(content, responsesContent{
			Type:     "input_image",
			ImageURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(reference),
		})
	}
	payload := responsesRequest{
		Model: c.model,
		Input: []responsesInput{{Role: "user", Content: content}},
		Tools: []responsesTool{{Type: "image_generation", Quality: "medium"}},
	}
	var decoded responsesResponse
	if err := c.postJSON(ctx, "/responses", payload, &decoded); err != nil {
		return nil, err
	}
	for _, out := range decoded.Output {
		if out.Type != "image_generation_call" || out.Result == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(out.Result)
		if err != nil {
			return nil, fmt.Errorf("openai: decode image result: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("openai: response contained no image generation result")
}

type imageEditResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// EditImage stylizes a source photo with the image-edit endpoint
// (gpt-image-1), used for avatar generation.
func (c *Client) EditImage(ctx context.Context, prompt string, photo []byte) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image[]", "photo.png")
	if err != nil {
		return nil, fmt.Errorf("openai: build form: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return nil, fmt.Errorf("openai: write photo: %w", err)
	}
	_ = mw.WriteField("model", "gpt-image-1")
	_ = mw.WriteField("prompt", prompt)
	_ = mw.WriteField("n", "1")
	_ = mw.WriteField("size", "1024x1024")
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("openai: close form: %w", err)
	}

	var decoded imageEditResponse
	if err := c.postForm(ctx, "/images/edits", mw.FormDataContentType(), &body, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Data) == 0 || decoded.Data[0].B64JSON == "" {
		return nil, errors.New("openai: image edit returned no data")
	}
	data, err := base64.StdEncoding.DecodeString(decoded.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode edited image: %w", err)
	}
	return data, nil
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ModerationResult holds the per-category scores for one input.
type ModerationResult struct {
	CategoryScores map[string]float64 `json:"category_scores"`
}

type moderationResponse struct {
	Results []ModerationResult `json:"results"`
}

// Moderate scores text against the moderation model and returns the
// per-category scores.
func (c *Client) Moderate(ctx context.Context, text string) (*ModerationResult, error) {
	payload := moderationRequest{Model: "omni-moderation-latest", Input: text}
	var decoded moderationResponse
	if err := c.postJSON(ctx, "/moderations", payload, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, errors.New("openai: moderation returned no results")
	}
	return &decoded.Results[0], nil
}

// Transcribe converts recorded audio to text with Whisper.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.m4a"
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("openai: build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("openai: write audio: %w", err)
	}
	_ = mw.WriteField("model", "whisper-1")
	_ = mw.WriteField("response_format", "text")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("openai: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", apiError(resp.StatusCode, raw)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("openai: encode request: %w", err)
	}
	return c.postForm(ctx, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) postForm(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors pass through unwrapped so they classify as
		// network failures.
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}

type errorDetail struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func apiError(status int, raw []byte) error {
	var detail errorDetail
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
		return fmt.Errorf("openai: status %d: %s", status, detail.Error.Message)
	}
	return fmt.Errorf("openai: status %d: %s", status, strings.TrimSpace(string(raw)))
}
