package qwen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dreamtoons/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("qwen: api key is required")

// Options configures the DashScope Qwen client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	DefaultSize    string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the DashScope Qwen multimodal generation
// API. Qwen honors the numeric seed, which makes it the backend of choice
// for cross-panel stylistic consistency.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	defaultSize string
	httpClient  *http.Client
	logger      *infra.Logger
}

// ImageRequest captures the required inputs for image generation.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Reference      []byte
	Seed           *int64
	RequestID      string
}

type generationRequest struct {
	Model      string           `json:"model"`
	Input      generationInput  `json:"input"`
	Parameters generationParams `json:"parameters"`
}

type generationInput struct {
	Messages []generationMessage `json:"messages"`
}

type generationMessage struct {
	Role    string              `json:"role"`
	Content []generationContent `json:"content"`
}

type generationContent struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type generationParams struct {
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Size           string `json:"size,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
}

type generationResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []struct {
					Image string `json:"image"`
				} `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://dashscope-intl.aliyuncs.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "qwen-image-plus"
	}
	defaultSize := strings.TrimSpace(opts.DefaultSize)
	if defaultSize == "" {
		defaultSize = "1328*1328"
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
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		model:       model,
		defaultSize: defaultSize,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateImage invokes the DashScope API once and returns the raw image
// bytes. Responses that carry a URL instead of inline data are fetched.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("qwen: prompt is required")
	}
	content := []generationContent{{Text: prompt}}
	if len(req.Reference) > 0 {
		content = append(content, generationContent{
			Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Reference),
		})
	}
	payload := generationRequest{
		Model: c.model,
		Input: generationInput{
			Messages: []generationMessage{{Role: "user", Content: content}},
		},
		Parameters: generationParams{
			NegativePrompt: strings.TrimSpace(req.NegativePrompt),
			Size:           c.defaultSize,
			Seed:           req.Seed,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qwen: encode request: %w", err)
	}
	endpoint := c.baseURL + "/services/aigc/multimodal-generation/generation"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("qwen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("qwen: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return nil, fmt.Errorf("qwen: %s (%s)", detail.Message, detail.Code)
		}
		return nil, fmt.Errorf("qwen: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("qwen: decode response: %w", err)
	}
	if decoded.Code != "" {
		return nil, fmt.Errorf("qwen: %s (%s)", decoded.Message, decoded.Code)
	}
	for _, choice := range decoded.Output.Choices {
		for _, item := range choice.Message.Content {
			if item.Image == "" {
				continue
			}
			return c.resolveImage(ctx, item.Image)
		}
	}
	return nil, errors.New("qwen: response contained no image")
}

// resolveImage turns a content image value (data URI or URL) into bytes.
func (c *Client) resolveImage(ctx context.Context, image string) ([]byte, error) {
	if strings.HasPrefix(image, "data:") {
		idx := strings.Index(image, "base64,")
		if idx < 0 {
			return nil, errors.New("qwen: unsupported data uri")
		}
		data, err := base64.StdEncoding.DecodeString(image[idx+len("base64,"):])
		if err != nil {
			return nil, fmt.Errorf("qwen: decode data uri: %w", err)
		}
		return data, nil
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, image, nil)
	if err != nil {
		return nil, fmt.Errorf("qwen: build image fetch: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qwen: image fetch status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
