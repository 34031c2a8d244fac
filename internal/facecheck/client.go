package facecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"dreamtoons/internal/infra"
)

// Checker reports whether an uploaded photo contains a usable face.
type Checker interface {
	HasFace(ctx context.Context, photo []byte) (bool, error)
}

// Client calls an external face-detection service. Callers are expected to
// treat errors from HasFace as inconclusive and continue, so a flaky
// detector never blocks avatar creation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
	Timeout    time.Duration
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}
}

type detectResponse struct {
	FaceDetected bool   `json:"face_detected"`
	Message      string `json:"message,omitempty"`
}

// HasFace posts the photo to the detector and returns its verdict.
func (c *Client) HasFace(ctx context.Context, photo []byte) (bool, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		return false, fmt.Errorf("facecheck: build form: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return false, fmt.Errorf("facecheck: write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return false, fmt.Errorf("facecheck: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &body)
	if err != nil {
		return false, fmt.Errorf("facecheck: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("facecheck: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("facecheck: status %d", resp.StatusCode)
	}
	var decoded detectResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return false, fmt.Errorf("facecheck: decode response: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug().Bool("face_detected", decoded.FaceDetected).Msg("facecheck: verdict")
	}
	return decoded.FaceDetected, nil
}

var _ Checker = (*Client)(nil)

// AlwaysPass is used when no detector is configured.
type AlwaysPass struct{}

func (AlwaysPass) HasFace(ctx context.Context, photo []byte) (bool, error) {
	return true, nil
}

var _ Checker = AlwaysPass{}
