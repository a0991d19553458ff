package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/domain"
)

// BackendClient talks to the inference/recommendation service. It owns the
// two request shapes the widget consumes: generate-response for text turns
// and upload-file for file turns.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Prompt      string         `json:"prompt"`
	ChatHistory []HistoryEntry `json:"chat_history"`
	SessionID   string         `json:"session_id"`
}

type GenerateResponse struct {
	Response string           `json:"response"`
	Products []BackendProduct `json:"products"`
}

type UploadResponse struct {
	Success              bool             `json:"success"`
	GeneratedDescription string           `json:"generated_description"`
	RecommendedProducts  []BackendProduct `json:"recommended_products"`
	Message              string           `json:"message"`
	Filename             string           `json:"filename"`
}

// BackendProduct is a catalog row as the backend returns it. Image may
// arrive under either key and Price as a string or a bare number.
type BackendProduct struct {
	Image    string    `json:"image"`
	ImageURL string    `json:"image_url"`
	Price    flexPrice `json:"price"`
}

// ToProduct collapses the image key variants; rows without any image
// reference map to an empty Image and are dropped during projection.
func (p BackendProduct) ToProduct() domain.Product {
	img := p.Image
	if img == "" {
		img = p.ImageURL
	}
	return domain.Product{Image: img, Price: string(p.Price)}
}

// flexPrice decodes a JSON string, number or null into a plain string.
type flexPrice string

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = flexPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = flexPrice(n.String())
	return nil
}

func (c *BackendClient) GenerateResponse(ctx context.Context, genReq GenerateRequest) (*GenerateResponse, error) {
	if genReq.ChatHistory == nil {
		genReq.ChatHistory = []HistoryEntry{}
	}
	payload, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate-response", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serviceError(resp.StatusCode, body)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &genResp, nil
}

func (c *BackendClient) UploadFile(ctx context.Context, filename string, data []byte) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload-file", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serviceError(resp.StatusCode, body)
	}

	var upResp UploadResponse
	if err := json.Unmarshal(body, &upResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &upResp, nil
}

// serviceError extracts the backend's structured failure detail. A body
// without a detail field still yields a ServiceError so the turn surfaces
// the non-success status instead of a decoding failure.
func serviceError(status int, body []byte) error {
	var failure struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &failure); err != nil || failure.Detail == "" {
		failure.Detail = config.UnknownErrorDetail
	}
	return &domain.ServiceError{Status: status, Detail: failure.Detail}
}
