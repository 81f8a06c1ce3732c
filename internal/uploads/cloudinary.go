package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var ErrUploadFailed = errors.New("image upload failed")

const defaultBaseURL = "https://api.cloudinary.com"

// Config selects the Cloudinary account. Uploads are unsigned and rely
// on a preset configured in the Cloudinary console, so no API secret
// ever touches this process.
type Config struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
}

// Service uploads images and returns their public URLs.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type service struct {
	cfg    Config
	client *http.Client
}

func NewService(cfg Config) Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &service{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload performs one unsigned multipart POST. Failures propagate to
// the caller; there is no retry and no partial state to clean up.
func (s *service) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := writer.WriteField("upload_preset", s.cfg.UploadPreset); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", s.cfg.BaseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, string(msg))
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: response missing secure_url", ErrUploadFailed)
	}
	return result.SecureURL, nil
}
