package adapters

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/config"
)

// newStabilityFormRequest builds a multipart POST against the Stability v2
// API, which takes every parameter as a form field.
func newStabilityFormRequest(ctx context.Context, stabilityConfig *config.StabilityConfig, path string, accept string, fields [][2]string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stabilityURL(stabilityConfig, path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+stabilityConfig.ApiKey)
	req.Header.Set("Accept", accept)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

func stabilityURL(stabilityConfig *config.StabilityConfig, path string) string {
	return strings.TrimSuffix(stabilityConfig.ApiUrl, "/") + path
}
