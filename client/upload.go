package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadKind selects the bucket an image lands in.
type UploadKind string

const (
	UploadBlog    UploadKind = "blog"
	UploadBrand   UploadKind = "brand"
	UploadProduct UploadKind = "product"
)

// UploadService pushes images to the backend's upload endpoints.
type UploadService struct {
	core *core
}

type uploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// Image uploads the file under its kind's bucket and returns the public URL.
// Uploads are mutations; they are never retried.
func (s *UploadService) Image(ctx context.Context, kind UploadKind, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := s.core.baseURL + "/upload-image/" + url.PathEscape(string(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	s.core.attachAuth(req)

	resp, err := s.core.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	env, err := decodeResponse(resp)
	if err != nil {
		return "", err
	}

	var out uploadResponse
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return "", fmt.Errorf("decode upload response: %w", err)
		}
	}
	return out.FileURL, nil
}
