// Package clients holds HTTP clients for the external catalog REST API
// the admin form submits to.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/diff"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

// CatalogClient talks to the product catalog API. It issues one request
// per call with no retries; the caller owns failure handling and keeps
// the form's dirty state when a submission fails.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewCatalogClient(baseURL string, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// FetchProduct loads the persisted entity used as the edit-mode
// snapshot.
func (c *CatalogClient) FetchProduct(ctx context.Context, id string) (map[string]any, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// CreateProduct submits a new product as a multipart payload: the JSON
// document under "product", the main image under "mainImage" and the
// extra binaries under "additionalImages".
func (c *CatalogClient) CreateProduct(ctx context.Context, product map[string]any, images diff.ImageChanges) (map[string]any, error) {
	body, contentType, err := buildMultipart(product, images)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

// UpdateProduct patches an existing product. Without new image binaries
// the patch goes out as plain JSON; with them it becomes the same
// multipart shape the create path uses.
func (c *CatalogClient) UpdateProduct(ctx context.Context, id string, patch map[string]any, images diff.ImageChanges) (map[string]any, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, id)

	var body io.Reader
	contentType := "application/json"

	if images.Empty() {
		data, err := json.Marshal(patch)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	} else {
		buf, ct, err := buildMultipart(patch, images)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *CatalogClient) do(req *http.Request) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Catalog API request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("catalog API returned %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return out, nil
}

func buildMultipart(product map[string]any, images diff.ImageChanges) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	productJSON, err := json.Marshal(product)
	if err != nil {
		return nil, "", fmt.Errorf("serialize product: %w", err)
	}
	if err := writer.WriteField("product", string(productJSON)); err != nil {
		return nil, "", err
	}

	if images.Main != nil {
		if err := writeFilePart(writer, "mainImage", *images.Main); err != nil {
			return nil, "", err
		}
	}
	for _, img := range images.Additional {
		if err := writeFilePart(writer, "additionalImages", img); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, field string, upload models.Upload) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, upload.Name))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(upload.Data)
	return err
}
