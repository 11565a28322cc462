// Package media is a thin client for a Cloudinary-style image host.
// This system never stores image bytes itself; uploads are proxied to
// the host and only the returned URL is persisted.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftstore/backend/internal/config"
)

// allowedTypes is the content-type allow-list enforced before any
// bytes leave the process.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Params control where and how an image is stored on the host.
type Params struct {
	Folder   string
	PublicID string
	Width    int
	Height   int
	Crop     string
}

// UploadResult is the host's record of a stored image.
type UploadResult struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
}

// Client uploads images to the media host.
type Client struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	rootFolder string
	maxSize    int64
	httpClient *http.Client
}

// NewClient creates a media client from configuration.
func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		rootFolder: cfg.RootFolder,
		maxSize:    cfg.MaxUploadSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithHTTP creates a media client with a custom http.Client.
// Primarily used for testing.
func NewClientWithHTTP(cfg config.MediaConfig, httpClient *http.Client) *Client {
	c := NewClient(cfg)
	c.httpClient = httpClient
	return c
}

// NewPublicID returns a fresh unique public id for an upload.
func NewPublicID() string {
	return uuid.NewString()
}

// Upload checks the payload against the allow-list and size ceiling,
// then forwards it to the host as a signed multipart POST.
func (c *Client) Upload(ctx context.Context, r io.Reader, contentType string, size int64, p Params) (*UploadResult, error) {
	if _, ok := allowedTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size <= 0 || size > c.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, c.maxSize)
	}
	if p.PublicID == "" {
		p.PublicID = NewPublicID()
	}
	folder := c.rootFolder
	if p.Folder != "" {
		folder = c.rootFolder + "/" + p.Folder
	}

	fields := map[string]string{
		"public_id": p.PublicID,
		"folder":    folder,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if p.Width > 0 && p.Height > 0 {
		crop := p.Crop
		if crop == "" {
			crop = "limit"
		}
		fields["transformation"] = fmt.Sprintf("c_%s,w_%d,h_%d", crop, p.Width, p.Height)
	}
	fields["signature"] = c.sign(fields)
	fields["api_key"] = c.apiKey

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := writer.CreateFormFile("file", p.PublicID)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(r, c.maxSize)); err != nil {
		return nil, fmt.Errorf("copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

// sign produces the host's request signature: the sorted key=value
// pairs joined with &, concatenated with the secret, SHA-1 hashed.
// The api_key field is excluded from signing.
func (c *Client) sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
