package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/netx"
)

// uploadDateLayout is how the file server formats modification times.
const uploadDateLayout = "2006-01-02 15:04:05"

const tokenValidity = time.Minute

// HTTPSource talks to the file server's HTTP API:
//
//	GET /files            JSON listing
//	GET /download/<name>  base64 payload
//
// Requests carry the static API key, or a freshly signed bearer token when
// TokenSecret is set.
type HTTPSource struct {
	BaseURL     string
	APIKey      string
	TokenSecret string
	Client      *http.Client
}

func NewHTTPSource(baseURL, apiKey, tokenSecret string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		TokenSecret: tokenSecret,
		Client:      netx.NewClient(timeout),
	}
}

type listItem struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	UploadDate string `json:"uploadDate"`
}

func (s *HTTPSource) List(ctx context.Context) ([]FileDescriptor, error) {
	h, err := s.authHeader()
	if err != nil {
		return nil, err
	}

	body, err := netx.GetText(ctx, s.Client, s.BaseURL+"/files", h, nil)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	var items []listItem
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("%w: listing is not valid JSON: %v", common.ErrUnavailable, err)
	}

	files := make([]FileDescriptor, 0, len(items))
	for _, it := range items {
		uploaded, err := time.ParseInLocation(uploadDateLayout, it.UploadDate, time.Local)
		if err != nil {
			uploaded = time.Time{}
		}
		files = append(files, newDescriptor(it.Name, it.Size, uploaded))
	}
	return files, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, name string, progress netx.ProgressFunc) (string, error) {
	h, err := s.authHeader()
	if err != nil {
		return "", err
	}

	text, err := netx.GetText(ctx, s.Client, s.BaseURL+"/download/"+url.PathEscape(name), h, progress)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return text, nil
}

func (s *HTTPSource) authHeader() (http.Header, error) {
	h := http.Header{}
	if s.TokenSecret != "" {
		token, err := GenerateToken([]byte(s.TokenSecret), tokenValidity)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		h.Set("Authorization", "Bearer "+token)
		return h, nil
	}
	if s.APIKey != "" {
		h.Set(common.APIKeyHeaderName, s.APIKey)
	}
	return h, nil
}
