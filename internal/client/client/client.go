// Package client is the HTTP client blogctl uses to talk to the blog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// Client calls the blog API. Set the token with SetToken after login; an
// empty token sends no Authorization header.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Signup(ctx context.Context, in models.SignupRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/user/signup", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/post", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) SearchPosts(ctx context.Context, title string) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/post/title/"+url.PathEscape(title), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, in models.CreatePostRequest) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/post", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/post/%d", id), nil, nil)
}

func (c *Client) ListThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := c.do(ctx, http.MethodGet, "/theme", nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

func (c *Client) CreateTheme(ctx context.Context, in models.CreateThemeRequest) (*models.Theme, error) {
	var t models.Theme
	if err := c.do(ctx, http.MethodPost, "/theme", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// RequestPhotoUpload asks for a presigned URL to upload userID's photo to.
func (c *Client) RequestPhotoUpload(ctx context.Context, userID int64) (*models.PhotoUpload, error) {
	var up models.PhotoUpload
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/user/%d/photo", userID), nil, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// HTTPClient exposes the underlying client so uploads share its timeout.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Ping checks that the server answers /healthz.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
