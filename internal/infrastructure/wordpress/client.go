// Package wordpress adapts the WordPress REST API (v2) to the content and
// taxonomy store ports. Authentication uses application passwords.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RecipePress/internal/config"
	"RecipePress/internal/domain"
	"RecipePress/internal/ports"
)

// Meta keys the host stores aggregate ratings under.
const (
	metaRatingValue = "recipepress_rating_value"
	metaReviewCount = "recipepress_review_count"
)

// Client talks to a WordPress site over its REST API. All record operations
// address the post type the client was configured with.
type Client struct {
	baseURL     string
	username    string
	appPassword string
	postType    string
	client      *http.Client
	logger      *slog.Logger
}

var _ ports.ContentStore = (*Client)(nil)
var _ ports.TaxonomyStore = (*Client)(nil)

// NewClient builds a client from configuration; a nil http.Client gets a
// 20-second default.
func NewClient(cfg config.WordPressConfig, postType string, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		postType:    postType,
		client:      client,
		logger:      logger,
	}
}

type postResponse struct {
	ID      int64  `json:"id"`
	Link    string `json:"link"`
	Content struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"content"`
	Meta struct {
		RatingValue float64 `json:"recipepress_rating_value"`
		ReviewCount int     `json:"recipepress_review_count"`
	} `json:"meta"`
}

type termResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreatePost creates a content record of the configured type and status.
func (c *Client) CreatePost(ctx context.Context, in ports.PostInput) (ports.Post, error) {
	body := map[string]any{
		"title":   in.Title,
		"content": in.Content,
		"status":  string(in.Status),
	}

	endpoint := c.endpoint()
	if in.Type != "" {
		endpoint = endpointFor(in.Type)
	}

	var resp postResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return ports.Post{}, fmt.Errorf("create post: %w", err)
	}
	return c.toPost(resp), nil
}

// UpdatePostContent replaces the record body.
func (c *Client) UpdatePostContent(ctx context.Context, id int64, content string) (ports.Post, error) {
	var resp postResponse
	path := fmt.Sprintf("%s/%d", c.endpoint(), id)
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"content": content}, &resp); err != nil {
		return ports.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return c.toPost(resp), nil
}

// DeletePost removes the record, bypassing trash.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d?force=true", c.endpoint(), id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// PostContent reads the current record body. The edit context yields the raw
// stored content rather than the theme-rendered form.
func (c *Client) PostContent(ctx context.Context, id int64) (string, error) {
	var resp postResponse
	path := fmt.Sprintf("%s/%d?context=edit", c.endpoint(), id)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", fmt.Errorf("fetch post %d: %w", id, err)
	}
	if resp.Content.Raw != "" {
		return resp.Content.Raw, nil
	}
	return resp.Content.Rendered, nil
}

// PostRating reads the stored rating pair from the record's meta.
func (c *Client) PostRating(ctx context.Context, id int64) (domain.Rating, error) {
	var resp postResponse
	path := fmt.Sprintf("%s/%d", c.endpoint(), id)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.Rating{}, fmt.Errorf("fetch post %d: %w", id, err)
	}
	return domain.Rating{Value: resp.Meta.RatingValue, ReviewCount: resp.Meta.ReviewCount}, nil
}

// TermExists checks a term id within a taxonomy.
func (c *Client) TermExists(ctx context.Context, taxonomy string, termID int64) (bool, error) {
	path := fmt.Sprintf("%s/%d", taxonomyEndpoint(taxonomy), termID)
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return true, nil
	}
	var httpErr *statusError
	if errors.As(err, &httpErr) && httpErr.code == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("check term %d in %s: %w", termID, taxonomy, err)
}

// termPageSize is the REST API's maximum per_page.
const termPageSize = 100

// FindTerm looks up a term by exact name match, walking search result pages
// until the name is found or the results run out.
func (c *Client) FindTerm(ctx context.Context, taxonomy, name string) (int64, bool, error) {
	for page := 1; ; page++ {
		path := fmt.Sprintf("%s?search=%s&per_page=%d&page=%d",
			taxonomyEndpoint(taxonomy), url.QueryEscape(name), termPageSize, page)

		var terms []termResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &terms); err != nil {
			// WordPress answers 400 for a page past the last one
			var httpErr *statusError
			if page > 1 && errors.As(err, &httpErr) && httpErr.code == http.StatusBadRequest {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("search term %q in %s: %w", name, taxonomy, err)
		}

		for _, term := range terms {
			if term.Name == name {
				return term.ID, true, nil
			}
		}
		if len(terms) < termPageSize {
			return 0, false, nil
		}
	}
}

// CreateTerm creates a term and returns its id.
func (c *Client) CreateTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	var resp termResponse
	if err := c.do(ctx, http.MethodPost, taxonomyEndpoint(taxonomy), map[string]any{"name": name}, &resp); err != nil {
		return 0, fmt.Errorf("create term %q in %s: %w", name, taxonomy, err)
	}
	return resp.ID, nil
}

// AssignTerms sets the taxonomy's terms on the record.
func (c *Client) AssignTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error {
	field := taxonomyField(taxonomy)
	path := fmt.Sprintf("%s/%d", c.endpoint(), postID)
	if err := c.do(ctx, http.MethodPost, path, map[string]any{field: termIDs}, nil); err != nil {
		return fmt.Errorf("assign %s terms to post %d: %w", taxonomy, postID, err)
	}
	return nil
}

func (c *Client) toPost(resp postResponse) ports.Post {
	return ports.Post{
		ID:      resp.ID,
		URL:     resp.Link,
		EditURL: fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.baseURL, resp.ID),
	}
}

func (c *Client) endpoint() string {
	return endpointFor(c.postType)
}

func endpointFor(postType string) string {
	switch postType {
	case "", "post":
		return "posts"
	case "page":
		return "pages"
	default:
		return postType
	}
}

func taxonomyEndpoint(taxonomy string) string {
	return taxonomyField(taxonomy)
}

// taxonomyField maps a taxonomy name to its REST field/route base.
func taxonomyField(taxonomy string) string {
	switch taxonomy {
	case "category":
		return "categories"
	case "post_tag":
		return "tags"
	default:
		return taxonomy
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wordpress returned %d: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, method, path string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
