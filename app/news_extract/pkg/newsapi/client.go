package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/search"
)

const everythingPath = "/v2/everything"

// Client NewsAPI 客户端
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient 创建一个新的 NewsAPI 客户端
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

var _ search.Searcher = (*Client)(nil)

// Response /v2/everything 响应
type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Article NewsAPI 单篇文章，description 和 content 可能为 null
type Article struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL + everythingPath)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("pageSize", strconv.Itoa(req.PageSize))
	q.Set("apiKey", c.apiKey)
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &search.StatusError{Provider: "newsapi", StatusCode: res.StatusCode, Body: string(body)}
	}

	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	articles := make([]model.ArticleRecord, 0, len(apiResp.Articles))
	for _, a := range apiResp.Articles {
		articles = append(articles, model.NewArticleRecord(
			a.Title, a.PublishedAt, deref(a.Description), deref(a.Content), a.URL,
		))
	}
	return &search.Response{Articles: articles}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
