package search

import (
	"context"
	"fmt"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
)

// Searcher 定义通用的新闻搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query    string
	PageSize int
	Language string // 内容语言过滤
}

// Response 通用搜索响应，只包含请求的那一页
type Response struct {
	Articles []model.ArticleRecord
}

// StatusError 搜索接口返回了非 200 状态码
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
