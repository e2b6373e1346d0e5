package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/logger"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
)

// Scraper 抓取链接并返回正文纯文本
type Scraper interface {
	Scrape(ctx context.Context, link string) (string, error)
}

// ReadabilityScraper 使用 go-readability 提取正文
type ReadabilityScraper struct {
	client   *http.Client
	maxBytes int64
}

// MaxPageBytes 单个页面最多读取的字节数
const MaxPageBytes int64 = 5 << 20

// NewReadabilityScraper 创建抓取器，timeout 为单次抓取的超时
func NewReadabilityScraper(timeout time.Duration) *ReadabilityScraper {
	return &ReadabilityScraper{
		client:   &http.Client{Timeout: timeout},
		maxBytes: MaxPageBytes,
	}
}

// Scrape implements Scraper
func (s *ReadabilityScraper) Scrape(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch failed with status %d", res.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(res.Body, s.maxBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return article.TextContent, nil
}

// Resolution 内容解析结果
type Resolution struct {
	Text   string
	Source model.ContentSource
	// Warning 抓取失败的原因，非致命
	Warning error
}

// Resolver 按 抓取正文 -> content -> description -> 链接提示 的顺序取第一段非空文本
type Resolver struct {
	scraper Scraper
	catalog i18n.Catalog
}

// NewResolver scraper 为 nil 时跳过抓取
func NewResolver(scraper Scraper, catalog i18n.Catalog) *Resolver {
	return &Resolver{scraper: scraper, catalog: catalog}
}

// Resolve 每一步只尝试一次
func (r *Resolver) Resolve(ctx context.Context, rec model.ArticleRecord, lang i18n.Language) Resolution {
	var res Resolution

	if r.scraper != nil {
		text, err := r.scraper.Scrape(ctx, rec.Link)
		if err != nil {
			logger.Log.Warnf("抓取正文失败 [%s]: %v", rec.Link, err)
			res.Warning = err
		} else if strings.TrimSpace(text) != "" {
			res.Text, res.Source = text, model.SourceScraped
			return res
		}
	}

	switch {
	case strings.TrimSpace(rec.Content) != "":
		res.Text, res.Source = rec.Content, model.SourceContent
	case strings.TrimSpace(rec.Description) != "":
		res.Text, res.Source = rec.Description, model.SourceDescription
	default:
		res.Text, res.Source = r.catalog.Texts(lang).T("link_fallback", rec.Link), model.SourceLink
	}
	return res
}
