package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/config"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/export"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/extraction"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/logger"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/resolver"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/search"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/search/factory"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/session"
)

// ContentResolver 为一篇文章找到用于抽取的文本
type ContentResolver interface {
	Resolve(ctx context.Context, rec model.ArticleRecord, lang i18n.Language) resolver.Resolution
}

// InfoExtractor 从文本中抽取信息
type InfoExtractor interface {
	Extract(ctx context.Context, text string, lang i18n.Language) extraction.Reply
}

// Components 引擎依赖的外部组件
type Components struct {
	Catalog   i18n.Catalog
	Searcher  search.Searcher
	Resolver  ContentResolver
	Extractor InfoExtractor
}

// Engine 会话控制器：每个用户操作对应一个方法，所有操作串行执行
type Engine struct {
	cfg       *config.Config
	catalog   i18n.Catalog
	searcher  search.Searcher
	resolver  ContentResolver
	extractor InfoExtractor

	mu   sync.Mutex
	sess *session.Session
}

// New 使用给定组件创建引擎
func New(cfg *config.Config, c Components) *Engine {
	return &Engine{
		cfg:       cfg,
		catalog:   c.Catalog,
		searcher:  c.Searcher,
		resolver:  c.Resolver,
		extractor: c.Extractor,
		sess:      session.New(i18n.Default, cfg.DefaultCount),
	}
}

// NewEngine 按配置创建搜索客户端、正文抓取器和大模型，并组装引擎
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	catalog, err := i18n.Load()
	if err != nil {
		return nil, err
	}

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	chatModel, err := extraction.NewOpenAIChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	var scraper resolver.Scraper
	if cfg.Scrape.Enabled {
		scraper = resolver.NewReadabilityScraper(time.Duration(cfg.Scrape.Timeout) * time.Second)
	}

	return New(cfg, Components{
		Catalog:   catalog,
		Searcher:  searcher,
		Resolver:  resolver.NewResolver(scraper, catalog),
		Extractor: extraction.NewExtractor(chatModel),
	}), nil
}

// SetLanguage 切换界面语言
func (e *Engine) SetLanguage(lang i18n.Language) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Language = lang
}

// Search 调用一次搜索接口并替换当前结果；失败时结果和选择集都被清空
func (e *Engine) Search(ctx context.Context, keywords string, count int) ([]model.ArticleRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	keywords = strings.TrimSpace(keywords)
	if keywords == "" || count < 1 {
		e.sess.AddNotice(session.LevelError, "invalid_query")
		return nil, errInvalidQuery(fmt.Sprintf("keywords=%q count=%d", keywords, count))
	}
	e.sess.Keywords = keywords
	e.sess.Count = count
	e.sess.State = session.StateSearchReady

	logger.Log.Infof("搜索新闻: %q (count=%d)", keywords, count)
	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:    keywords,
		PageSize: count,
		Language: e.cfg.Search.Language,
	})
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", keywords, err)
		e.sess.SetResults(nil)
		e.sess.State = session.StateAPIError
		e.sess.AddNotice(session.LevelError, "api_error")
		return nil, errSearchAPI(err)
	}

	if len(resp.Articles) == 0 {
		logger.Log.Warnf("未找到文章 [%s]", keywords)
		e.sess.SetResults(nil)
		e.sess.State = session.StateNoResults
		e.sess.AddNotice(session.LevelWarning, "no_articles_found")
		return nil, errNoResults(keywords)
	}

	e.sess.SetResults(resp.Articles)
	e.sess.State = session.StateResultsShown
	logger.Log.Infof("搜索 [%s] 返回 %d 篇文章", keywords, len(resp.Articles))
	return e.sess.Results(), nil
}

// Toggle 勾选或取消勾选当前结果中的一篇文章
func (e *Engine) Toggle(id string, checked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.sess.Lookup(id)
	if !ok {
		e.sess.AddNotice(session.LevelError, "unknown_article")
		return errUnknownArticle(id)
	}

	if e.sess.Toggle(rec, checked) {
		logger.Log.Debugf("选择变更 [%s] checked=%v", rec.Title, checked)
	}
	if len(e.sess.Selected()) > 0 {
		e.sess.State = session.StateSelectionNonEmpty
	} else {
		e.sess.State = session.StateResultsShown
	}
	return nil
}

// Extract 对每篇已选文章依次解析正文并调用一次模型
func (e *Engine) Extract(ctx context.Context) ([]model.ExtractionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	selected := e.sess.Selected()
	if len(selected) == 0 {
		e.sess.AddNotice(session.LevelInfo, "no_articles_selected")
		return nil, errNothingSelected()
	}

	lang := e.sess.Language
	results := make([]model.ExtractionResult, 0, len(selected))
	for _, rec := range selected {
		res := e.resolver.Resolve(ctx, rec, lang)
		if res.Warning != nil {
			e.sess.AddNotice(session.LevelWarning, "scrape_error", res.Warning.Error())
		}

		reply := e.extractor.Extract(ctx, res.Text, lang)
		result := model.ExtractionResult{
			Link:          rec.Link,
			Title:         rec.Title,
			ExtractedText: reply.Text,
			Source:        res.Source,
		}
		switch {
		case reply.Err != nil:
			result.Status = model.StatusFailed
			result.Error = reply.Err.Error()
		case result.Text() == "":
			result.Status = model.StatusEmpty
		default:
			result.Status = model.StatusOK
		}
		logger.Log.Infof("已完成抽取 [%s] source=%s status=%s", rec.Title, res.Source, result.Status)
		results = append(results, result)
	}

	e.sess.SetExtractions(results)
	e.sess.State = session.StateExtractionShown
	return results, nil
}

// ShowResults 将最近一次抽取结果组装为表格并进入表格展示状态
func (e *Engine) ShowResults() (*export.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	table, err := e.table()
	if err != nil {
		e.sess.AddNotice(session.LevelInfo, "no_articles_selected")
		return nil, err
	}
	e.sess.State = session.StateTableShown
	return table, nil
}

// ResultTable 返回用于 CSV 下载的表格，不改变会话状态
func (e *Engine) ResultTable() (*export.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table()
}

// Texts 当前界面语言的标签
func (e *Engine) Texts() i18n.Texts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Texts(e.sess.Language)
}

// ExportFileName CSV 下载文件名
func (e *Engine) ExportFileName() string {
	return e.cfg.ExportFileName
}

func (e *Engine) table() (*export.Table, error) {
	results := e.sess.Extractions()
	if len(results) == 0 {
		return nil, errNothingSelected()
	}
	return export.NewTable(results, e.catalog.Texts(e.sess.Language)), nil
}
