package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/news_extract/app/display/internal/conf"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/config"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/engine"
	neLogger "github.com/iWorld-y/news_extract/app/news_extract/pkg/logger"
)

// ToConfig 将 internal/conf.Extractor 转换为 pkg/config.Config 并填充默认值
func ToConfig(c *conf.Extractor) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyDefaults()
		return cfg
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Search != nil {
		cfg.Search.Provider = c.Search.Provider
		cfg.Search.Language = c.Search.Language
		if c.Search.Newsapi != nil {
			cfg.Search.NewsAPI = config.NewsAPIConfig{
				BaseURL: c.Search.Newsapi.BaseUrl,
				APIKey:  c.Search.Newsapi.ApiKey,
			}
		}
		if c.Search.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{
				BaseURL: c.Search.Searxng.BaseUrl,
				Timeout: int(c.Search.Searxng.Timeout),
			}
		}
		if c.Search.Tavily != nil {
			cfg.Search.Tavily = config.TavilyConfig{
				BaseURL: c.Search.Tavily.BaseUrl,
				APIKey:  c.Search.Tavily.ApiKey,
			}
		}
	}
	if c.Scrape != nil {
		cfg.Scrape = config.ScrapeConfig{
			Enabled: c.Scrape.Enabled,
			Timeout: int(c.Scrape.Timeout),
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{
			Level: c.Log.Level,
			File:  c.Log.File,
		}
	}
	cfg.DefaultCount = int(c.DefaultCount)
	cfg.ExportFileName = c.ExportFileName
	cfg.ApplyDefaults()
	return cfg
}

// NewExtractorEngine 校验配置并初始化新闻抽取引擎
func NewExtractorEngine(c *conf.Extractor, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	cfg := ToConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := neLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init extractor logger: %v", err)
		_ = neLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up news extractor engine")
	}
	return eng, cleanup, nil
}
