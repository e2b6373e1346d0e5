package factory

import (
	"fmt"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/config"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/newsapi"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/search"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/searxng"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	switch cfg.Search.Provider {
	case config.ProviderNewsAPI, "":
		if cfg.Search.NewsAPI.APIKey == "" {
			return nil, fmt.Errorf("newsapi api key is missing")
		}
		baseURL := cfg.Search.NewsAPI.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultNewsAPIBaseURL
		}
		return newsapi.NewClient(baseURL, cfg.Search.NewsAPI.APIKey), nil

	case config.ProviderSearXNG:
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout), nil

	case config.ProviderTavily:
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.BaseURL, cfg.Search.Tavily.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}
