package config

import (
	"github.com/go-kratos/kratos/v2/errors"
)

// ReasonConfiguration 配置缺失或非法，启动前即终止
const ReasonConfiguration = "CONFIGURATION_ERROR"

const (
	ProviderNewsAPI = "newsapi"
	ProviderSearXNG = "searxng"
	ProviderTavily  = "tavily"

	DefaultNewsAPIBaseURL = "https://newsapi.org"
	DefaultLLMModel       = "gpt-4"
	DefaultSearchLanguage = "es"
	DefaultCount          = 5
	DefaultScrapeTimeout  = 30
	DefaultExportFileName = "resultados.csv"
)

// Config 新闻抽取流程配置
type Config struct {
	LLM            LLMConfig
	Search         SearchConfig
	Scrape         ScrapeConfig
	Log            LogConfig
	DefaultCount   int
	ExportFileName string
}

// LLMConfig 大模型相关配置
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string
	// Language 固定的内容语言过滤条件
	Language string
	NewsAPI  NewsAPIConfig
	SearXNG  SearXNGConfig
	Tavily   TavilyConfig
}

// NewsAPIConfig NewsAPI 配置
type NewsAPIConfig struct {
	BaseURL string
	APIKey  string
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string
	Timeout int
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	BaseURL string
	APIKey  string
}

// ScrapeConfig 正文抓取配置
type ScrapeConfig struct {
	Enabled bool
	Timeout int // 秒
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string
	File  string
}

// ApplyDefaults 为未设置的字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderNewsAPI
	}
	if c.Search.Language == "" {
		c.Search.Language = DefaultSearchLanguage
	}
	if c.Search.NewsAPI.BaseURL == "" {
		c.Search.NewsAPI.BaseURL = DefaultNewsAPIBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.Scrape.Timeout <= 0 {
		c.Scrape.Timeout = DefaultScrapeTimeout
	}
	if c.DefaultCount < 1 {
		c.DefaultCount = DefaultCount
	}
	if c.ExportFileName == "" {
		c.ExportFileName = DefaultExportFileName
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 检查两个必需的密钥以及所选搜索后端的参数
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.InternalServer(ReasonConfiguration, "OPENAI_API_KEY is not set")
	}
	switch c.Search.Provider {
	case ProviderNewsAPI, "":
		if c.Search.NewsAPI.APIKey == "" {
			return errors.InternalServer(ReasonConfiguration, "NEWS_API_KEY is not set")
		}
	case ProviderSearXNG:
		if c.Search.SearXNG.BaseURL == "" {
			return errors.InternalServer(ReasonConfiguration, "searxng base url is missing")
		}
	case ProviderTavily:
		if c.Search.Tavily.APIKey == "" {
			return errors.InternalServer(ReasonConfiguration, "TAVILY_API_KEY is not set")
		}
	default:
		return errors.InternalServer(ReasonConfiguration, "unknown search provider: "+c.Search.Provider)
	}
	return nil
}
