package conf

type Bootstrap struct {
	Server    *Server
	Extractor *Extractor
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Extractor struct {
	Llm            *LLM    `json:"llm"`
	Search         *Search `json:"search"`
	Scrape         *Scrape `json:"scrape"`
	Log            *Log    `json:"log"`
	DefaultCount   int32   `json:"default_count"`
	ExportFileName string  `json:"export_file_name"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	Provider string   `json:"provider"`
	Language string   `json:"language"`
	Newsapi  *NewsAPI `json:"newsapi"`
	Searxng  *SearXNG `json:"searxng"`
	Tavily   *Tavily  `json:"tavily"`
}

type NewsAPI struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Tavily struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
}

type Scrape struct {
	Enabled bool  `json:"enabled"`
	Timeout int32 `json:"timeout"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
