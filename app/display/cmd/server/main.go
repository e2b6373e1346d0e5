package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/joho/godotenv"

	"github.com/iWorld-y/news_extract/app/display/internal/conf"
	"github.com/iWorld-y/news_extract/app/display/internal/server"
	"github.com/iWorld-y/news_extract/app/display/internal/service"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "news_extract"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/display/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)
	helper := log.NewHelper(logger)

	// .env 可选，不存在时只使用进程环境变量
	if err := godotenv.Load(); err != nil {
		helper.Debugf("no .env file loaded: %v", err)
	}

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource(),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	applySecrets(c, &bc)

	app, cleanup, err := initApp(bc.Server, bc.Extractor, logger)
	if err != nil {
		helper.Fatalf("failed to start: %v", err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// applySecrets 密钥只从环境变量读取，不写进配置文件
func applySecrets(c config.Config, bc *conf.Bootstrap) {
	if bc.Extractor == nil {
		bc.Extractor = &conf.Extractor{}
	}
	ex := bc.Extractor
	if ex.Llm == nil {
		ex.Llm = &conf.LLM{}
	}
	if ex.Search == nil {
		ex.Search = &conf.Search{}
	}
	if ex.Search.Newsapi == nil {
		ex.Search.Newsapi = &conf.NewsAPI{}
	}
	if ex.Search.Tavily == nil {
		ex.Search.Tavily = &conf.Tavily{}
	}

	if v, err := c.Value("OPENAI_API_KEY").String(); err == nil && v != "" {
		ex.Llm.ApiKey = v
	}
	if v, err := c.Value("OPENAI_BASE_URL").String(); err == nil && v != "" {
		ex.Llm.BaseUrl = v
	}
	if v, err := c.Value("NEWS_API_KEY").String(); err == nil && v != "" {
		ex.Search.Newsapi.ApiKey = v
	}
	if v, err := c.Value("TAVILY_API_KEY").String(); err == nil && v != "" {
		ex.Search.Tavily.ApiKey = v
	}
}

// initApp 手工组装依赖：引擎 -> 服务 -> HTTP Server -> 应用
func initApp(cs *conf.Server, ce *conf.Extractor, logger log.Logger) (*kratos.App, func(), error) {
	eng, cleanup, err := server.NewExtractorEngine(ce, logger)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewExtractService(eng, logger)
	hs := server.NewHTTPServer(cs, svc, logger)
	return newApp(logger, hs), cleanup, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
