package server

import (
	nethttp "net/http"
	"runtime/debug"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/news_extract/app/display/internal/conf"
	"github.com/iWorld-y/news_extract/app/display/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.ExtractService, logger log.Logger) *http.Server {
	// HandleFunc 注册的路由不经过 kratos middleware，panic 恢复放在 filter 中
	var opts = []http.ServerOption{
		http.Filter(recoverFilter(logger)),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	log.NewHelper(logger).Infof("news extractor routes registered")
	srv.HandleFunc("/", s.Index)
	srv.HandleFunc("/language", s.Language)
	srv.HandleFunc("/search", s.Search)
	srv.HandleFunc("/toggle", s.Toggle)
	srv.HandleFunc("/extract", s.Extract)
	srv.HandleFunc("/results", s.ShowResults)
	srv.HandleFunc("/results.csv", s.Download)
	return srv
}

// recoverFilter 捕获处理函数中的 panic 并返回 500
func recoverFilter(logger log.Logger) http.FilterFunc {
	helper := log.NewHelper(logger)
	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			defer func() {
				if rerr := recover(); rerr != nil {
					helper.Errorf("panic in %s %s: %v\n%s", r.Method, r.URL.Path, rerr, debug.Stack())
					nethttp.Error(w, nethttp.StatusText(nethttp.StatusInternalServerError), nethttp.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
