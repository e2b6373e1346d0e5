package service

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/engine"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/export"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
)

//go:embed assets/index.html
var assets embed.FS

var page = template.Must(template.ParseFS(assets, "assets/index.html"))

// ExtractService 每个用户操作一个处理函数，POST 操作完成后重定向回首页
type ExtractService struct {
	eng *engine.Engine
	log *log.Helper
}

func NewExtractService(eng *engine.Engine, logger log.Logger) *ExtractService {
	return &ExtractService{
		eng: eng,
		log: log.NewHelper(logger),
	}
}

// Index 渲染当前会话
func (s *ExtractService) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, s.eng.View()); err != nil {
		s.log.Errorf("render page: %v", err)
	}
}

// Language 切换界面语言
func (s *ExtractService) Language(w http.ResponseWriter, r *http.Request) {
	if !s.post(w, r) {
		return
	}
	if lang, ok := i18n.ParseLanguage(r.FormValue("lang")); ok {
		s.eng.SetLanguage(lang)
	}
	s.back(w, r)
}

// Search 按关键词和数量搜索新闻
func (s *ExtractService) Search(w http.ResponseWriter, r *http.Request) {
	if !s.post(w, r) {
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("count")))
	if err != nil {
		count = 0
	}
	if _, err := s.eng.Search(pipelineContext(r), r.FormValue("keywords"), count); err != nil {
		s.log.Warnf("search: %v", err)
	}
	s.back(w, r)
}

// Toggle 勾选或取消勾选一条结果
func (s *ExtractService) Toggle(w http.ResponseWriter, r *http.Request) {
	if !s.post(w, r) {
		return
	}
	checked, _ := strconv.ParseBool(r.FormValue("checked"))
	if err := s.eng.Toggle(r.FormValue("id"), checked); err != nil {
		s.log.Warnf("toggle: %v", err)
	}
	s.back(w, r)
}

// Extract 对已选文章抽取信息
func (s *ExtractService) Extract(w http.ResponseWriter, r *http.Request) {
	if !s.post(w, r) {
		return
	}
	if _, err := s.eng.Extract(pipelineContext(r)); err != nil {
		s.log.Warnf("extract: %v", err)
	}
	s.back(w, r)
}

// ShowResults 展示结果表格
func (s *ExtractService) ShowResults(w http.ResponseWriter, r *http.Request) {
	if !s.post(w, r) {
		return
	}
	if _, err := s.eng.ShowResults(); err != nil {
		s.log.Warnf("show results: %v", err)
	}
	s.back(w, r)
}

// Download 下载结果 CSV
func (s *ExtractService) Download(w http.ResponseWriter, r *http.Request) {
	table, err := s.eng.ResultTable()
	if err != nil {
		se := errors.FromError(err)
		msg := se.Message
		if key := engine.NoticeKey(err); key != "" {
			msg = s.eng.Texts().T(key)
		}
		http.Error(w, msg, int(se.Code))
		return
	}
	s.writeCSV(w, table)
}

func (s *ExtractService) writeCSV(w http.ResponseWriter, table *export.Table) {
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.eng.ExportFileName()+`"`)
	if err := table.WriteCSV(w); err != nil {
		s.log.Errorf("write csv: %v", err)
	}
}

// pipelineContext 搜索和抽取不受 HTTP 请求超时约束，各客户端自带超时
func pipelineContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *ExtractService) post(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *ExtractService) back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
