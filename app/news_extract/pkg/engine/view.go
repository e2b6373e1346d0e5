package engine

import (
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/export"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/session"
)

// View 渲染页面所需的会话快照
type View struct {
	Language    i18n.Language
	Texts       i18n.Texts
	Languages   []LanguageOption
	Keywords    string
	Count       int
	State       session.State
	Results     []ResultRow
	Extractions []model.ExtractionResult
	Table       *export.Table // 仅在表格展示状态下非空
	Messages    []Message
}

// LanguageOption 语言下拉框的一项
type LanguageOption struct {
	Code     i18n.Language
	Name     string
	Selected bool
}

// ResultRow 一条带勾选状态的搜索结果
type ResultRow struct {
	model.ArticleRecord
	Checked bool
}

// Message 已本地化的提示
type Message struct {
	Level session.Level
	Text  string
}

// View 返回当前会话快照并取出待显示的提示
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	texts := e.catalog.Texts(e.sess.Language)
	v := View{
		Language:    e.sess.Language,
		Texts:       texts,
		Keywords:    e.sess.Keywords,
		Count:       e.sess.Count,
		State:       e.sess.State,
		Extractions: e.sess.Extractions(),
	}

	for _, lang := range e.catalog.Languages() {
		v.Languages = append(v.Languages, LanguageOption{
			Code:     lang,
			Name:     e.catalog.Texts(lang).T("name"),
			Selected: lang == e.sess.Language,
		})
	}

	for _, r := range e.sess.Results() {
		v.Results = append(v.Results, ResultRow{ArticleRecord: r, Checked: e.sess.IsSelected(r.ID)})
	}

	if e.sess.State == session.StateTableShown {
		if t, err := e.table(); err == nil {
			v.Table = t
		}
	}

	for _, n := range e.sess.DrainNotices() {
		v.Messages = append(v.Messages, Message{Level: n.Level, Text: texts.T(n.Key, n.Args...)})
	}
	return v
}
