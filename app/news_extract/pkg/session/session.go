// Package session holds the mutable state of the single interactive session:
// the latest search results, the user's selection, the latest extraction
// results and pending user-visible notices.
//
// A Session is not safe for concurrent use; the engine serializes access.
package session

import (
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
)

// State 会话所处的交互阶段
type State string

const (
	StateIdle              State = "idle"
	StateSearchReady       State = "search_ready"
	StateResultsShown      State = "results_shown"
	StateNoResults         State = "no_results"
	StateAPIError          State = "api_error"
	StateSelectionNonEmpty State = "selection_non_empty"
	StateExtractionShown   State = "extraction_shown"
	StateTableShown        State = "table_shown"
)

// Level 提示级别
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice 一条面向用户的提示，渲染时按语言本地化
type Notice struct {
	Level Level
	Key   string
	Args  []any
}

// Session 单个交互会话的上下文
type Session struct {
	Language i18n.Language
	Keywords string
	Count    int
	State    State

	results     []model.ArticleRecord
	selected    []model.ArticleRecord
	extractions []model.ExtractionResult
	notices     []Notice
}

// New 创建空会话
func New(lang i18n.Language, count int) *Session {
	return &Session{
		Language: lang,
		Count:    count,
		State:    StateIdle,
	}
}

// Results 返回当前搜索结果的副本
func (s *Session) Results() []model.ArticleRecord {
	return append([]model.ArticleRecord(nil), s.results...)
}

// SetResults 替换搜索结果，并移除不在新结果中的已选记录；传入 nil 即清空结果和选择集
func (s *Session) SetResults(records []model.ArticleRecord) {
	s.results = append([]model.ArticleRecord(nil), records...)

	kept := s.selected[:0]
	for _, r := range s.selected {
		if _, ok := s.Lookup(r.ID); ok {
			kept = append(kept, r)
		}
	}
	s.selected = kept
	s.extractions = nil
}

// Lookup 在当前结果中按 ID 查找记录
func (s *Session) Lookup(id string) (model.ArticleRecord, bool) {
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return model.ArticleRecord{}, false
}

// Toggle 勾选时加入，取消勾选时移除；返回选择集是否变化
func (s *Session) Toggle(r model.ArticleRecord, checked bool) bool {
	if checked {
		return s.Select(r)
	}
	return s.Deselect(r)
}

// Select 记录不在选择集中时追加到末尾
func (s *Session) Select(r model.ArticleRecord) bool {
	if s.IsSelected(r.ID) {
		return false
	}
	s.selected = append(s.selected, r)
	s.extractions = nil
	return true
}

// Deselect 移除第一个 ID 相同的记录
func (s *Session) Deselect(r model.ArticleRecord) bool {
	for i, sel := range s.selected {
		if sel.ID == r.ID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			s.extractions = nil
			return true
		}
	}
	return false
}

// IsSelected 判断记录是否已选
func (s *Session) IsSelected(id string) bool {
	for _, sel := range s.selected {
		if sel.ID == id {
			return true
		}
	}
	return false
}

// Selected 按选择顺序返回已选记录的副本
func (s *Session) Selected() []model.ArticleRecord {
	return append([]model.ArticleRecord(nil), s.selected...)
}

// SetExtractions 保存最近一次抽取结果
func (s *Session) SetExtractions(results []model.ExtractionResult) {
	s.extractions = append([]model.ExtractionResult(nil), results...)
}

// Extractions 返回最近一次抽取结果的副本
func (s *Session) Extractions() []model.ExtractionResult {
	return append([]model.ExtractionResult(nil), s.extractions...)
}

// AddNotice 追加一条提示
func (s *Session) AddNotice(level Level, key string, args ...any) {
	s.notices = append(s.notices, Notice{Level: level, Key: key, Args: args})
}

// DrainNotices 取出并清空待显示的提示
func (s *Session) DrainNotices() []Notice {
	n := s.notices
	s.notices = nil
	return n
}
