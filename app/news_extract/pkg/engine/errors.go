package engine

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	ReasonSearchAPI       = "SEARCH_API_ERROR"
	ReasonNoResults       = "NO_RESULTS"
	ReasonInvalidQuery    = "INVALID_QUERY"
	ReasonUnknownArticle  = "UNKNOWN_ARTICLE"
	ReasonNothingSelected = "NOTHING_SELECTED"
)

// noticeKeys 错误原因对应的界面文本
var noticeKeys = map[string]string{
	ReasonSearchAPI:       "api_error",
	ReasonNoResults:       "no_articles_found",
	ReasonInvalidQuery:    "invalid_query",
	ReasonUnknownArticle:  "unknown_article",
	ReasonNothingSelected: "no_articles_selected",
}

// NoticeKey 返回错误对应的界面文本 key，未知错误返回空串
func NoticeKey(err error) string {
	return noticeKeys[errors.Reason(err)]
}

func errSearchAPI(cause error) error {
	return errors.New(http.StatusBadGateway, ReasonSearchAPI, "news search api failed").WithCause(cause)
}

func errNoResults(query string) error {
	return errors.NotFound(ReasonNoResults, "no articles found for: "+query)
}

func errInvalidQuery(msg string) error {
	return errors.BadRequest(ReasonInvalidQuery, msg)
}

func errUnknownArticle(id string) error {
	return errors.NotFound(ReasonUnknownArticle, "article not in current results: "+id)
}

func errNothingSelected() error {
	return errors.BadRequest(ReasonNothingSelected, "no articles selected for analysis")
}
