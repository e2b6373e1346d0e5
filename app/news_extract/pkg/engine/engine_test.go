package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/config"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/extraction"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	dm "github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/newsapi"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/resolver"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/search"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/session"
)

const droughtResponse = `{"status":"ok","totalResults":3,"articles":[
	{"title":"Sequía en Sonora","url":"https://news.test/1","publishedAt":"2024-05-01T10:00:00Z",
	 "description":"Más de 20,000 familias sin agua","content":null},
	{"title":"Sequía en Chihuahua","url":"https://news.test/2","publishedAt":"2024-05-02T10:00:00Z",
	 "description":"Productores pierden cosechas por la sequía","content":null},
	{"title":"Presas al 10%","url":"https://news.test/3","publishedAt":"2024-05-03T10:00:00Z",
	 "description":"Niveles históricamente bajos","content":"Las presas del norte..."}
]}`

type fakeChatModel struct {
	reply *schema.Message
	err   error
	users []string
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.users = append(f.users, input[len(input)-1].Content)
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type stubSearcher struct {
	resp  *search.Response
	err   error
	calls int
	last  *search.Request
}

func (s *stubSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{
		LLM:    config.LLMConfig{APIKey: "sk"},
		Search: config.SearchConfig{NewsAPI: config.NewsAPIConfig{APIKey: "news"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

var testCatalog = func() i18n.Catalog {
	c, err := i18n.Load()
	if err != nil {
		panic(err)
	}
	return c
}()

func newTestEngine(s search.Searcher, fm *fakeChatModel) *Engine {
	catalog := testCatalog
	return New(testConfig(), Components{
		Catalog:   catalog,
		Searcher:  s,
		Resolver:  resolver.NewResolver(nil, catalog),
		Extractor: extraction.NewExtractor(fm),
	})
}

func records(titles ...string) []dm.ArticleRecord {
	out := make([]dm.ArticleRecord, 0, len(titles))
	for _, t := range titles {
		out = append(out, dm.NewArticleRecord(t, "2024-05-01", "desc "+t, "", "https://news.test/"+t))
	}
	return out
}

func TestEngine_DroughtScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "drought", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(droughtResponse))
	}))
	defer srv.Close()

	fm := &fakeChatModel{reply: schema.AssistantMessage("Año: 2024. Evento: sequía.", nil)}
	eng := newTestEngine(newsapi.NewClient(srv.URL, "news"), fm)
	ctx := context.Background()

	results, err := eng.Search(ctx, "drought", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	view := eng.View()
	require.Len(t, view.Results, 3)
	assert.Equal(t, session.StateResultsShown, view.State)

	require.NoError(t, eng.Toggle(results[1].ID, true))
	assert.Equal(t, session.StateSelectionNonEmpty, eng.View().State)

	extracted, err := eng.Extract(ctx)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	require.Len(t, fm.users, 1)
	assert.Contains(t, fm.users[0], "Productores pierden cosechas por la sequía")
	assert.Equal(t, dm.SourceDescription, extracted[0].Source)
	assert.Equal(t, dm.StatusOK, extracted[0].Status)

	table, err := eng.ShowResults()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"https://news.test/2", "Sequía en Chihuahua", "Año: 2024. Evento: sequía."}, rows[1])
	assert.Equal(t, session.StateTableShown, eng.View().State)
}

func TestEngine_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	eng := newTestEngine(newsapi.NewClient(srv.URL, "news"), &fakeChatModel{})

	_, err := eng.Search(context.Background(), "drought", 3)
	require.Error(t, err)
	assert.Equal(t, ReasonSearchAPI, kerrors.Reason(err))
	assert.Equal(t, "api_error", NoticeKey(err))

	v := eng.View()
	assert.Empty(t, v.Results)
	assert.Equal(t, session.StateAPIError, v.State)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, "Error al obtener los datos de la API de noticias.", v.Messages[0].Text)
	assert.Empty(t, eng.View().Messages)
}

func TestEngine_Search_APIErrorClearsPreviousResults(t *testing.T) {
	s := &stubSearcher{resp: &search.Response{Articles: records("a", "b")}}
	eng := newTestEngine(s, &fakeChatModel{})

	recs, err := eng.Search(context.Background(), "x", 2)
	require.NoError(t, err)
	require.NoError(t, eng.Toggle(recs[0].ID, true))

	s.resp, s.err = nil, errors.New("connection refused")
	_, err = eng.Search(context.Background(), "y", 2)
	require.Error(t, err)

	v := eng.View()
	assert.Empty(t, v.Results)
	_, err = eng.Extract(context.Background())
	assert.Equal(t, ReasonNothingSelected, kerrors.Reason(err))
}

func TestEngine_Search_NoResults(t *testing.T) {
	s := &stubSearcher{resp: &search.Response{}}
	eng := newTestEngine(s, &fakeChatModel{})
	eng.SetLanguage(i18n.English)

	_, err := eng.Search(context.Background(), "zzz", 5)
	require.Error(t, err)
	assert.Equal(t, ReasonNoResults, kerrors.Reason(err))

	v := eng.View()
	assert.Equal(t, session.StateNoResults, v.State)
	assert.Empty(t, v.Results)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, session.LevelWarning, v.Messages[0].Level)
	assert.Equal(t, "No articles found. Try different keywords.", v.Messages[0].Text)
}

func TestEngine_Search_InvalidQuery(t *testing.T) {
	s := &stubSearcher{resp: &search.Response{Articles: records("a")}}
	eng := newTestEngine(s, &fakeChatModel{})

	for _, tc := range []struct {
		keywords string
		count    int
	}{{"", 5}, {"   ", 5}, {"drought", 0}} {
		_, err := eng.Search(context.Background(), tc.keywords, tc.count)
		assert.Equal(t, ReasonInvalidQuery, kerrors.Reason(err))
	}
	assert.Equal(t, 0, s.calls)
}

func TestEngine_Search_PassesLanguageFilter(t *testing.T) {
	s := &stubSearcher{resp: &search.Response{Articles: records("a")}}
	eng := newTestEngine(s, &fakeChatModel{})

	_, err := eng.Search(context.Background(), "  sequía ", 7)
	require.NoError(t, err)
	assert.Equal(t, &search.Request{Query: "sequía", PageSize: 7, Language: "es"}, s.last)
}

func TestEngine_NewSearchPrunesSelection(t *testing.T) {
	all := records("a", "b", "c")
	s := &stubSearcher{resp: &search.Response{Articles: all[:2]}}
	eng := newTestEngine(s, &fakeChatModel{reply: schema.AssistantMessage("x", nil)})
	ctx := context.Background()

	_, err := eng.Search(ctx, "first", 2)
	require.NoError(t, err)
	require.NoError(t, eng.Toggle(all[0].ID, true))
	require.NoError(t, eng.Toggle(all[1].ID, true))

	s.resp = &search.Response{Articles: all[1:]}
	_, err = eng.Search(ctx, "second", 2)
	require.NoError(t, err)

	results, err := eng.Extract(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, all[1].Link, results[0].Link)
}

func TestEngine_Toggle(t *testing.T) {
	recs := records("a", "b")
	eng := newTestEngine(&stubSearcher{resp: &search.Response{Articles: recs}}, &fakeChatModel{})
	_, err := eng.Search(context.Background(), "x", 2)
	require.NoError(t, err)

	require.NoError(t, eng.Toggle(recs[0].ID, true))
	require.NoError(t, eng.Toggle(recs[0].ID, true))
	v := eng.View()
	assert.True(t, v.Results[0].Checked)
	assert.False(t, v.Results[1].Checked)

	require.NoError(t, eng.Toggle(recs[0].ID, false))
	v = eng.View()
	assert.False(t, v.Results[0].Checked)
	assert.Equal(t, session.StateResultsShown, v.State)

	err = eng.Toggle("nope", true)
	assert.Equal(t, ReasonUnknownArticle, kerrors.Reason(err))
}

func TestEngine_Extract_FailureIsRecorded(t *testing.T) {
	recs := records("a", "b")
	fm := &fakeChatModel{err: errors.New("insufficient_quota")}
	eng := newTestEngine(&stubSearcher{resp: &search.Response{Articles: recs}}, fm)
	ctx := context.Background()
	_, err := eng.Search(ctx, "x", 2)
	require.NoError(t, err)
	require.NoError(t, eng.Toggle(recs[1].ID, true))
	require.NoError(t, eng.Toggle(recs[0].ID, true))

	results, err := eng.Extract(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, recs[1].Link, results[0].Link)
	for _, r := range results {
		assert.Equal(t, []string{""}, r.ExtractedText)
		assert.Equal(t, dm.StatusFailed, r.Status)
		assert.Contains(t, r.Error, "insufficient_quota")
	}
	assert.Len(t, fm.users, 2)
}

func TestEngine_Extract_EmptyReply(t *testing.T) {
	recs := records("a")
	eng := newTestEngine(&stubSearcher{resp: &search.Response{Articles: recs}},
		&fakeChatModel{reply: schema.AssistantMessage("   ", nil)})
	ctx := context.Background()
	_, err := eng.Search(ctx, "x", 1)
	require.NoError(t, err)
	require.NoError(t, eng.Toggle(recs[0].ID, true))

	results, err := eng.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, dm.StatusEmpty, results[0].Status)
	assert.Empty(t, results[0].Error)
}

type failingScraper struct{}

func (failingScraper) Scrape(ctx context.Context, link string) (string, error) {
	return "", errors.New("paywall")
}

func TestEngine_Extract_ScrapeWarning(t *testing.T) {
	recs := records("a")
	catalog := testCatalog
	fm := &fakeChatModel{reply: schema.AssistantMessage("ok", nil)}
	eng := New(testConfig(), Components{
		Catalog:   catalog,
		Searcher:  &stubSearcher{resp: &search.Response{Articles: recs}},
		Resolver:  resolver.NewResolver(failingScraper{}, catalog),
		Extractor: extraction.NewExtractor(fm),
	})
	ctx := context.Background()
	_, err := eng.Search(ctx, "x", 1)
	require.NoError(t, err)
	require.NoError(t, eng.Toggle(recs[0].ID, true))

	results, err := eng.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, dm.SourceDescription, results[0].Source)

	v := eng.View()
	require.Len(t, v.Messages, 1)
	assert.Equal(t, session.LevelWarning, v.Messages[0].Level)
	assert.Equal(t, "Error al obtener el contenido del enlace: paywall", v.Messages[0].Text)
	assert.Equal(t, session.StateExtractionShown, v.State)
	assert.Len(t, v.Extractions, 1)
}

func TestEngine_NothingSelected(t *testing.T) {
	eng := newTestEngine(&stubSearcher{resp: &search.Response{Articles: records("a")}}, &fakeChatModel{})

	_, err := eng.Extract(context.Background())
	assert.Equal(t, ReasonNothingSelected, kerrors.Reason(err))

	_, err = eng.ShowResults()
	assert.Equal(t, ReasonNothingSelected, kerrors.Reason(err))

	_, err = eng.ResultTable()
	assert.Equal(t, ReasonNothingSelected, kerrors.Reason(err))

	v := eng.View()
	require.Len(t, v.Messages, 2)
	assert.Equal(t, "No se ha seleccionado ninguna noticia para análisis.", v.Messages[0].Text)
	assert.Nil(t, v.Table)
}

func TestEngine_ViewLanguages(t *testing.T) {
	eng := newTestEngine(&stubSearcher{}, &fakeChatModel{})
	eng.SetLanguage(i18n.English)

	v := eng.View()
	assert.Equal(t, i18n.English, v.Language)
	assert.Equal(t, "News Search and Summary", v.Texts.T("title"))
	assert.Equal(t, []LanguageOption{
		{Code: i18n.Spanish, Name: "Español"},
		{Code: i18n.English, Name: "English", Selected: true},
	}, v.Languages)
	assert.Equal(t, 5, v.Count)
	assert.Equal(t, session.StateIdle, v.State)
	assert.Equal(t, "resultados.csv", eng.ExportFileName())
}
