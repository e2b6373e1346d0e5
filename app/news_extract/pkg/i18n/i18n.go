// Package i18n holds the static UI label table for the supported languages.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var localesYAML []byte

// Language 界面语言
type Language string

const (
	Spanish Language = "es"
	English Language = "en"

	Default = Spanish
)

// requiredKeys 每种语言必须提供的标签
var requiredKeys = []string{
	"name", "title", "keywords", "num_results", "search_results", "search_button",
	"include", "date", "generate_summary", "extract_button", "extracted_from",
	"collect_info", "show_results", "download_csv", "no_articles_found", "api_error",
	"no_articles_selected", "invalid_query", "unknown_article", "scrape_error",
	"link_fallback", "col_link", "col_title", "col_info",
}

// Texts 一种语言的全部标签
type Texts map[string]string

// T 返回 key 对应的文本，带参数时按 fmt 格式化；缺失的 key 原样返回
func (t Texts) T(key string, args ...any) string {
	s, ok := t[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// Catalog 语言到标签表的映射
type Catalog map[Language]Texts

// Parse 解析 YAML 标签表并检查必需的 key
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse locales: %w", err)
	}
	for _, lang := range []Language{Spanish, English} {
		if _, ok := c[lang]; !ok {
			return nil, fmt.Errorf("locales: missing language %q", lang)
		}
	}
	for _, lang := range []Language{Spanish, English} {
		for _, k := range requiredKeys {
			if _, ok := c[lang][k]; !ok {
				return nil, fmt.Errorf("locales: language %q missing key %q", lang, k)
			}
		}
	}
	return c, nil
}

// Load 加载内置标签表
func Load() (Catalog, error) {
	return Parse(localesYAML)
}

// Texts 返回指定语言的标签，未知语言回退到默认语言
func (c Catalog) Texts(lang Language) Texts {
	if t, ok := c[lang]; ok {
		return t
	}
	return c[Default]
}

// Languages 返回按代码排序后默认语言在前的语言列表
func (c Catalog) Languages() []Language {
	langs := make([]Language, 0, len(c))
	for l := range c {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i] == Default || langs[j] == Default {
			return langs[i] == Default
		}
		return langs[i] < langs[j]
	})
	return langs
}

// ParseLanguage 解析语言代码
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case Spanish, English:
		return Language(s), true
	}
	return Default, false
}
