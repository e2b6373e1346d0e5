package model

import (
	"github.com/google/uuid"
)

// ArticleRecord 一条归一化后的搜索结果，创建后不再修改
type ArticleRecord struct {
	ID            string
	Title         string
	PublishedDate string // 由搜索 API 提供，不做校验
	Description   string
	Content       string // 往往被搜索 API 截断
	Link          string
}

// NewArticleRecord 创建记录并根据链接和发布时间生成稳定 ID
func NewArticleRecord(title, publishedDate, description, content, link string) ArticleRecord {
	return ArticleRecord{
		ID:            RecordID(link, publishedDate),
		Title:         title,
		PublishedDate: publishedDate,
		Description:   description,
		Content:       content,
		Link:          link,
	}
}

// RecordID 同一链接和发布时间总是得到同一个 ID
func RecordID(link, publishedDate string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link+"|"+publishedDate)).String()
}

// ContentSource 用于抽取的文本来源
type ContentSource string

const (
	SourceScraped     ContentSource = "scraped"
	SourceContent     ContentSource = "content"
	SourceDescription ContentSource = "description"
	SourceLink        ContentSource = "link"
)

// ExtractionStatus 抽取结果状态
type ExtractionStatus string

const (
	StatusOK     ExtractionStatus = "ok"
	StatusEmpty  ExtractionStatus = "empty"  // 模型返回了空文本
	StatusFailed ExtractionStatus = "failed" // 调用失败，ExtractedText 为 [""]
)

// ExtractionResult 单篇文章的抽取结果
type ExtractionResult struct {
	Link  string
	Title string
	// ExtractedText 恰好一个元素：模型原始回复，失败时为空字符串
	ExtractedText []string
	Status        ExtractionStatus
	Error         string
	Source        ContentSource
}

// Text 返回抽取文本
func (r ExtractionResult) Text() string {
	if len(r.ExtractedText) == 0 {
		return ""
	}
	return r.ExtractedText[0]
}
