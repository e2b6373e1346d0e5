package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/model"
)

// ContentType CSV 下载的 MIME 类型
const ContentType = "text/csv"

// Row 表格中的一行
type Row struct {
	Link          string
	Title         string
	ExtractedText string
}

// Table 抽取结果表，列为 链接、标题、抽取信息
type Table struct {
	Headers [3]string
	Rows    []Row
}

// NewTable 按结果顺序组装表格，表头使用界面语言；单元格换行统一为 \n，
// 否则 CSV 读回时 \r\n 会被折叠
func NewTable(results []model.ExtractionResult, texts i18n.Texts) *Table {
	t := &Table{
		Headers: [3]string{texts.T("col_link"), texts.T("col_title"), texts.T("col_info")},
		Rows:    make([]Row, 0, len(results)),
	}
	for _, r := range results {
		t.Rows = append(t.Rows, Row{
			Link:          Canonical(r.Link),
			Title:         Canonical(r.Title),
			ExtractedText: Canonical(strings.Join(r.ExtractedText, "\n")),
		})
	}
	return t
}

// Canonical 将 \r\n 统一为 \n
func Canonical(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Empty 表格没有数据行
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// WriteCSV 写出 UTF-8 逗号分隔的 CSV，包含表头，不含索引列
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers[:]); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range t.Rows {
		if err := cw.Write([]string{r.Link, r.Title, r.ExtractedText}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
