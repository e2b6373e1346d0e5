package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/news_extract/app/news_extract/pkg/config"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/i18n"
	"github.com/iWorld-y/news_extract/app/news_extract/pkg/logger"
)

const (
	Temperature = 0.5
	MaxTokens   = 500
	TopP        = 1.0
)

type prompt struct {
	system      string
	instruction string
}

var prompts = map[i18n.Language]prompt{
	i18n.Spanish: {
		system: "Eres un asistente que extrae información clave de textos.",
		instruction: "Extrae la siguiente información del texto: año, fecha, estado, municipio, localidad, " +
			"población afectada (en número y unidad de medida), evento, efecto, y acciones después del efecto (si aplica). " +
			"Texto: ",
	},
	i18n.English: {
		system: "You are an assistant that extracts key information from texts.",
		instruction: "Extract the following information from the text: year, date, state, municipality, locality, " +
			"affected population (as a number and unit of measure), event, effect, and actions after the effect (if applicable). " +
			"Text: ",
	},
}

// Messages 构造发送给模型的 system + user 消息
func Messages(text string, lang i18n.Language) []*schema.Message {
	p, ok := prompts[lang]
	if !ok {
		p = prompts[i18n.Default]
	}
	return []*schema.Message{
		{Role: schema.System, Content: p.system},
		{Role: schema.User, Content: p.instruction + text},
	}
}

// Reply 抽取结果，Text 恰好一个元素；失败时为 [""] 且 Err 非空
type Reply struct {
	Text []string
	Err  error
}

var errEmptyReply = errors.New("model returned no message")

// Extractor 对单篇文章调用一次模型
type Extractor struct {
	chatModel model.BaseChatModel
}

// NewExtractor 使用任意 eino 聊天模型创建 Extractor
func NewExtractor(cm model.BaseChatModel) *Extractor {
	return &Extractor{chatModel: cm}
}

// NewOpenAIChatModel 按配置创建 OpenAI 兼容的聊天模型
func NewOpenAIChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// Extract 失败不会向调用方返回 error，只记录日志并在 Reply.Err 中保留原因
func (x *Extractor) Extract(ctx context.Context, text string, lang i18n.Language) Reply {
	resp, err := x.chatModel.Generate(ctx, Messages(text, lang),
		model.WithTemperature(Temperature),
		model.WithMaxTokens(MaxTokens),
		model.WithTopP(TopP),
	)
	if err == nil && resp == nil {
		err = errEmptyReply
	}
	if err != nil {
		logger.Log.Errorf("信息抽取失败: %v", err)
		return Reply{Text: []string{""}, Err: err}
	}
	text = strings.ReplaceAll(resp.Content, "\r\n", "\n")
	return Reply{Text: []string{strings.TrimSpace(text)}}
}
