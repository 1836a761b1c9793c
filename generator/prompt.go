package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合及采样参数。
type Prompt struct {
	System      string
	User        string
	History     []Message
	Temperature float64
	MaxTokens   int64
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

// Sampling parameters per stage.
const (
	TitleTemperature   = 0.7
	TitleMaxTokens     = 200
	ContentTemperature = 0.8
	ContentMaxTokens   = 3000
)

// BuildTitlePrompt asks for a numbered list of short promotional titles.
func BuildTitlePrompt(keyword string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate %d blog title options about %s.\n", MaxTitles, keyword))
	sb.WriteString("Return ONLY a numbered list following these rules:\n")
	sb.WriteString("1. Include keyword in first 3 words\n")
	sb.WriteString("2. Maximum 60 characters\n")
	sb.WriteString("3. Use power words like 'Essential' or 'Definitive Guide'")

	return Prompt{
		User:        sb.String(),
		Temperature: TitleTemperature,
		MaxTokens:   TitleMaxTokens,
	}
}

// BuildContentPrompt 生成正文提示词，标题原样写入。
func BuildContentPrompt(title string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a comprehensive 1500-word blog post titled \"%s\".\n", title))
	sb.WriteString("Structure with markdown:\n")
	sb.WriteString(fmt.Sprintf("# %s\n", title))
	sb.WriteString("## Introduction\n")
	sb.WriteString("## Main Content (3-5 sections)\n")
	sb.WriteString("### Subsections\n")
	sb.WriteString("## Conclusion\n")
	sb.WriteString("Include practical examples and statistics.")

	return Prompt{
		User:        sb.String(),
		Temperature: ContentTemperature,
		MaxTokens:   ContentMaxTokens,
	}
}
