package generator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrEmptyKeyword = errors.New("keyword is required")
	ErrEmptyTitle   = errors.New("title is required")
	errEmptyOutput  = errors.New("model returned empty markdown")
)

// Agent 负责两个生成阶段：标题与正文。每个阶段只调用一次模型，不重试。
type Agent struct {
	llm    LLMClient
	logger *slog.Logger
}

func NewAgent(llm LLMClient, logger *slog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// GenerateTitles returns 1..MaxTitles titles for keyword, or a *StageError.
func (a *Agent) GenerateTitles(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, generationFailure(StageTitles, ErrEmptyKeyword)
	}

	start := time.Now()
	raw, err := a.llm.Complete(ctx, BuildTitlePrompt(keyword))
	if err != nil {
		a.logger.Error("title generation failed", "keyword", keyword, "error", err)
		return nil, generationFailure(StageTitles, err)
	}
	titles, err := ParseTitles(StripTags(raw))
	if err != nil {
		a.logger.Warn("title parse failed", "keyword", keyword, "raw", raw)
		return nil, parseFailure(StageTitles, err)
	}
	a.logger.Info("titles generated", "keyword", keyword, "titles", len(titles), "duration", time.Since(start).String())
	return titles, nil
}

// GenerateContent returns the cleaned markdown body for title, or a *StageError.
func (a *Agent) GenerateContent(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", generationFailure(StageContent, ErrEmptyTitle)
	}

	start := time.Now()
	raw, err := a.llm.Complete(ctx, BuildContentPrompt(title))
	if err != nil {
		a.logger.Error("content generation failed", "title", title, "error", err)
		return "", generationFailure(StageContent, err)
	}
	md := StripTags(raw)
	if md == "" {
		return "", generationFailure(StageContent, errEmptyOutput)
	}
	a.logger.Info("content generated", "title", title, "bytes", len(md), "duration", time.Since(start).String())
	return md, nil
}
