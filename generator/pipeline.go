package generator

import (
	"context"
	"log/slog"
)

// Pipeline 把两个阶段串成可重复调用的流程：
// generate_titles -> (已选标题 ? generate_content : END) -> END。
type Pipeline struct {
	agent  *Agent
	logger *slog.Logger
}

func NewPipeline(agent *Agent, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{agent: agent, logger: logger}
}

// Invoke runs the pipeline once over state and returns the new state.
//
// The title stage regenerates titles unless the incoming state already holds
// a selection from its own titles, in which case it passes them through so
// the selection stays valid. Content generation runs only when a title was
// selected at invocation time. A failing stage leaves its output empty,
// stops the run and is returned as a *StageError alongside the state.
func (p *Pipeline) Invoke(ctx context.Context, state BlogState) (BlogState, error) {
	selected := state.HasSelection() && state.SelectedIndex() >= 0
	next := state.Clone()

	if !selected {
		titles, err := p.agent.GenerateTitles(ctx, next.Keyword)
		next.SelectedTitle = ""
		next.BlogContent = ""
		if err != nil {
			next.Titles = []string{}
			return next, err
		}
		next.Titles = titles
		p.logger.Debug("pipeline stopped after titles", "keyword", next.Keyword)
		return next, nil
	}

	content, err := p.agent.GenerateContent(ctx, next.SelectedTitle)
	next.BlogContent = content
	return next, err
}
