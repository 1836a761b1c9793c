package generator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Session 持有一个用户当前的 BlogState 以及最近一次提示信息。
type Session struct {
	ID string

	mu       sync.Mutex
	state    BlogState
	notice   string
	pipeline *Pipeline

	// unix nanos, readable without mu
	updatedAt atomic.Int64
}

// NewSession 创建空 session，尚未生成标题。
func NewSession(id string, pipeline *Pipeline) *Session {
	s := &Session{
		ID:       id,
		state:    NewBlogState(""),
		pipeline: pipeline,
	}
	s.touch()
	return s
}

// GenerateTitles starts a new cycle for keyword. The first title becomes the
// default selection, the way a radio group preselects its first option.
func (s *Session) GenerateTitles(ctx context.Context, keyword string) (BlogState, error) {
	keyword = strings.TrimSpace(keyword)
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.pipeline.Invoke(ctx, NewBlogState(keyword))
	if err == nil && len(next.Titles) > 0 {
		next.SelectedTitle = next.Titles[0]
	}
	s.commit(next, err)
	return s.state.Clone(), err
}

// GenerateContent writes the post for the selected title. Without a
// selection the pipeline would regenerate titles, so that case is refused;
// an existing post is never overwritten.
func (s *Session) GenerateContent(ctx context.Context) (BlogState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.HasSelection() {
		return s.state.Clone(), ErrNoSelection
	}
	if s.state.HasContent() {
		return s.state.Clone(), ErrContentExists
	}
	next, err := s.pipeline.Invoke(ctx, s.state)
	s.commit(next, err)
	return s.state.Clone(), err
}

// Select chooses one of the generated titles.
func (s *Session) Select(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Select(title); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SelectIndex chooses the i-th (0-based) generated title.
func (s *Session) SelectIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.SelectIndex(i); err != nil {
		return err
	}
	s.touch()
	return nil
}

// Reset clears the state and any pending notice.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
	s.notice = ""
	s.touch()
}

// Snapshot returns a copy of the state and the current notice.
func (s *Session) Snapshot() (BlogState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.notice
}

// TakeNotice returns the pending notice and clears it, so an error is shown once.
func (s *Session) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

// UpdatedAt is the time of the last change, used to prune idle sessions.
func (s *Session) UpdatedAt() time.Time {
	return time.Unix(0, s.updatedAt.Load())
}

func (s *Session) commit(next BlogState, err error) {
	s.state = next
	s.notice = ""
	if err != nil {
		s.notice = err.Error()
	}
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt.Store(time.Now().UnixNano())
}
