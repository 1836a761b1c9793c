package generator

import (
	"errors"
	"fmt"
	"slices"
)

// MaxTitles caps how many candidate titles one generation cycle keeps.
const MaxTitles = 4

var (
	// ErrUnknownTitle is returned when selecting a title the current cycle did not generate.
	ErrUnknownTitle = errors.New("title is not one of the generated titles")
	// ErrNoSelection is returned when content is requested before a title is chosen.
	ErrNoSelection = errors.New("no title selected")
	// ErrContentExists is returned when the selected title already has a post.
	ErrContentExists = errors.New("blog post already generated for the selected title")
)

// BlogState 是一次生成周期在各阶段与界面之间传递的记录。
// Empty strings mean "not set".
type BlogState struct {
	Keyword       string   `json:"keyword"`
	Titles        []string `json:"titles"`
	SelectedTitle string   `json:"selected_title"`
	BlogContent   string   `json:"blog_content"`
}

// NewBlogState starts a fresh cycle for keyword.
func NewBlogState(keyword string) BlogState {
	return BlogState{Keyword: keyword, Titles: []string{}}
}

// HasSelection reports whether a title has been chosen.
func (s BlogState) HasSelection() bool { return s.SelectedTitle != "" }

// HasContent reports whether a post has been written for the selection.
func (s BlogState) HasContent() bool { return s.BlogContent != "" }

// CanGenerateContent reports whether the content action should be offered.
func (s BlogState) CanGenerateContent() bool {
	return s.HasSelection() && !s.HasContent()
}

// Select marks title as chosen. Switching to another title drops content
// written for the previous one.
func (s *BlogState) Select(title string) error {
	if !slices.Contains(s.Titles, title) {
		return fmt.Errorf("select %q: %w", title, ErrUnknownTitle)
	}
	if title != s.SelectedTitle {
		s.BlogContent = ""
	}
	s.SelectedTitle = title
	return nil
}

// SelectIndex selects the i-th (0-based) generated title.
func (s *BlogState) SelectIndex(i int) error {
	if i < 0 || i >= len(s.Titles) {
		return fmt.Errorf("select index %d of %d: %w", i, len(s.Titles), ErrUnknownTitle)
	}
	return s.Select(s.Titles[i])
}

// SelectedIndex returns the position of the selected title or -1.
func (s BlogState) SelectedIndex() int {
	if !s.HasSelection() {
		return -1
	}
	return slices.Index(s.Titles, s.SelectedTitle)
}

// Reset clears everything, back to the session-start record.
func (s *BlogState) Reset() {
	*s = BlogState{Titles: []string{}}
}

func (s BlogState) Clone() BlogState {
	c := s
	c.Titles = slices.Clone(s.Titles)
	if c.Titles == nil {
		c.Titles = []string{}
	}
	return c
}
