package generator

import (
	"context"
	"sync"
)

// stubLLM returns canned replies in order and records every prompt.
type stubLLM struct {
	mu      sync.Mutex
	replies []stubReply
	prompts []Prompt
}

type stubReply struct {
	text string
	err  error
}

func newStub(replies ...stubReply) *stubLLM {
	return &stubLLM{replies: replies}
}

func (s *stubLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	if len(s.replies) == 0 {
		return "", nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func newTestAgent(t interface{ Fatalf(string, ...any) }, llm LLMClient) *Agent {
	a, err := NewAgent(llm, nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return a
}
