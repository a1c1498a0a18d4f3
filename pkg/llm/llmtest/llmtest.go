// Package llmtest provides a scripted llm.LLM for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/helmcode/hotel-audit/pkg/llm"
	"github.com/helmcode/hotel-audit/pkg/prompts"
)

// Reply is one scripted answer.
type Reply struct {
	Response *llm.Response
	Err      error
}

func Text(text string) Reply {
	return Reply{Response: &llm.Response{Text: text}}
}

func Fail(err error) Reply {
	return Reply{Err: err}
}

// Stub answers with its replies in order, repeating the last one. When Gate
// is set, Generate waits for a value on it (or for ctx) before answering.
type Stub struct {
	Replies []Reply
	Gate    chan struct{}

	mu       sync.Mutex
	requests []*prompts.Request
}

func (s *Stub) Generate(ctx context.Context, req *prompts.Request) (*llm.Response, error) {
	s.mu.Lock()
	n := len(s.requests)
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if len(s.Replies) == 0 {
		return &llm.Response{}, nil
	}
	if n >= len(s.Replies) {
		n = len(s.Replies) - 1
	}
	r := s.Replies[n]
	return r.Response, r.Err
}

func (s *Stub) Model() string {
	return "stub"
}

// Requests returns the requests received so far.
func (s *Stub) Requests() []*prompts.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*prompts.Request, len(s.requests))
	copy(out, s.requests)
	return out
}
