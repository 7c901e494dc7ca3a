package provider

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Stub is a scripted Provider for tests. Replies are served in order; when a
// script runs out the last entry repeats. Injected errors win over replies.
type Stub struct {
	mu sync.Mutex

	ClassifyReplies []string
	GenerateReplies []string
	ClassifyErr     error
	GenerateErr     error

	ClassifyCalls []string
	GenerateCalls []string

	classifyIdx int
	generateIdx int
}

func next(script []string, idx *int) string {
	if len(script) == 0 {
		return ""
	}
	i := *idx
	if i >= len(script) {
		i = len(script) - 1
	} else {
		*idx++
	}
	return script[i]
}

func (s *Stub) Classify(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClassifyCalls = append(s.ClassifyCalls, text)
	if s.ClassifyErr != nil {
		return "", &Error{Op: "classify", Err: s.ClassifyErr}
	}
	if len(s.ClassifyReplies) == 0 {
		return "general", nil
	}
	return next(s.ClassifyReplies, &s.classifyIdx), nil
}

func (s *Stub) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GenerateCalls = append(s.GenerateCalls, prompt)
	if s.GenerateErr != nil {
		return "", &Error{Op: "generate", Err: s.GenerateErr}
	}
	if len(s.GenerateReplies) == 0 {
		return "", &Error{Op: "generate", Err: errors.New("stub has no scripted reply")}
	}
	return next(s.GenerateReplies, &s.generateIdx), nil
}

var _ Provider = (*Stub)(nil)
