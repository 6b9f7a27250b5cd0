package llm

import (
	"context"
	"sync"
)

// Fake is a scripted Client for tests. Each Complete call pops the next
// scripted reply; when the script runs out the last entry repeats. A nil
// Err entry means success.
type Fake struct {
	mu      sync.Mutex
	script  []FakeReply
	pos     int
	calls   [][]Message
	options []Options
}

// FakeReply is one scripted response.
type FakeReply struct {
	Content string
	Err     error
}

var _ Client = (*Fake)(nil)

// NewFake creates a fake that replays the given replies in order.
func NewFake(replies ...FakeReply) *Fake {
	return &Fake{script: replies}
}

// NewFakeText is shorthand for a fake that always succeeds with the given
// texts in order.
func NewFakeText(texts ...string) *Fake {
	replies := make([]FakeReply, len(texts))
	for i, t := range texts {
		replies[i] = FakeReply{Content: t}
	}
	return NewFake(replies...)
}

func (f *Fake) Complete(_ context.Context, messages []Message, opts Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	f.options = append(f.options, opts)
	if len(f.script) == 0 {
		return "", ErrNotConfigured
	}
	r := f.script[f.pos]
	if f.pos < len(f.script)-1 {
		f.pos++
	}
	return r.Content, r.Err
}

// Calls returns the message lists passed to Complete so far.
func (f *Fake) Calls() [][]Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]Message, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallOptions returns the Options passed to Complete so far.
func (f *Fake) CallOptions() []Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Options, len(f.options))
	copy(out, f.options)
	return out
}
