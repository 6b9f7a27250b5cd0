package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: 429}, ErrRateLimited},
		{"bad key", &openai.APIError{HTTPStatusCode: 401}, ErrNotConfigured},
		{"forbidden", &openai.APIError{HTTPStatusCode: 403}, ErrNotConfigured},
		{"server error", &openai.APIError{HTTPStatusCode: 502}, ErrUnavailable},
		{"transport", fmt.Errorf("dial tcp: connection refused"), ErrUnavailable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classify(c.in); !errors.Is(got, c.want) {
				t.Errorf("classify(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}

	// Other 4xx responses pass through unwrapped.
	in := &openai.APIError{HTTPStatusCode: 400}
	got := classify(in)
	for _, sentinel := range []error{ErrRateLimited, ErrNotConfigured, ErrUnavailable} {
		if errors.Is(got, sentinel) {
			t.Errorf("400 classified as %v", sentinel)
		}
	}
}

func TestNewOpenAIWithoutKeyIsDegraded(t *testing.T) {
	o := NewOpenAI(OpenAIConfig{})
	if _, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestToChatMessagesMultiContent(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "look", ImageURLs: []string{"data:application/pdf;base64,AA=="}},
	}
	out := toChatMessages(msgs)
	if len(out) != 2 {
		t.Fatalf("messages = %d", len(out))
	}
	if out[0].Content != "sys" || len(out[0].MultiContent) != 0 {
		t.Fatalf("system message = %+v", out[0])
	}
	parts := out[1].MultiContent
	if len(parts) != 2 {
		t.Fatalf("multi content parts = %d, want text + image", len(parts))
	}
	if parts[0].Type != openai.ChatMessagePartTypeText || parts[0].Text != "look" {
		t.Errorf("text part = %+v", parts[0])
	}
	if parts[1].Type != openai.ChatMessagePartTypeImageURL || parts[1].ImageURL == nil {
		t.Errorf("image part = %+v", parts[1])
	}
}

func TestFakeScriptRepeatsLastReply(t *testing.T) {
	f := NewFakeText("one", "two")
	ctx := context.Background()
	for _, want := range []string{"one", "two", "two"} {
		got, err := f.Complete(ctx, []Message{{Role: RoleUser, Content: "q"}}, Options{})
		if err != nil || got != want {
			t.Fatalf("reply = %q, %v, want %q", got, err, want)
		}
	}
	if len(f.Calls()) != 3 {
		t.Fatalf("recorded calls = %d", len(f.Calls()))
	}
}
