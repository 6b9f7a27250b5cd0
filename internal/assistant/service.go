// Package assistant implements the two-phase desktop assistant: a planning
// call selects which entity queries can answer a question, the queries run
// concurrently with per-operation failure isolation, and a second call
// synthesizes a grounded answer from their results. It also owns the
// heavyweight context snapshot job.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/store"
)

// Config bounds the context snapshot inputs.
type Config struct {
	// DocPreviewLimit truncates each document's extracted text in snapshot
	// and query results. Zero means the default of 500.
	DocPreviewLimit int
	// RecentMessageLimit caps how many recent chat messages feed the
	// snapshot. Zero means the default of 20.
	RecentMessageLimit int
}

func (c Config) withDefaults() Config {
	if c.DocPreviewLimit <= 0 {
		c.DocPreviewLimit = 500
	}
	if c.RecentMessageLimit <= 0 {
		c.RecentMessageLimit = 20
	}
	return c
}

// Service answers free-form questions about the desktop contents.
type Service struct {
	store store.Store
	llm   llm.Client
	cfg   Config
	log   *slog.Logger
}

// NewService creates an assistant service.
func NewService(st store.Store, client llm.Client, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, llm: client, cfg: cfg.withDefaults(), log: log}
}

// plan is the structured output of the planning call.
type plan struct {
	Queries   []string `json:"queries"`
	Reasoning string   `json:"reasoning"`
}

// queryDescriptions enumerates the operations the planner may select. The
// names are part of the planning contract and never change independently of
// the registry below.
var queryDescriptions = []struct {
	name, desc string
}{
	{"getFolders", "all desktop folders with their names and positions"},
	{"getFolderItems", "all folder items (files, bookmarks, notes) grouped by folder"},
	{"getDocuments", "all uploaded documents with a preview of their extracted text"},
	{"getChatMessages", "recent document chat messages"},
	{"getMailingLists", "all mailing lists with their email addresses"},
}

// Ask runs the two-phase protocol and returns a grounded answer. It fails
// with apperr.ErrAssistantUnavailable when the completion service cannot be
// used at all; an answer saying the data cannot answer the question is a
// normal result, not an error.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperr.ValidationField("question", "question is required")
	}

	p, err := s.plan(ctx, question)
	if err != nil {
		return "", err
	}
	if len(p.Queries) == 0 {
		// The planner decided no stored data can answer this. Terminal.
		if p.Reasoning != "" {
			return p.Reasoning, nil
		}
		return "I don't have any stored data that can answer that question.", nil
	}

	results := s.execute(ctx, p.Queries)
	return s.answer(ctx, question, results)
}

func (s *Service) plan(ctx context.Context, question string) (*plan, error) {
	var b strings.Builder
	b.WriteString("Available queries:\n")
	for _, q := range queryDescriptions {
		b.WriteString("- ")
		b.WriteString(q.name)
		b.WriteString(": ")
		b.WriteString(q.desc)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nRespond with JSON only: {\"queries\": [\"...\"], \"reasoning\": \"...\"}. " +
		"Select only queries whose data is needed to answer the question. " +
		"If no query can possibly help, return an empty queries list and explain why in reasoning.")

	raw, err := s.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You plan which data queries are needed to answer questions about a virtual desktop. Respond with JSON only."},
		{Role: llm.RoleUser, Content: b.String()},
	}, llm.Options{Temperature: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: plan: %v", apperr.ErrAssistantUnavailable, err)
	}

	var p plan
	if err := json.Unmarshal([]byte(stripFences(raw)), &p); err != nil {
		return nil, fmt.Errorf("%w: unparseable plan: %v", apperr.ErrAssistantUnavailable, err)
	}
	// Unknown names are dropped rather than failing the whole request.
	valid := p.Queries[:0]
	for _, q := range p.Queries {
		if _, ok := s.registry()[q]; ok {
			valid = append(valid, q)
		} else {
			s.log.Warn("planner selected unknown query", slog.String("query", q))
		}
	}
	p.Queries = valid
	return &p, nil
}

// execute runs the selected queries concurrently. Each failure is recorded
// under its operation name so partial results still reach the answer phase.
func (s *Service) execute(ctx context.Context, queries []string) map[string]any {
	results := make(map[string]any, len(queries))
	var mu sync.Mutex

	reg := s.registry()
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range queries {
		name := name
		fn := reg[name]
		g.Go(func() error {
			data, err := fn(gctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("assistant query failed",
					slog.String("query", name), slog.String("error", err.Error()))
				results[name] = map[string]string{"error": err.Error()}
				return nil
			}
			results[name] = data
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) answer(ctx context.Context, question string, results map[string]any) (string, error) {
	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshal query results: %w", err)
	}

	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nQuery results:\n")
	b.Write(payload)
	if snap, err := s.store.Context(ctx); err == nil && snap.ContextData != "" {
		b.WriteString("\n\nBackground summary of the desktop (may be stale):\n")
		b.WriteString(snap.ContextData)
	}

	answer, err := s.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You answer questions about a virtual desktop using only the " +
			"query results and background summary provided. When the data does not support an " +
			"answer, say so explicitly instead of inventing facts."},
		{Role: llm.RoleUser, Content: b.String()},
	}, llm.Options{Temperature: -1})
	if err != nil {
		return "", fmt.Errorf("%w: answer: %v", apperr.ErrAssistantUnavailable, err)
	}
	return answer, nil
}

type queryFunc func(ctx context.Context) (any, error)

func (s *Service) registry() map[string]queryFunc {
	return map[string]queryFunc{
		"getFolders":      s.queryFolders,
		"getFolderItems":  s.queryFolderItems,
		"getDocuments":    s.queryDocuments,
		"getChatMessages": s.queryChatMessages,
		"getMailingLists": s.queryMailingLists,
	}
}

func (s *Service) queryFolders(ctx context.Context) (any, error) {
	return s.store.Folders(ctx)
}

func (s *Service) queryFolderItems(ctx context.Context) (any, error) {
	folders, err := s.store.Folders(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]models.FolderItem, len(folders))
	for _, f := range folders {
		items, err := s.store.ItemsByFolder(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out[f.Name] = items
	}
	return out, nil
}

func (s *Service) queryDocuments(ctx context.Context) (any, error) {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, err
	}
	type docPreview struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Preview string `json:"preview"`
	}
	out := make([]docPreview, len(docs))
	for i, d := range docs {
		out[i] = docPreview{ID: d.ID, Name: d.Name, Preview: truncate(d.Content, s.cfg.DocPreviewLimit)}
	}
	return out, nil
}

func (s *Service) queryChatMessages(ctx context.Context) (any, error) {
	msgs, err := s.store.Messages(ctx)
	if err != nil {
		return nil, err
	}
	if len(msgs) > s.cfg.RecentMessageLimit {
		msgs = msgs[len(msgs)-s.cfg.RecentMessageLimit:]
	}
	return msgs, nil
}

func (s *Service) queryMailingLists(ctx context.Context) (any, error) {
	return s.store.MailingLists(ctx)
}

// UpdateContext rebuilds the cached desktop summary from the full entity
// store and upserts the singleton snapshot. Heavyweight and user triggered;
// callers must not assume freshness beyond the last explicit update.
func (s *Service) UpdateContext(ctx context.Context) (*models.ContextSnapshot, error) {
	state, err := s.collectState(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Produce a single dense summary of the following virtual " +
			"desktop state. Cover folders and their items, documents, recent chat topics, and " +
			"mailing lists. Plain text, no headings."},
		{Role: llm.RoleUser, Content: state},
	}, llm.Options{Temperature: -1})
	if err != nil {
		return nil, fmt.Errorf("%w: summarize: %v", apperr.ErrAssistantUnavailable, err)
	}
	return s.store.UpsertContext(ctx, summary)
}

// collectState serializes every entity collection with bounded previews.
func (s *Service) collectState(ctx context.Context) (string, error) {
	var b strings.Builder

	folders, err := s.store.Folders(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString("Folders:\n")
	for _, f := range folders {
		fmt.Fprintf(&b, "- %s (at %d,%d)\n", f.Name, f.X, f.Y)
		items, err := s.store.ItemsByFolder(ctx, f.ID)
		if err != nil {
			return "", err
		}
		for _, it := range items {
			fmt.Fprintf(&b, "  - [%s] %s\n", it.Type, it.Name)
			if it.Type == models.ItemNote && it.Note != nil && it.Note.Content != "" {
				fmt.Fprintf(&b, "    %s\n", truncate(it.Note.Content, s.cfg.DocPreviewLimit))
			}
		}
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString("\nDocuments:\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s (uploaded %s)\n  %s\n",
			d.Name, d.CreatedAt.Format(time.DateOnly), truncate(d.Content, s.cfg.DocPreviewLimit))
	}

	msgs, err := s.store.Messages(ctx)
	if err != nil {
		return "", err
	}
	if len(msgs) > s.cfg.RecentMessageLimit {
		msgs = msgs[len(msgs)-s.cfg.RecentMessageLimit:]
	}
	b.WriteString("\nRecent chat messages:\n")
	for _, m := range msgs {
		fmt.Fprintf(&b, "- %s: %s\n", m.Role, truncate(m.Content, 200))
	}

	lists, err := s.store.MailingLists(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString("\nMailing lists:\n")
	for _, ml := range lists {
		emails := append([]string(nil), ml.Emails...)
		sort.Strings(emails)
		fmt.Fprintf(&b, "- %s: %s\n", ml.Name, strings.Join(emails, ", "))
	}

	return b.String(), nil
}

// stripFences removes a surrounding markdown code fence, which models emit
// despite JSON-only instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
