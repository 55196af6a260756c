// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns a scraped cover story into a bilingual
// (Traditional Chinese and English) title and summary using a language
// model. The model is reached through a Backend so tests can supply a stub.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/pkg/types"
)

// ErrInvalidOutput is returned when the model response is not the
// expected JSON object.
var ErrInvalidOutput = errors.New("invalid summary output")

// Backend abstracts the Generative AI API. Complete sends one system and
// one user message and returns the raw text of the reply.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Request carries everything the prompts need about one article.
type Request struct {
	Journal          string
	Volume           string
	Issue            string
	Date             string
	CoverDescription string
	Title            string
	Authors          []string
	Abstract         string

	// FullText selects the structured full-text prompt when non-empty.
	FullText string
}

// RequestFromRecord builds a Request from a scraped record.
func RequestFromRecord(raw *types.RawRecord, fullText string) Request {
	return Request{
		Journal:          raw.Journal,
		Volume:           raw.Volume,
		Issue:            raw.Issue,
		Date:             raw.Date,
		CoverDescription: raw.CoverDescription,
		Title:            raw.ArticleTitle,
		Authors:          raw.ArticleAuthors,
		Abstract:         raw.ArticleAbstract,
		FullText:         fullText,
	}
}

// Mode reports which prompt the request uses.
func (r Request) Mode() types.SummaryMode {
	if strings.TrimSpace(r.FullText) != "" {
		return types.ModeFullText
	}
	return types.ModeAbstractOnly
}

// Summarizer validates model output and retries on failure.
type Summarizer struct {
	Backend Backend

	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	Logger *slog.Logger
}

// backoffBase controls the wait between attempts. Tests override this to
// avoid real sleeps.
var backoffBase = time.Second

// New returns a Summarizer with the given backend and retry budget.
func New(backend Backend, maxRetries int, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Summarizer{Backend: backend, MaxRetries: maxRetries, Logger: logger}
}

// Summarize renders the prompt for req, calls the backend and validates
// the reply. It makes at most 1+MaxRetries calls and returns (nil, false)
// when none yields a valid summary.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (*types.AISummary, bool) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	user, err := renderUserPrompt(req)
	if err != nil {
		logger.Error("rendering prompt", "journal", req.Journal, "error", err)
		return nil, false
	}

	attempts := s.MaxRetries + 1
	var summary *types.AISummary
	err = httputil.Retry(ctx, attempts, httputil.Exponential(backoffBase), func(attempt int) error {
		logger.Info("requesting summary", "journal", req.Journal, "mode", req.Mode(), "attempt", attempt, "of", attempts)
		raw, err := s.Backend.Complete(ctx, systemPrompt, user)
		if err != nil {
			logger.Warn("model call failed", "attempt", attempt, "error", err)
			return err
		}
		out, err := ParseSummary(raw)
		if err != nil {
			logger.Warn("model output rejected", "attempt", attempt, "error", err)
			return err
		}
		summary = out
		return nil
	})
	if err != nil {
		logger.Error("no valid summary", "journal", req.Journal, "volume", req.Volume, "issue", req.Issue, "attempts", attempts)
		return nil, false
	}
	return summary, true
}

// ParseSummary strips markdown code fences from a model reply, decodes
// it, and checks that title and summary each carry non-empty zh and en.
func ParseSummary(raw string) (*types.AISummary, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}

	var out types.AISummary
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if !out.Title.Complete() {
		return nil, fmt.Errorf("%w: title needs zh and en", ErrInvalidOutput)
	}
	if !out.Summary.Complete() {
		return nil, fmt.Errorf("%w: summary needs zh and en", ErrInvalidOutput)
	}
	return &out, nil
}

// stripFences removes a ```json ... ``` wrapper if the model added one.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
