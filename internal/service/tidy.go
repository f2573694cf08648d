package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/octobees/complaint-helper/api/internal/llm"
)

// MaxComplaintLength caps the complaint text accepted for tidying, in characters.
const MaxComplaintLength = 5000

const (
	// MaxNameLength caps the sender name, in characters.
	MaxNameLength = 100
	// MaxRegulatoryBodies caps how many regulators can be copied on one complaint.
	MaxRegulatoryBodies = 10
)

var (
	// ErrEmptyComplaint is returned when there is no text to tidy.
	ErrEmptyComplaint = errors.New("complaint text is required")
	// ErrComplaintTooLong is returned when the text exceeds MaxComplaintLength.
	ErrComplaintTooLong = fmt.Errorf("complaint text exceeds %d characters", MaxComplaintLength)
	// ErrNameTooLong is returned when the sender name exceeds MaxNameLength.
	ErrNameTooLong = fmt.Errorf("name exceeds %d characters", MaxNameLength)
	// ErrTooManyRegulators is returned when more than MaxRegulatoryBodies are listed.
	ErrTooManyRegulators = fmt.Errorf("more than %d regulatory bodies", MaxRegulatoryBodies)
	// ErrTidyDisabled is returned when no language model is configured.
	ErrTidyDisabled = errors.New("complaint tidying is not configured")
)

// ComplaintDraft is what the user submits for tidying. Everything except
// Complaint is optional context.
type ComplaintDraft struct {
	Complaint        string
	Name             string
	CompanyName      string
	RegulatoryBodies []string
}

const tidySystemPrompt = `You tidy consumer complaints before they are posted publicly.
Fix spelling, grammar and punctuation, and make the tone firm but polite.
Keep every fact, date, amount and reference number the customer gave; do not invent new ones.
Remove profanity and personal insults. Keep it under 280 words.
If a sender name is given, sign the complaint off with it.
If regulators are listed, say that they have been copied in, naming each one.
Reply with the tidied complaint only, without a preamble or quotation marks.`

// TidyService rewrites complaint text with a language model.
type TidyService struct {
	completer llm.Completer
	model     string
	maxTokens int64
}

// NewTidyService creates a tidy service. A nil completer yields a service
// that reports ErrTidyDisabled.
func NewTidyService(completer llm.Completer, model string, maxTokens int64) *TidyService {
	return &TidyService{completer: completer, model: model, maxTokens: maxTokens}
}

// Enabled reports whether the service can reach a language model.
func (s *TidyService) Enabled() bool {
	return s != nil && s.completer != nil
}

// Tidy returns the rewritten complaint.
func (s *TidyService) Tidy(ctx context.Context, draft ComplaintDraft) (string, error) {
	draft, err := cleanDraft(draft)
	if err != nil {
		return "", err
	}
	if !s.Enabled() {
		return "", ErrTidyDisabled
	}

	text, err := s.completer.Complete(ctx, llm.CompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    tidySystemPrompt,
		Prompt:    buildTidyPrompt(draft),
	})
	if err != nil {
		return "", eris.Wrap(err, "tidy complaint")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", eris.New("tidy complaint: model returned no text")
	}
	return text, nil
}

// cleanDraft trims every field, drops blank or repeated regulators and
// enforces the size limits.
func cleanDraft(draft ComplaintDraft) (ComplaintDraft, error) {
	draft.Complaint = strings.TrimSpace(draft.Complaint)
	if draft.Complaint == "" {
		return draft, ErrEmptyComplaint
	}
	if utf8.RuneCountInString(draft.Complaint) > MaxComplaintLength {
		return draft, ErrComplaintTooLong
	}

	draft.Name = strings.TrimSpace(draft.Name)
	if utf8.RuneCountInString(draft.Name) > MaxNameLength {
		return draft, ErrNameTooLong
	}
	draft.CompanyName = strings.TrimSpace(draft.CompanyName)

	var bodies []string
	seen := make(map[string]bool, len(draft.RegulatoryBodies))
	for _, body := range draft.RegulatoryBodies {
		body = strings.TrimSpace(body)
		if body == "" || seen[body] {
			continue
		}
		seen[body] = true
		bodies = append(bodies, body)
	}
	if len(bodies) > MaxRegulatoryBodies {
		return draft, ErrTooManyRegulators
	}
	draft.RegulatoryBodies = bodies

	return draft, nil
}

func buildTidyPrompt(draft ComplaintDraft) string {
	var b strings.Builder
	if draft.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n\n", draft.CompanyName)
	}
	if draft.Name != "" {
		fmt.Fprintf(&b, "From: %s\n\n", draft.Name)
	}
	if len(draft.RegulatoryBodies) > 0 {
		fmt.Fprintf(&b, "Regulators copied: %s\n\n", strings.Join(draft.RegulatoryBodies, ", "))
	}
	b.WriteString("Complaint:\n")
	b.WriteString(draft.Complaint)
	return b.String()
}
