// Package lookup resolves free-text company names against the company
// directory: exact normalized-name match first, then fuzzy match, then a
// synthesized guess.
package lookup

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/entity"
)

// Messages returned alongside every lookup result.
const (
	MessageFound   = "Details retrieved from database."
	MessageGuessed = "Company not in database. Social handles are guesses—verify manually."
	MessageError   = "Error retrieving details. Social handles are guesses—verify manually."
)

// UnknownCompanyNumber is reported when the company is not in the directory.
const UnknownCompanyNumber = "Unknown"

// Outcome tells verified records apart from guesses.
type Outcome int

const (
	// OutcomeFound means the fields come from a directory record.
	OutcomeFound Outcome = iota
	// OutcomeGuessed means no record matched and the fields were synthesized.
	OutcomeGuessed
	// OutcomeError means resolution failed unexpectedly and the fields were synthesized.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeGuessed:
		return "guessed"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Match names the probe that produced a Found result.
type Match string

const (
	MatchNone  Match = ""
	MatchExact Match = "exact"
	MatchFuzzy Match = "fuzzy"
)

// Result is the uniform answer to a lookup.
type Result struct {
	Outcome       Outcome
	Match         Match
	XHandle       string
	FBHandle      string
	Email         string
	CompanyNumber string
	// CompanyName is only set when Outcome is OutcomeFound.
	CompanyName string
	Message     string
}

// Resolver answers lookups over an immutable snapshot of the directory. It is
// safe for concurrent use.
type Resolver struct {
	records []entity.Company
	index   map[string]int
	matcher matcher
}

// NewResolver indexes records for exact and fuzzy lookup. When two names
// normalize to the same key the later record wins.
func NewResolver(records []entity.Company) *Resolver {
	snapshot := make([]entity.Company, len(records))
	copy(snapshot, records)

	index := make(map[string]int, len(snapshot))
	for i, rec := range snapshot {
		index[Normalize(rec.CompanyName)] = i
	}

	return &Resolver{
		records: snapshot,
		index:   index,
		matcher: newSpanMatcher(snapshot),
	}
}

// Len returns the number of records the resolver was built from.
func (r *Resolver) Len() int {
	return len(r.records)
}

// Resolve looks up a trimmed, non-empty company name. It never panics: any
// failure during resolution is reported as OutcomeError.
func (r *Resolver) Resolve(company string) (result Result) {
	var key string
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("lookup: resolve failed",
				zap.String("company", company),
				zap.Any("panic", rec),
			)
			result = guess(key, OutcomeError, MessageError)
		}
	}()

	key = Normalize(company)

	if i, ok := r.index[key]; ok {
		return found(r.records[i], MatchExact)
	}

	if i, ok := r.matcher.Best(company); ok {
		zap.L().Debug("lookup: fuzzy match",
			zap.String("company", company),
			zap.String("matched", r.records[i].CompanyName),
		)
		return found(r.records[i], MatchFuzzy)
	}

	zap.L().Debug("lookup: no match, guessing handles", zap.String("key", key))
	return guess(key, OutcomeGuessed, MessageGuessed)
}

func found(rec entity.Company, match Match) Result {
	return Result{
		Outcome:       OutcomeFound,
		Match:         match,
		XHandle:       rec.XHandle,
		FBHandle:      rec.FacebookHandle,
		Email:         rec.ComplaintsEmail,
		CompanyNumber: rec.CompanyNumber,
		CompanyName:   rec.CompanyName,
		Message:       MessageFound,
	}
}

func guess(key string, outcome Outcome, message string) Result {
	handle := fmt.Sprintf("@%s (guess)", key)
	return Result{
		Outcome:       outcome,
		Match:         MatchNone,
		XHandle:       handle,
		FBHandle:      handle,
		Email:         fmt.Sprintf("customerservice@%s.co.uk", key),
		CompanyNumber: UnknownCompanyNumber,
		Message:       message,
	}
}
