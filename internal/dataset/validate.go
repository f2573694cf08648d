package dataset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"

	"github.com/octobees/complaint-helper/api/internal/entity"
	"github.com/octobees/complaint-helper/api/internal/service/lookup"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
	validate     = validator.New()
)

// ValidationError indicates that a dataset cannot be served.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// Validate rejects datasets the resolver cannot serve: no records, a record
// without a company name, or a serial used twice.
func Validate(records []entity.Company) error {
	if len(records) == 0 {
		return ValidationError{Message: "dataset contains no companies"}
	}

	seen := make(map[int]int, len(records))
	for i, rec := range records {
		rec.CompanyName = strings.TrimSpace(rec.CompanyName)
		if err := validate.Struct(rec); err != nil {
			return ValidationError{Message: fmt.Sprintf("record %d (serial %d): %s", i+1, rec.Serial, describe(err))}
		}
		if prev, dup := seen[rec.Serial]; dup {
			return ValidationError{Message: fmt.Sprintf("serial %d used by records %d and %d", rec.Serial, prev+1, i+1)}
		}
		seen[rec.Serial] = i
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// Lint reports problems that do not stop the directory from being served:
// malformed complaint emails and names that collide after normalization,
// where only the later record is reachable by exact match.
func Lint(records []entity.Company) []string {
	var warnings []string

	keys := make(map[string]entity.Company, len(records))
	for _, rec := range records {
		key := lookup.Normalize(rec.CompanyName)
		if prev, ok := keys[key]; ok {
			warnings = append(warnings, fmt.Sprintf("serial %d %q shadows serial %d %q for exact matches", rec.Serial, rec.CompanyName, prev.Serial, prev.CompanyName))
		}
		keys[key] = rec

		if email := strings.TrimSpace(rec.ComplaintsEmail); email != "" && !emailLooksValid(email) {
			warnings = append(warnings, fmt.Sprintf("serial %d %q has an invalid complaints email %q", rec.Serial, rec.CompanyName, email))
		}
	}
	return warnings
}

func emailLooksValid(raw string) bool {
	email := strings.ToLower(raw)
	if !emailPattern.MatchString(email) {
		return false
	}
	domain := strings.SplitN(email, "@", 2)[1]
	if !isDomainValid(domain) {
		return false
	}
	ascii, err := idnaProfile.ToASCII(domain)
	return err == nil && ascii != ""
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
