package lookup

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/complaint-helper/api/internal/entity"
)

var britishGas = entity.Company{
	Serial:          1,
	CompanyName:     "British Gas",
	CompanyNumber:   "12345",
	ComplaintsEmail: "help@britishgas.co.uk",
	XHandle:         "@BritishGas",
	FacebookHandle:  "BritishGasHelp",
}

func testDirectory() []entity.Company {
	return []entity.Company{
		britishGas,
		{Serial: 2, CompanyName: "British Airways", CompanyNumber: "01777777", ComplaintsEmail: "customer.relations@ba.com", XHandle: "@British_Airways", FacebookHandle: "britishairways"},
		{Serial: 3, CompanyName: "Octopus Energy", CompanyNumber: "09263424", ComplaintsEmail: "hello@octopus.energy", XHandle: "@octopus_energy", FacebookHandle: "octopusenergy"},
		{Serial: 4, CompanyName: "Virgin Media", CompanyNumber: "02591237", XHandle: "@virginmedia", FacebookHandle: "VirginMedia"},
	}
}

type panickingMatcher struct{}

func (panickingMatcher) Best(string) (int, bool) {
	panic("matcher exploded")
}

func TestResolver_ExactMatch(t *testing.T) {
	r := NewResolver(testDirectory())

	for _, input := range []string{"British Gas", "british gas", "BRITISH   GAS", "britishgas", " British\tGas", "\uFEFFBritish Gas"} {
		t.Run(input, func(t *testing.T) {
			got := r.Resolve(input)
			assert.Equal(t, Result{
				Outcome:       OutcomeFound,
				Match:         MatchExact,
				XHandle:       "@BritishGas",
				FBHandle:      "BritishGasHelp",
				Email:         "help@britishgas.co.uk",
				CompanyNumber: "12345",
				CompanyName:   "British Gas",
				Message:       MessageFound,
			}, got)
		})
	}
}

func TestResolver_EveryRecordResolvesToItself(t *testing.T) {
	records := testDirectory()
	r := NewResolver(records)

	for _, rec := range records {
		got := r.Resolve(strings.ToUpper(rec.CompanyName))
		require.Equal(t, OutcomeFound, got.Outcome, rec.CompanyName)
		assert.Equal(t, MatchExact, got.Match)
		assert.Equal(t, rec.CompanyName, got.CompanyName)
		assert.Equal(t, rec.XHandle, got.XHandle)
		assert.Equal(t, rec.FacebookHandle, got.FBHandle)
		assert.Equal(t, rec.ComplaintsEmail, got.Email)
		assert.Equal(t, rec.CompanyNumber, got.CompanyNumber)
	}
}

func TestResolver_ExactBeatsFuzzy(t *testing.T) {
	// "gas" is a tight fuzzy hit inside "British Gas" but an exact hit for "GAS".
	records := append(testDirectory(), entity.Company{Serial: 5, CompanyName: "GAS", XHandle: "@gas"})
	r := NewResolver(records)

	got := r.Resolve("gas")
	assert.Equal(t, MatchExact, got.Match)
	assert.Equal(t, "GAS", got.CompanyName)
}

func TestResolver_FuzzyMatch(t *testing.T) {
	r := NewResolver(testDirectory())

	got := r.Resolve("britsh gas")
	require.Equal(t, OutcomeFound, got.Outcome)
	assert.Equal(t, MatchFuzzy, got.Match)
	assert.Equal(t, "British Gas", got.CompanyName)
	assert.Equal(t, "@BritishGas", got.XHandle)
	assert.Equal(t, MessageFound, got.Message)

	got = r.Resolve("Octopus")
	assert.Equal(t, "Octopus Energy", got.CompanyName)
}

func TestResolver_Guess(t *testing.T) {
	r := NewResolver(testDirectory())

	got := r.Resolve("Zzyzx Corp Ltd")
	assert.Equal(t, Result{
		Outcome:       OutcomeGuessed,
		Match:         MatchNone,
		XHandle:       "@zzyzxcorpltd (guess)",
		FBHandle:      "@zzyzxcorpltd (guess)",
		Email:         "customerservice@zzyzxcorpltd.co.uk",
		CompanyNumber: UnknownCompanyNumber,
		Message:       MessageGuessed,
	}, got)
	assert.Empty(t, got.CompanyName)
}

func TestResolver_GuessUsesRawInputNotPartialMatch(t *testing.T) {
	r := NewResolver(testDirectory())

	for _, input := range []string{"Acme Widgets", "ACME widgets", "acme   WIDGETS"} {
		got := r.Resolve(input)
		require.Equal(t, OutcomeGuessed, got.Outcome)
		assert.Equal(t, "@"+Normalize(input)+" (guess)", got.XHandle)
		assert.Equal(t, got.XHandle, got.FBHandle)
		assert.Equal(t, "customerservice@"+Normalize(input)+".co.uk", got.Email)
	}
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(testDirectory())

	for _, input := range []string{"british gas", "britsh gas", "Zzyzx Corp Ltd"} {
		assert.Equal(t, r.Resolve(input), r.Resolve(input), input)
	}
}

func TestResolver_DuplicateKeyLastWriteWins(t *testing.T) {
	records := []entity.Company{
		{Serial: 1, CompanyName: "Three", XHandle: "@ThreeUK"},
		{Serial: 2, CompanyName: "THREE", XHandle: "@ThreeUKSupport"},
	}
	r := NewResolver(records)

	got := r.Resolve("three")
	assert.Equal(t, "@ThreeUKSupport", got.XHandle)
	assert.Equal(t, "THREE", got.CompanyName)
}

func TestResolver_RecoversFromMatcherPanic(t *testing.T) {
	r := NewResolver(testDirectory())
	r.matcher = panickingMatcher{}

	var got Result
	require.NotPanics(t, func() { got = r.Resolve("Unknown Co") })
	assert.Equal(t, OutcomeError, got.Outcome)
	assert.Equal(t, MessageError, got.Message)
	assert.Equal(t, "@unknownco (guess)", got.XHandle)
	assert.Equal(t, "@unknownco (guess)", got.FBHandle)
	assert.Equal(t, "customerservice@unknownco.co.uk", got.Email)
	assert.Equal(t, UnknownCompanyNumber, got.CompanyNumber)

	// exact hits never reach the matcher
	assert.Equal(t, OutcomeFound, r.Resolve("british gas").Outcome)
}

func TestResolver_PathologicalInputs(t *testing.T) {
	r := NewResolver(testDirectory())

	inputs := []string{
		strings.Repeat("a", 100_000),
		strings.Repeat("british gas ", 2_000),
		"!!!???",
		"株式会社 テスト",
		"🙂🙃",
		"\x00\xff",
		"İstanbul Enerji",
	}
	for _, input := range inputs {
		require.NotPanics(t, func() {
			got := r.Resolve(input)
			assert.NotEmpty(t, got.Message)
			assert.NotEmpty(t, got.XHandle)
		})
	}
}

func TestResolver_ConcurrentUse(t *testing.T) {
	r := NewResolver(testDirectory())
	want := r.Resolve("britsh gas")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := r.Resolve("britsh gas"); got != want {
					t.Errorf("concurrent resolve diverged: %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestResolver_SnapshotIsolatedFromCaller(t *testing.T) {
	records := testDirectory()
	r := NewResolver(records)
	records[0].XHandle = "@mutated"

	assert.Equal(t, "@BritishGas", r.Resolve("British Gas").XHandle)
	assert.Equal(t, 4, r.Len())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "found", OutcomeFound.String())
	assert.Equal(t, "guessed", OutcomeGuessed.String())
	assert.Equal(t, "error", OutcomeError.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
