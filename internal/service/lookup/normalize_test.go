package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"lower case":        {input: "british gas", want: "britishgas"},
		"title case":        {input: "British Gas", want: "britishgas"},
		"upper with runs":   {input: "BRITISH   GAS", want: "britishgas"},
		"tabs and newlines": {input: "\tBritish\nGas ", want: "britishgas"},
		"punctuation kept":  {input: "Marks & Spencer", want: "marks&spencer"},
		"unicode spaces":    {input: "E.ON\u00a0Next", want: "e.onnext"},
		"byte order mark":   {input: "\uFEFFBritish Gas", want: "britishgas"},
		"ideographic space": {input: "Sky\u3000Mobile", want: "skymobile"},
		"next line kept":    {input: "Sky\u0085Mobile", want: "sky\u0085mobile"},
		"unicode letters":   {input: "ÉLECTRICITÉ de France", want: "électricitédefrance"},
		"only whitespace":   {input: "   ", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_CaseAndWhitespaceInsensitive(t *testing.T) {
	want := Normalize("British Gas")
	assert.Equal(t, want, Normalize("british gas"))
	assert.Equal(t, want, Normalize("BRITISH   GAS"))
}
