package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "trailing numeric location code",
			raw:  "ALBERT HEIJN 1308",
			want: "Albert Heijn",
		},
		{
			name: "trailing terminal code",
			raw:  "SHELL 44A3",
			want: "Shell",
		},
		{
			name: "numeric then terminal code",
			raw:  "SHELL 44A3 9021",
			want: "Shell",
		},
		{
			name: "asterisk separators collapse",
			raw:  "ZETTLE_*Coffee Corner",
			want: "Coffee Corner",
		},
		{
			name: "sumup prefix stripped",
			raw:  "SUMUP Bakkerij Jansen",
			want: "Bakkerij Jansen",
		},
		{
			name: "ccv prefix stripped",
			raw:  "CCV De Buurtslager",
			want: "De Buurtslager",
		},
		{
			name: "plain merchant only title-cased",
			raw:  "JUMBO UTRECHT CENTRAAL",
			want: "Jumbo Utrecht Centraal",
		},
		{
			name: "dutch ij digraph",
			raw:  "SLAGERIJ IJSSELSTEIN",
			want: "Slagerij IJsselstein",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  hema   ",
			want: "Hema",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "trailing word survives",
			raw:  "ALBERT HEIJN AMSTERDAM",
			want: "Albert Heijn Amsterdam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Clean(tt.raw))
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	n := New()

	inputs := []string{
		"ALBERT HEIJN 1308",
		"ZETTLE_*Coffee Corner",
		"SHELL 44A3",
		"SUMUP Bakkerij Jansen",
		"Gemeente Amsterdam",
		"NS GROEP IZ NS REIZIGERS",
	}

	for _, raw := range inputs {
		once := n.Clean(raw)
		twice := n.Clean(once)
		assert.Equal(t, once, twice, "Clean is not a fixed point for %q", raw)
	}
}

func TestCleanTruncatesLongNames(t *testing.T) {
	n := New()

	got := n.Clean(strings.Repeat("stichting ", 10))
	assert.LessOrEqual(t, len([]rune(got)), MaxNameLength)
	assert.False(t, strings.HasSuffix(got, " "), "truncated name should not end in whitespace")
}
