package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOk bool
	}{
		{name: "iso layout", input: "2024-03-15", want: want, wantOk: true},
		{name: "dutch dashed layout", input: "15-03-2024", want: want, wantOk: true},
		{name: "dutch slashed layout", input: "15/03/2024", want: want, wantOk: true},
		{name: "surrounding whitespace", input: "  2024-03-15 ", want: want, wantOk: true},
		{name: "unknown layout", input: "03.15.2024", wantOk: false},
		{name: "not a date", input: "vandaag", wantOk: false},
		{name: "empty", input: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.True(t, got.Equal(tt.want), "got %s", got)
			}
		})
	}
}
