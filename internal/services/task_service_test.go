package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTagNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain list",
			raw:  "work,home,urgent",
			want: []string{"work", "home", "urgent"},
		},
		{
			name: "trims whitespace",
			raw:  "  work , home ,urgent ",
			want: []string{"work", "home", "urgent"},
		},
		{
			name: "drops empty tokens",
			raw:  "work,,  ,home,",
			want: []string{"work", "home"},
		},
		{
			name: "deduplicates keeping first occurrence",
			raw:  "a, b, b, c, a",
			want: []string{"a", "b", "c"},
		},
		{
			name: "case sensitive",
			raw:  "Work, work",
			want: []string{"Work", "work"},
		},
		{
			name: "keeps inner spaces",
			raw:  "code review, pair programming",
			want: []string{"code review", "pair programming"},
		},
		{
			name: "empty string",
			raw:  "",
			want: []string{},
		},
		{
			name: "only separators",
			raw:  " , , ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseTagNames(tt.raw))
		})
	}
}
