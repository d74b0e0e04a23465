package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCandidates(t *testing.T) {
	const file = `
candidates:
  - id: 1
    name: Emil Shain
    description: "  Frontend developer  "
    image_url: https://img/1.jpg
  - name: Newcomer
`
	candidates, err := LoadCandidates(strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, uint(1), candidates[0].ID)
	assert.Equal(t, "Emil Shain", candidates[0].Name)
	assert.Equal(t, "Frontend developer", candidates[0].Description)
	assert.Equal(t, "https://img/1.jpg", candidates[0].ImageURL)
	assert.Zero(t, candidates[1].ID)
}

func TestLoadCandidates_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"empty", "", "empty"},
		{"no candidates", "candidates: []\n", "no candidates"},
		{"missing name", "candidates:\n  - id: 1\n", "name is required"},
		{"duplicate id", "candidates:\n  - id: 1\n    name: a\n  - id: 1\n    name: b\n", "duplicate id"},
		{"unknown field", "candidates:\n  - id: 1\n    name: a\n    votes: 10\n", "votes"},
		{"not yaml", "candidates: [", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCandidates(strings.NewReader(tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
