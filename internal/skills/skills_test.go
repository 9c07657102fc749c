package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"js":         "JavaScript",
		"  NodeJS ":  "Node.js",
		"react.js":   "React",
		"golang":     "Go",
		"k8s":        "Kubernetes",
		"Amazon AWS": "AWS",
		" Elixir ":   "Elixir",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestFindMatches(t *testing.T) {
	matched, missing := FindMatches([]string{"React", "Node.js"}, []string{"React", "Node.js", "AWS"})
	assert.Equal(t, []string{"React", "Node.js"}, matched)
	assert.Equal(t, []string{"AWS"}, missing)
}

func TestFindMatchesAliasAndSubstring(t *testing.T) {
	matched, missing := FindMatches([]string{"reactjs", "postgres"}, []string{"React Native", "PostgreSQL", "Rust"})
	// "react native" contains "react"
	assert.Equal(t, []string{"React Native", "PostgreSQL"}, matched)
	assert.Equal(t, []string{"Rust"}, missing)
}

func TestFindMatchesNoUserSkills(t *testing.T) {
	matched, missing := FindMatches(nil, []string{"Go"})
	assert.Empty(t, matched)
	assert.Equal(t, []string{"Go"}, missing)
}

func TestFindMatchesIgnoresBlankSkills(t *testing.T) {
	matched, missing := FindMatches([]string{"  ", "\t", ""}, []string{"Go", "Kubernetes"})
	assert.Empty(t, matched)
	assert.Equal(t, []string{"Go", "Kubernetes"}, missing)

	matched, missing = FindMatches([]string{"Go"}, []string{" ", "Go"})
	assert.Equal(t, []string{"Go"}, matched)
	assert.Equal(t, []string{" "}, missing)
}
