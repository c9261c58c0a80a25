package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts(t *testing.T) {
	p, err := LoadPrompts()
	require.NoError(t, err)

	assert.Contains(t, p.Generate, "{{SCHEMA}}")
	assert.Contains(t, p.Generate, "Cypher")
	assert.NotContains(t, p.Answer, "{{")
	assert.NotEmpty(t, p.Answer)
}

func TestBuildGeneratePrompt(t *testing.T) {
	prompt := buildGeneratePrompt("before\n{{SCHEMA}}\nafter", "Node properties:\nPerson {name: String}")

	assert.Contains(t, prompt, "Node properties:\nPerson {name: String}")
	assert.NotContains(t, prompt, "{{SCHEMA}}")
}

func TestBuildAnswerPrompt(t *testing.T) {
	prompt := buildAnswerPrompt("How many?", "Columns: n\nRows (1 total):\n3\n")

	assert.Contains(t, prompt, "Question: How many?")
	assert.Contains(t, prompt, "Information:\nColumns: n")
}
