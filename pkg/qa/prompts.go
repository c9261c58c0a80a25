package qa

import (
	"fmt"
	"strings"

	"github.com/harborlabs/graphqa/pkg/qa/prompts"
)

// Prompts contains the two prompt templates the chain is bound to. Generate
// produces the query statement; Answer synthesizes the final response.
type Prompts struct {
	Generate string // system prompt for statement generation, with a {{SCHEMA}} placeholder
	Answer   string // system prompt for answer synthesis
}

// LoadPrompts loads the default prompt templates from the embedded
// filesystem.
func LoadPrompts() (*Prompts, error) {
	p := &Prompts{}

	var err error
	if p.Generate, err = loadPrompt("GENERATE.md"); err != nil {
		return nil, fmt.Errorf("failed to load GENERATE: %w", err)
	}
	if p.Answer, err = loadPrompt("ANSWER.md"); err != nil {
		return nil, fmt.Errorf("failed to load ANSWER: %w", err)
	}

	return p, nil
}

func loadPrompt(path string) (string, error) {
	data, err := prompts.PromptsFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildGeneratePrompt injects the live schema into the generation template.
func buildGeneratePrompt(template, schema string) string {
	return strings.Replace(template, "{{SCHEMA}}", schema, 1)
}

// buildAnswerPrompt builds the user prompt for answer synthesis from the
// question and the formatted query context.
func buildAnswerPrompt(question, context string) string {
	return fmt.Sprintf("Question: %s\n\nInformation:\n%s", question, context)
}
