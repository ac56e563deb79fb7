package services

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// MaxExcerptTokens caps how many whitespace-separated tokens of an uploaded
// document are sent to the fallback model.
const MaxExcerptTokens = 1000

var (
	documentPrompt = prompts.NewPromptTemplate(
		"Here is an excerpt from an HR document:\n\n\"\"\"{{.excerpt}}\"\"\"\n\n"+
			"HR question from an employee: {{.question}}\n"+
			"Answer clearly and directly, relying on the excerpt above.",
		[]string{"excerpt", "question"},
	)
	questionPrompt = prompts.NewPromptTemplate(
		"HR question from an employee: {{.question}}\n"+
			"Answer clearly and directly.",
		[]string{"question"},
	)
)

// BuildFallbackPrompt renders the prompt sent to the generative model. The
// document section is only present when documentContent has text.
func BuildFallbackPrompt(question, documentContent string) (string, error) {
	excerpt := TruncateTokens(documentContent, MaxExcerptTokens)
	if excerpt == "" {
		return questionPrompt.Format(map[string]any{"question": question})
	}
	return documentPrompt.Format(map[string]any{
		"excerpt":  excerpt,
		"question": question,
	})
}

// TruncateTokens keeps the first n whitespace-separated tokens of text,
// re-joined with single spaces.
func TruncateTokens(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
