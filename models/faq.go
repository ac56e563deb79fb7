package models

import (
	"strings"
	"time"
)

// FAQEntry is one curated HR question with its answer. A nil Answer means HR
// has not supplied one yet.
type FAQEntry struct {
	Question string  `json:"question"`
	Answer   *string `json:"answer,omitempty"`
}

// NewFAQEntry builds an entry from raw table cells. Empty cells and the
// stringified nulls spreadsheets tend to produce become a nil answer.
func NewFAQEntry(question, answer string) FAQEntry {
	e := FAQEntry{Question: question}
	if !IsMissingAnswer(answer) {
		a := strings.TrimSpace(answer)
		e.Answer = &a
	}
	return e
}

// HasAnswer reports whether the entry carries a usable answer.
func (e FAQEntry) HasAnswer() bool {
	return e.Answer != nil && !IsMissingAnswer(*e.Answer)
}

// AnswerText returns the trimmed answer, or "" when there is none.
func (e FAQEntry) AnswerText() string {
	if !e.HasAnswer() {
		return ""
	}
	return strings.TrimSpace(*e.Answer)
}

// IsMissingAnswer reports whether a raw cell value stands for "no answer".
func IsMissingAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none":
		return true
	}
	return false
}

// FAQInfo describes the FAQ index currently being served.
type FAQInfo struct {
	Count   int       `json:"count"`
	Model   string    `json:"model"`
	BuiltAt time.Time `json:"built_at"`
	Source  string    `json:"source,omitempty"`
}
