package models

// AnswerSource says which branch of the router produced a reply.
type AnswerSource string

const (
	SourceFAQ           AnswerSource = "faq"
	SourceFAQUnanswered AnswerSource = "faq_unanswered"
	SourceFallback      AnswerSource = "fallback"
)

// SessionResponse is returned when a session is created or its messages are listed.
type SessionResponse struct {
	SessionID string                `json:"session_id"`
	Messages  []ConversationMessage `json:"messages"`
	Document  string                `json:"document,omitempty"`
}

// AskResponse is the body of POST /sessions/:id/messages.
type AskResponse struct {
	Answer          string                `json:"answer"`
	Source          AnswerSource          `json:"source,omitempty"`
	Score           float64               `json:"score"`
	MatchedQuestion string                `json:"matched_question,omitempty"`
	UsedDocument    bool                  `json:"used_document"`
	Messages        []ConversationMessage `json:"messages"`
	Error           string                `json:"error,omitempty"`
}

// UploadResponse is the body of POST /sessions/:id/documents.
type UploadResponse struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Error      string `json:"error,omitempty"`
}
