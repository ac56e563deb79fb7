package models

// OllamaEmbedRequest is the body sent to Ollama's /api/embeddings endpoint.
type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// OllamaEmbedResponse carries the vector Ollama returns for one prompt.
type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}
