package models

type AskRequest struct {
	Message string `json:"message"`
}
