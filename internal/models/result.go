package models

import "careerboost/cv-analyzer/internal/feedback"

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
}

type AnalyzeRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	Mode       string `json:"mode" validate:"omitempty,oneof=json markdown"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ParseRequest struct {
	Text string `json:"text" validate:"required"`
	Mode string `json:"mode" validate:"omitempty,oneof=json markdown"`
}

type ResultResponse struct {
	ID           string             `json:"id"`
	Status       string             `json:"status"`
	Mode         string             `json:"mode"`
	Result       *feedback.Feedback `json:"result,omitempty"`
	ErrorKind    *string            `json:"error_kind,omitempty"`
	ErrorMessage *string            `json:"error_message,omitempty"`
}
