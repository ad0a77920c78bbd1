package models

import "time"

// Document is one PDF in the source directory and the text extracted from it for a request.
type Document struct {
	Name string `json:"name"`
	Path string `json:"-"`
	Text string `json:"-"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer   string `json:"answer"`
	PDFCount int    `json:"pdf_count"`
	Success  bool   `json:"success,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

type PDFListResponse struct {
	PDFs  []string `json:"pdfs"`
	Count int      `json:"count"`
}

type StatusResponse struct {
	Status           string    `json:"status"`
	PDFCount         int       `json:"pdf_count"`
	PDFFiles         []string  `json:"pdf_files"`
	APIKeyConfigured bool      `json:"api_key_configured"`
	APIStatus        string    `json:"api_status"`
	Timestamp        time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Success bool   `json:"success"`
}
