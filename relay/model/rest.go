package model

import (
	"time"

	"github.com/goccy/go-json"
)

type ErrResponse struct {
	Error string `json:"error"`
}

func ErrToJson(msg string) []byte {
	s, _ := json.Marshal(ErrResponse{Error: msg})
	return s
}

type OkResponse struct {
	Status string `json:"status"`
}

func OkToJson(msg string) []byte {
	s, _ := json.Marshal(OkResponse{Status: msg})
	return s
}

// Event is an ingested log record
type Event struct {
	Category  string         `json:"category"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Fields    map[string]any `json:"fields"`
}

type IngestResponse struct {
	Received int `json:"received"`
	Accepted int `json:"accepted"`
}
