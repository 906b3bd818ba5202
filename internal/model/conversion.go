package model

import "time"

// ConversionStatus is the lifecycle state of a conversion run.
type ConversionStatus string

const (
	ConversionRunning ConversionStatus = "running"
	ConversionDone    ConversionStatus = "done"
	ConversionFailed  ConversionStatus = "failed"
)

// Conversion is one logged conversion run.
type Conversion struct {
	ID           string           `json:"id"`
	SourceName   string           `json:"sourceName"`
	OutputName   string           `json:"outputName"`
	Technician   string           `json:"technician"`
	PeriodRange  string           `json:"periodRange"`
	DataRows     int              `json:"dataRows"`
	SealColumns  []string         `json:"sealColumns"`
	Status       ConversionStatus `json:"status"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
}
