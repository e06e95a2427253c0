// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// ScanEvent is one piece of decoded scanner text handed to the engine.
type ScanEvent struct {
	Text       string    // decoded QR/barcode payload, untrimmed
	Source     string    // optional device or operator label
	CapturedAt time.Time // when the scanner produced the text
}

// NewScanEvent stamps text with the capture time at.
func NewScanEvent(text string, at time.Time) ScanEvent {
	return ScanEvent{Text: text, CapturedAt: at}
}

// Blank reports whether the event carries no usable text.
func (e ScanEvent) Blank() bool {
	return strings.TrimSpace(e.Text) == ""
}
