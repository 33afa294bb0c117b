package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilterCheck(t *testing.T) {
	cf := NewContentFilter()

	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantReason string
	}{
		{"clean text", "Mangroves cut down near the east channel", true, ""},
		{"empty text", "", true, ""},
		{"banned word", "what a scam this is", false, "inappropriate_language"},
		{"banned word case insensitive", "Total BULLSHIT report", false, "inappropriate_language"},
		{"banned word inside another word passes", "classic assessment of the shoreline", true, ""},
		{"http url", "check http://example.com for details", false, "url_not_allowed"},
		{"www url", "details at www.example.com/page", false, "url_not_allowed"},
		{"repeated characters", "helloooooo anyone there", false, "spam_detected"},
		{"repeated punctuation", "urgent!!!!!!", false, "spam_detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := cf.Check(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestContentFilterRejectionMessage(t *testing.T) {
	cf := NewContentFilter()

	assert.Equal(t, "URLs and web links are not allowed in reports.", cf.RejectionMessage("url_not_allowed"))
	assert.Equal(t, "The report does not meet our content guidelines.", cf.RejectionMessage("unknown_reason"))
}
