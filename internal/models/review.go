// Package models defines the data contracts shared across RevPulse.
package models

import (
	"strings"
	"time"
)

// Review is an immutable customer-review record. Reviews are created by the
// ingestion layer and read-only to the analytics engine. Sentiment is a
// pre-computed label supplied with the record, not inferred here.
type Review struct {
	ID            string    `json:"id" badgerhold:"key"`
	BusinessName  string    `json:"business_name" badgerholdIndex:"BusinessName"`
	Rating        int       `json:"rating"` // 1..5 stars
	Text          string    `json:"text,omitempty"`
	Author        string    `json:"author,omitempty"`
	PublishedAt   time.Time `json:"published_at"`
	Sentiment     string    `json:"sentiment,omitempty"` // positive, neutral, negative, mixed; empty when absent
	OwnerResponse string    `json:"owner_response,omitempty"`
	StaffMentions string    `json:"staff_mentions,omitempty"` // delimiter-separated names ("," ";" "|")
	Themes        string    `json:"themes,omitempty"`         // delimiter-separated tags ("," ";" "|")
}

// HasValidTimestamp reports whether the review carries a usable publication
// timestamp. Reviews without one are excluded from time-bucketed metrics but
// still counted in cross-sectional totals.
func (r *Review) HasValidTimestamp() bool {
	return !r.PublishedAt.IsZero()
}

// HasOwnerResponse reports whether the business replied to the review.
func (r *Review) HasOwnerResponse() bool {
	return r.OwnerResponse != ""
}

// Sentiment label constants.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

// ValidSentiments is the set of allowed sentiment labels.
var ValidSentiments = map[string]bool{
	SentimentPositive: true,
	SentimentNeutral:  true,
	SentimentNegative: true,
	SentimentMixed:    true,
}

// NormalizeSentiment case-folds the label and maps an absent or unknown
// label to neutral.
func NormalizeSentiment(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if ValidSentiments[label] {
		return label
	}
	return SentimentNeutral
}
