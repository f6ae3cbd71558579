// Package intent maps free-text inbound messages to a closed set of symbolic
// intents using ordered keyword and number matching.
//
// Classification is deliberately first-match-wins: some bodies match several
// keyword groups ("what does it cost? not interested in loans"), and the fixed
// priority order is the tie-break. The classifier keeps no state between calls.
package intent

import (
	"strconv"
	"strings"
)

// Intent is a symbolic classification of an inbound message's purpose.
type Intent string

const (
	// CourseSelectionNumber means the trimmed body is exactly a menu digit.
	CourseSelectionNumber Intent = "course-selection-number"
	// WantsMoreInfo means the lead asked for details about the course.
	WantsMoreInfo Intent = "wants-more-info"
	// AsksPrice means the lead asked about tuition.
	AsksPrice Intent = "asks-price"
	// AsksInstallment means the lead asked about installments or credit.
	AsksInstallment Intent = "asks-installment"
	// DeclinesForNow means the lead deferred for now.
	DeclinesForNow Intent = "declines-for-now"
	// DeclinesPermanently means the lead declined outright.
	DeclinesPermanently Intent = "declines-permanently"
	// AsksPaymentPlan means the lead asked about payment plans.
	AsksPaymentPlan Intent = "asks-payment-plan"
	// Fallback means no keyword group matched.
	Fallback Intent = "fallback"
)

// rule pairs an intent with the keywords that trigger it. Rules are evaluated
// in slice order. A keyword hit is suppressed when any phrase in except is
// present, so "interested" does not swallow "not interested".
type rule struct {
	intent   Intent
	keywords []string
	except   []string
}

// Classifier classifies message bodies against a fixed rule order and the
// size of the course menu.
type Classifier struct {
	rules      []rule
	maxCourses int
}

// NewClassifier creates a classifier whose course-selection intent accepts the
// digits 1..maxCourses.
func NewClassifier(maxCourses int) *Classifier {
	return &Classifier{
		maxCourses: maxCourses,
		rules: []rule{
			{intent: WantsMoreInfo, keywords: []string{"interested", "tell me more"}, except: []string{"not interested"}},
			{intent: AsksPrice, keywords: []string{"price", "cost", "fee"}},
			{intent: AsksInstallment, keywords: []string{"installment", "credit"}},
			{intent: DeclinesForNow, keywords: []string{"not now", "later"}},
			{intent: DeclinesPermanently, keywords: []string{"not interested"}},
			{intent: AsksPaymentPlan, keywords: []string{"payment plan"}},
		},
	}
}

// Classify returns the intent of the given message body. Matching is
// case-insensitive; the caller keeps the original body for storage.
func (c *Classifier) Classify(body string) Intent {
	if n, ok := c.CourseNumber(body); ok && n >= 1 {
		return CourseSelectionNumber
	}
	lowered := strings.ToLower(body)
	for _, r := range c.rules {
		if r.matches(lowered) {
			return r.intent
		}
	}
	return Fallback
}

func (r rule) matches(lowered string) bool {
	for _, ex := range r.except {
		if strings.Contains(lowered, ex) {
			return false
		}
	}
	for _, kw := range r.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// CourseNumber parses the body as a menu selection. It returns the 1-indexed
// course number and true only when the trimmed body is exactly one of the
// digit tokens 1..maxCourses.
func (c *Classifier) CourseNumber(body string) (int, bool) {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 || n > c.maxCourses {
		return 0, false
	}
	return n, true
}
