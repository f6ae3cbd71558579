package intent

import "testing"

func TestClassifyKeywordGroups(t *testing.T) {
	c := NewClassifier(6)

	tests := []struct {
		name     string
		body     string
		expected Intent
	}{
		{name: "menu digit", body: "3", expected: CourseSelectionNumber},
		{name: "menu digit with whitespace", body: "  1 ", expected: CourseSelectionNumber},
		{name: "interested", body: "I'm interested!", expected: WantsMoreInfo},
		{name: "tell me more", body: "please tell me more", expected: WantsMoreInfo},
		{name: "price", body: "what is the PRICE?", expected: AsksPrice},
		{name: "cost", body: "how much does it cost", expected: AsksPrice},
		{name: "fee", body: "any fee involved?", expected: AsksPrice},
		{name: "installment", body: "can I pay in installments", expected: AsksInstallment},
		{name: "credit", body: "do you take credit", expected: AsksInstallment},
		{name: "not now", body: "not now please", expected: DeclinesForNow},
		{name: "later", body: "maybe later", expected: DeclinesForNow},
		{name: "not interested", body: "I am not interested", expected: DeclinesPermanently},
		{name: "payment plan", body: "is there a payment plan", expected: AsksPaymentPlan},
		{name: "fallback", body: "when do classes start?", expected: Fallback},
		{name: "empty body", body: "", expected: Fallback},
		{name: "digit out of range", body: "7", expected: Fallback},
		{name: "digit inside sentence", body: "option 1 please", expected: Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.body)
			if got != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}

// TestClassifyPriorityOrder pins the first-match-wins tie-break for bodies
// matching several keyword groups.
func TestClassifyPriorityOrder(t *testing.T) {
	c := NewClassifier(6)

	tests := []struct {
		name     string
		body     string
		expected Intent
	}{
		// price group is checked before declines-permanently
		{name: "price beats not interested", body: "what's the price? I'm probably not interested", expected: AsksPrice},
		// wants-more-info is checked before everything but digits
		{name: "interested beats price", body: "interested, what's the cost?", expected: WantsMoreInfo},
		// "not interested" contains no "not now"/"later" keyword, but a body
		// with both defers before declining
		{name: "not now beats not interested", body: "not now, I'm not interested", expected: DeclinesForNow},
		// installment is checked before payment plan
		{name: "installment beats payment plan", body: "payment plan or installment?", expected: AsksInstallment},
		// a lone digit always wins
		{name: "digit beats keywords", body: "2", expected: CourseSelectionNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.body)
			if got != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}

func TestCourseNumber(t *testing.T) {
	c := NewClassifier(6)

	tests := []struct {
		body     string
		expected int
		ok       bool
	}{
		{body: "1", expected: 1, ok: true},
		{body: "6", expected: 6, ok: true},
		{body: " 4 ", expected: 4, ok: true},
		{body: "0", ok: false},
		{body: "7", ok: false},
		{body: "12", ok: false},
		{body: "one", ok: false},
		{body: "", ok: false},
	}

	for _, tt := range tests {
		n, ok := c.CourseNumber(tt.body)
		if ok != tt.ok || (ok && n != tt.expected) {
			t.Errorf("CourseNumber(%q) = (%d, %v), want (%d, %v)", tt.body, n, ok, tt.expected, tt.ok)
		}
	}
}

// TestClassifyIsStateless verifies repeated classification of the same body
// yields the same intent.
func TestClassifyIsStateless(t *testing.T) {
	c := NewClassifier(6)
	body := "what is the cost and is there a payment plan?"
	first := c.Classify(body)
	for i := 0; i < 5; i++ {
		if got := c.Classify(body); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}
