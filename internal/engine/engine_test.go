package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/univelcity/unibot/internal/catalog"
	"github.com/univelcity/unibot/internal/models"
)

func newTestEngine(opts ...Option) *Engine {
	return New(catalog.Default(), opts...)
}

// Scenario: first message from a freshly created lead yields the welcome
// prompt and moves to awaiting-name without capturing the body as a name.
func TestDecideNewLeadGetsWelcome(t *testing.T) {
	e := newTestEngine()
	lead := models.Lead{Phone: "2348012345678", Status: models.StatusNew}

	d := e.Decide(lead, "Hi")

	if !strings.Contains(d.Reply, "Welcome to *Univelcity*") {
		t.Errorf("expected welcome prompt, got %q", d.Reply)
	}
	if !strings.Contains(d.Reply, "What's your name?") {
		t.Errorf("welcome prompt should ask for a name, got %q", d.Reply)
	}
	if d.Updates.Status == nil || *d.Updates.Status != models.StatusAwaitingName {
		t.Errorf("expected transition to awaiting-name, got %+v", d.Updates.Status)
	}
	if d.Updates.Name != nil {
		t.Errorf("first message must not be captured as a name, got %q", *d.Updates.Name)
	}
}

// Scenario: any message from a lead with an empty name is taken verbatim as
// the name, regardless of content.
func TestDecideCapturesNameVerbatim(t *testing.T) {
	e := newTestEngine()

	tests := []string{"Jane", "1", "not interested", "how much does it cost"}
	for _, body := range tests {
		t.Run(body, func(t *testing.T) {
			lead := models.Lead{Phone: "2348012345678", Status: models.StatusAwaitingName}
			d := e.Decide(lead, body)

			if d.Updates.Name == nil || *d.Updates.Name != body {
				t.Fatalf("expected name captured as %q, got %+v", body, d.Updates.Name)
			}
			if d.Updates.Status == nil || *d.Updates.Status != models.StatusAwaitingCourse {
				t.Errorf("expected transition to awaiting-course, got %+v", d.Updates.Status)
			}
			// The body became the name; it is not logged as a response.
			if d.Updates.LastResponse != nil {
				t.Errorf("name capture must not record a last response, got %q", *d.Updates.LastResponse)
			}
		})
	}
}

func TestDecideNameReplyListsAllCourses(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	lead := models.Lead{Phone: "2348012345678", Status: models.StatusAwaitingName}

	d := e.Decide(lead, "Jane")

	if !strings.Contains(d.Reply, "Nice to meet you, *Jane*") {
		t.Errorf("menu should greet by name, got %q", d.Reply)
	}
	for _, entry := range cat.Entries() {
		if !strings.Contains(d.Reply, entry.Name) {
			t.Errorf("menu missing course %q:\n%s", entry.Name, d.Reply)
		}
	}
}

// Scenario: a menu digit resolves to the Nth catalog entry and the reply
// carries that course's details verbatim from the catalog.
func TestDecideCourseSelection(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	lead := models.Lead{Phone: "2348012345678", Name: "Jane", Status: models.StatusAwaitingCourse}

	d := e.Decide(lead, "2")

	second, _ := cat.NameAt(2)
	if d.Updates.Course == nil || *d.Updates.Course != second {
		t.Fatalf("expected course %q, got %+v", second, d.Updates.Course)
	}
	if d.Updates.Status == nil || *d.Updates.Status != models.StatusMessageSent {
		t.Errorf("expected transition to message-sent, got %+v", d.Updates.Status)
	}
	info, _ := cat.Lookup(second)
	for _, substr := range []string{info.Price, info.Duration, info.Delivery, info.URL} {
		if !strings.Contains(d.Reply, substr) {
			t.Errorf("course detail reply missing %q:\n%s", substr, d.Reply)
		}
	}
	if d.Updates.LastResponse == nil || *d.Updates.LastResponse != "2" {
		t.Errorf("expected last response recorded, got %+v", d.Updates.LastResponse)
	}
}

// Only inputs that are exactly a valid menu digit assign a course; everything
// else re-prompts without a state change.
func TestDecideCourseSelectionRejectsInvalidInput(t *testing.T) {
	e := newTestEngine()

	for _, body := range []string{"7", "0", "12", "two", "I want fullstack", ""} {
		t.Run(body, func(t *testing.T) {
			lead := models.Lead{Phone: "2348012345678", Name: "Jane", Status: models.StatusAwaitingCourse}
			d := e.Decide(lead, body)

			if d.Updates.Course != nil {
				t.Errorf("no course should be assigned for %q, got %q", body, *d.Updates.Course)
			}
			if d.Updates.Status != nil {
				t.Errorf("no status change expected for %q, got %q", body, *d.Updates.Status)
			}
			if !strings.Contains(d.Reply, "course number (1-6)") {
				t.Errorf("expected re-prompt, got %q", d.Reply)
			}
		})
	}
}

// Scenario: a pricing question quotes exactly the chosen course's price.
func TestDecidePricingQuestion(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	course, _ := cat.NameAt(1)
	info, _ := cat.Lookup(course)
	lead := models.Lead{Phone: "2348012345678", Name: "Jane", Course: course, Status: models.StatusMessageSent}

	d := e.Decide(lead, "how much does it cost")

	if !strings.Contains(d.Reply, info.Price) {
		t.Errorf("pricing reply missing price %q:\n%s", info.Price, d.Reply)
	}
	if d.Updates.Status == nil || *d.Updates.Status != models.StatusAskedPricing {
		t.Errorf("expected transition to asked-pricing, got %+v", d.Updates.Status)
	}
}

func TestDecideIntentBranches(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	course, _ := cat.NameAt(3)
	info, _ := cat.Lookup(course)

	tests := []struct {
		name        string
		body        string
		status      models.LeadStatus
		replySubstr string
	}{
		{name: "wants more info", body: "tell me more", status: models.StatusInterestedDetailsSent, replySubstr: info.URL},
		{name: "declines for now", body: "not now", status: models.StatusNotInterestedNow, replySubstr: CoursesOverviewURL},
		{name: "payment plan", body: "do you have a payment plan", status: models.StatusAskedPaymentPlan, replySubstr: "payment plans"},
		{name: "installment", body: "can I pay by installment", status: models.StatusAskedInstallment, replySubstr: InstallmentSignupURL},
		{name: "declines permanently", body: "not interested", status: models.StatusNotInterestedPermanently, replySubstr: "wish you all the best"},
		{name: "fallback", body: "when do classes start", status: models.StatusNeedsHumanFollowup, replySubstr: "Our team is here to help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := models.Lead{Phone: "2348012345678", Name: "Jane", Course: course, Status: models.StatusMessageSent}
			d := e.Decide(lead, tt.body)

			if d.Updates.Status == nil || *d.Updates.Status != tt.status {
				t.Errorf("expected status %q, got %+v", tt.status, d.Updates.Status)
			}
			if !strings.Contains(d.Reply, tt.replySubstr) {
				t.Errorf("reply missing %q:\n%s", tt.replySubstr, d.Reply)
			}
			if d.Updates.LastResponse == nil || *d.Updates.LastResponse != tt.body {
				t.Errorf("expected last response %q, got %+v", tt.body, d.Updates.LastResponse)
			}
		})
	}
}

// Scenario: after a permanent decline a further message yields the
// human-followup fallback, never a repeated farewell.
func TestDecideAfterPermanentDecline(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	course, _ := cat.NameAt(1)
	lead := models.Lead{
		Phone:  "2348012345678",
		Name:   "Jane",
		Course: course,
		Status: models.StatusNotInterestedPermanently,
	}

	d := e.Decide(lead, "actually, not interested")

	if strings.Contains(d.Reply, "wish you all the best") {
		t.Errorf("farewell must not repeat, got %q", d.Reply)
	}
	if !strings.Contains(d.Reply, "Our team is here to help") {
		t.Errorf("expected human-followup reply, got %q", d.Reply)
	}
	if d.Updates.Status == nil || *d.Updates.Status != models.StatusNeedsHumanFollowup {
		t.Errorf("expected transition to needs-human-followup, got %+v", d.Updates.Status)
	}
}

// Decide is a pure function: the same snapshot and message always produce
// the same decision.
func TestDecideIsIdempotent(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	course, _ := cat.NameAt(2)

	leads := []models.Lead{
		{Phone: "2348012345678", Status: models.StatusNew},
		{Phone: "2348012345678", Status: models.StatusAwaitingName},
		{Phone: "2348012345678", Name: "Jane", Status: models.StatusAwaitingCourse},
		{Phone: "2348012345678", Name: "Jane", Course: course, Status: models.StatusMessageSent},
	}
	bodies := []string{"Hi", "Jane", "2", "what's the fee?"}

	for i, lead := range leads {
		first := e.Decide(lead, bodies[i])
		second := e.Decide(lead, bodies[i])
		if first.Reply != second.Reply {
			t.Errorf("replies differ for lead %d: %q vs %q", i, first.Reply, second.Reply)
		}
		if !reflect.DeepEqual(first.Updates, second.Updates) {
			t.Errorf("updates differ for lead %d", i)
		}
	}
}

// A lead whose stored course no longer resolves against the catalog gets a
// re-prompt instead of an error.
func TestDecideUnresolvableCourseReprompts(t *testing.T) {
	e := newTestEngine()
	lead := models.Lead{Phone: "2348012345678", Name: "Jane", Course: "Retired Course", Status: models.StatusMessageSent}

	d := e.Decide(lead, "what's the price")

	if !strings.Contains(d.Reply, "course number (1-6)") {
		t.Errorf("expected re-prompt, got %q", d.Reply)
	}
	if d.Updates.Status != nil {
		t.Errorf("no status change expected, got %q", *d.Updates.Status)
	}
}

func TestBroadcast(t *testing.T) {
	e := newTestEngine()
	cat := catalog.Default()
	course, _ := cat.NameAt(4)
	info, _ := cat.Lookup(course)
	lead := models.Lead{Phone: "2348012345678", Name: "Ada", Course: course, Status: models.StatusNewImportPending}

	d, ok := e.Broadcast(lead)
	if !ok {
		t.Fatal("expected broadcast decision for resolvable course")
	}
	if !strings.Contains(d.Reply, "Hey Ada") {
		t.Errorf("broadcast should greet by name, got %q", d.Reply)
	}
	for _, substr := range []string{info.Price, info.Duration, info.Delivery, info.URL} {
		if !strings.Contains(d.Reply, substr) {
			t.Errorf("broadcast missing %q:\n%s", substr, d.Reply)
		}
	}
	if d.Updates.Status == nil || *d.Updates.Status != models.StatusMessageSent {
		t.Errorf("expected transition to message-sent, got %+v", d.Updates.Status)
	}
}

func TestBroadcastSkipsUnresolvableCourse(t *testing.T) {
	e := newTestEngine()
	lead := models.Lead{Phone: "2348012345678", Name: "Ada", Course: "Retired Course", Status: models.StatusNewImportPending}

	if _, ok := e.Broadcast(lead); ok {
		t.Error("expected broadcast skip for unresolvable course")
	}
}

// With onboarding disabled the name/course prefix stages are skipped and
// intent handling applies directly.
func TestDecideOnboardingDisabled(t *testing.T) {
	e := newTestEngine(WithOnboardingDisabled())
	cat := catalog.Default()
	course, _ := cat.NameAt(1)
	info, _ := cat.Lookup(course)
	lead := models.Lead{Phone: "2348012345678", Name: "Ada", Course: course, Status: models.StatusMessageSent}

	d := e.Decide(lead, "interested")

	if d.Updates.Status == nil || *d.Updates.Status != models.StatusInterestedDetailsSent {
		t.Errorf("expected transition to interested-details-sent, got %+v", d.Updates.Status)
	}
	if !strings.Contains(d.Reply, info.URL) {
		t.Errorf("reply missing enrollment URL:\n%s", d.Reply)
	}
}
