// Package engine implements the lead conversation state machine for UniBot.
//
// The engine is pure: Decide maps the current lead snapshot plus an inbound
// message to an outbound reply and a set of field updates, without touching
// the store or the transport. The dispatcher applies the updates and sends
// the reply, so the decision logic stays testable in isolation.
//
// Conversation stages form a fixed funnel: name collection gates course
// collection, which gates free-form intent handling. A message that would
// otherwise classify as an intent (e.g. "1") is interpreted as a menu
// selection while the lead has no course yet.
package engine

import (
	"log/slog"

	"github.com/univelcity/unibot/internal/catalog"
	"github.com/univelcity/unibot/internal/intent"
	"github.com/univelcity/unibot/internal/models"
)

// Decision is the outcome of one conversation turn: the reply to send and the
// lead field mutations to persist.
type Decision struct {
	Reply   string
	Updates models.FieldUpdates
}

// Opts holds configuration options for the conversation engine.
type Opts struct {
	DisableOnboarding bool
}

// Option defines a configuration option for the conversation engine.
type Option func(*Opts)

// WithOnboardingDisabled skips the collect-name and collect-course prefix
// stages. In this mode the engine only reacts to leads that already carry a
// name and course (e.g. imported rows), mirroring the broadcast-only
// deployment.
func WithOnboardingDisabled() Option {
	return func(o *Opts) {
		o.DisableOnboarding = true
	}
}

// Engine decides conversation turns against a fixed course catalog.
type Engine struct {
	catalog    *catalog.Catalog
	classifier *intent.Classifier
	onboarding bool
}

// New creates a conversation engine over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Engine created", "courses", cat.Len(), "onboarding", !cfg.DisableOnboarding)
	return &Engine{
		catalog:    cat,
		classifier: intent.NewClassifier(cat.Len()),
		onboarding: !cfg.DisableOnboarding,
	}
}

// OnboardingEnabled reports whether the engine enrolls unknown contacts.
func (e *Engine) OnboardingEnabled() bool {
	return e.onboarding
}

// Greet produces the first-contact turn for a freshly created lead: the
// welcome prompt and the transition to awaiting-name. The triggering message
// body is recorded but deliberately not captured as a name.
func (e *Engine) Greet(body string) Decision {
	return Decision{
		Reply: welcomeMessage(),
		Updates: models.FieldUpdates{
			Status:       models.StatusPtr(models.StatusAwaitingName),
			LastResponse: models.StrPtr(body),
		},
	}
}

// Decide runs one reactive conversation turn. It is a pure function of the
// lead snapshot and the inbound message body: calling it twice with the same
// inputs yields the same decision.
func (e *Engine) Decide(lead models.Lead, body string) Decision {
	if e.onboarding {
		if lead.Status == models.StatusNew {
			return e.Greet(body)
		}
		if lead.Name == "" {
			return e.captureName(body)
		}
		if lead.Course == "" {
			return e.captureCourse(body)
		}
	}
	return e.handleIntent(lead, body)
}

// captureName takes the message body verbatim as the lead's name and emits
// the numbered course menu. The body becomes the name, not a logged response.
func (e *Engine) captureName(body string) Decision {
	return Decision{
		Reply: menuMessage(body, e.catalog),
		Updates: models.FieldUpdates{
			Name:   models.StrPtr(body),
			Status: models.StatusPtr(models.StatusAwaitingCourse),
		},
	}
}

// captureCourse resolves a menu digit to the Nth catalog entry, or re-prompts.
func (e *Engine) captureCourse(body string) Decision {
	n, ok := e.classifier.CourseNumber(body)
	if !ok {
		return Decision{
			Reply:   repromptMessage(e.catalog.Len()),
			Updates: models.FieldUpdates{LastResponse: models.StrPtr(body)},
		}
	}
	course, _ := e.catalog.NameAt(n)
	info, _ := e.catalog.Lookup(course)
	return Decision{
		Reply: courseSelectedMessage(course, info),
		Updates: models.FieldUpdates{
			Course:       models.StrPtr(course),
			Status:       models.StatusPtr(models.StatusMessageSent),
			LastResponse: models.StrPtr(body),
		},
	}
}

// handleIntent branches on the classified intent once name and course are
// known. Leads that declined permanently are routed to the human-followup
// reply rather than a repeated farewell.
func (e *Engine) handleIntent(lead models.Lead, body string) Decision {
	updates := models.FieldUpdates{LastResponse: models.StrPtr(body)}

	if lead.Status == models.StatusNotInterestedPermanently {
		updates.Status = models.StatusPtr(models.StatusNeedsHumanFollowup)
		return Decision{Reply: needsHumanMessage(lead.Name), Updates: updates}
	}

	info, resolved := e.catalog.Lookup(lead.Course)
	if !resolved {
		// Course no longer resolves against the catalog (e.g. renamed
		// externally). Recoverable: re-prompt instead of failing the turn.
		slog.Warn("Engine could not resolve course, re-prompting", "phone", lead.Phone, "course", lead.Course)
		return Decision{Reply: repromptMessage(e.catalog.Len()), Updates: updates}
	}

	switch e.classifier.Classify(body) {
	case intent.WantsMoreInfo:
		updates.Status = models.StatusPtr(models.StatusInterestedDetailsSent)
		return Decision{Reply: moreInfoMessage(lead.Name, info), Updates: updates}
	case intent.AsksPrice:
		updates.Status = models.StatusPtr(models.StatusAskedPricing)
		return Decision{Reply: priceMessage(lead.Course, info), Updates: updates}
	case intent.DeclinesForNow:
		updates.Status = models.StatusPtr(models.StatusNotInterestedNow)
		return Decision{Reply: deferralMessage(lead.Name), Updates: updates}
	case intent.AsksPaymentPlan:
		updates.Status = models.StatusPtr(models.StatusAskedPaymentPlan)
		return Decision{Reply: paymentPlanMessage(), Updates: updates}
	case intent.AsksInstallment:
		updates.Status = models.StatusPtr(models.StatusAskedInstallment)
		return Decision{Reply: installmentMessage(), Updates: updates}
	case intent.DeclinesPermanently:
		updates.Status = models.StatusPtr(models.StatusNotInterestedPermanently)
		return Decision{Reply: farewellMessage(lead.Name), Updates: updates}
	default:
		updates.Status = models.StatusPtr(models.StatusNeedsHumanFollowup)
		return Decision{Reply: needsHumanMessage(lead.Name), Updates: updates}
	}
}

// Broadcast produces the once-per-cycle first outreach for an imported lead
// awaiting contact. It returns ok=false when the lead's course does not
// resolve against the catalog; such leads are skipped, not retried.
func (e *Engine) Broadcast(lead models.Lead) (Decision, bool) {
	info, resolved := e.catalog.Lookup(lead.Course)
	if !resolved {
		return Decision{}, false
	}
	return Decision{
		Reply: broadcastMessage(lead.Name, lead.Course, info),
		Updates: models.FieldUpdates{
			Status: models.StatusPtr(models.StatusMessageSent),
		},
	}, true
}
