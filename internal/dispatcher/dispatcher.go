// Package dispatcher orchestrates UniBot's processing cycles.
//
// One dispatcher owns the per-cycle lead directory, the once-per-cycle
// broadcast pass over imported leads, and the reactive loop consuming inbound
// messages from the transport. The subscription to the transport's response
// channel is created once and lives for the process lifetime; refresh cycles
// only swap the directory snapshot underneath it, so handlers are never
// registered twice.
//
// No error here is fatal: send and store failures are logged at the turn
// boundary and the loop keeps serving.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/univelcity/unibot/internal/directory"
	"github.com/univelcity/unibot/internal/engine"
	"github.com/univelcity/unibot/internal/messaging"
	"github.com/univelcity/unibot/internal/models"
	"github.com/univelcity/unibot/internal/store"
)

// Dispatcher wires the store, the transport and the conversation engine
// together.
type Dispatcher struct {
	store  store.Store
	svc    messaging.Service
	engine *engine.Engine

	// dirMu guards the directory pointer swap on refresh.
	dirMu sync.RWMutex
	dir   *directory.Directory

	// phoneLocks serializes the broadcast pass and reactive handling per
	// phone number.
	phoneLocks sync.Map
}

// New creates a dispatcher with an empty directory. Call RunCycle to load
// leads and Start to begin consuming inbound messages.
func New(st store.Store, svc messaging.Service, eng *engine.Engine) *Dispatcher {
	return &Dispatcher{
		store:  st,
		svc:    svc,
		engine: eng,
		dir:    directory.Empty(),
	}
}

// Directory returns the current snapshot.
func (d *Dispatcher) Directory() *directory.Directory {
	d.dirMu.RLock()
	defer d.dirMu.RUnlock()
	return d.dir
}

// phoneLock returns the mutex serializing work for one phone number.
func (d *Dispatcher) phoneLock(phone string) *sync.Mutex {
	lock, _ := d.phoneLocks.LoadOrStore(phone, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// RefreshDirectory rebuilds the lead snapshot from the store. A read failure
// degrades to an empty directory (fail-open): inbound messages keep being
// served and unknown phones fall back to new-lead onboarding.
func (d *Dispatcher) RefreshDirectory(ctx context.Context) {
	leads, err := d.store.LoadLeads()
	if err != nil {
		slog.Error("Dispatcher directory refresh failed, degrading to empty directory", "error", err)
		d.swapDirectory(directory.Empty())
		return
	}
	dir := directory.FromLeads(leads)
	d.swapDirectory(dir)
	slog.Info("Dispatcher directory refreshed", "leads", dir.Len())
}

func (d *Dispatcher) swapDirectory(dir *directory.Directory) {
	d.dirMu.Lock()
	d.dir = dir
	d.dirMu.Unlock()
}

// RunCycle executes one refresh cycle: reload the directory, then run the
// broadcast pass over imported leads awaiting first contact.
func (d *Dispatcher) RunCycle(ctx context.Context) {
	slog.Debug("Dispatcher cycle starting")
	d.RefreshDirectory(ctx)
	d.broadcastPass(ctx)
	slog.Debug("Dispatcher cycle finished")
}

// broadcastPass sends the first outreach to every lead imported externally
// and still awaiting contact. Leads whose course does not resolve against the
// catalog are skipped and logged, not retried.
func (d *Dispatcher) broadcastPass(ctx context.Context) {
	var sent, skipped int
	for _, lead := range d.Directory().Leads() {
		if lead.Status != models.StatusNewImportPending {
			continue
		}

		lock := d.phoneLock(lead.Phone)
		lock.Lock()
		decision, ok := d.engine.Broadcast(*lead)
		if !ok {
			slog.Warn("Dispatcher broadcast skipping lead with unresolvable course", "phone", lead.Phone, "course", lead.Course)
			skipped++
			lock.Unlock()
			continue
		}

		if err := d.svc.SendMessage(ctx, lead.Phone, decision.Reply); err != nil {
			// Status stays at new-import-pending; the next cycle retries.
			slog.Error("Dispatcher broadcast send failed", "error", err, "phone", lead.Phone)
			lock.Unlock()
			continue
		}
		d.persistUpdates(lead, decision.Updates)
		sent++
		lock.Unlock()
	}
	if sent > 0 || skipped > 0 {
		slog.Info("Dispatcher broadcast pass done", "sent", sent, "skipped", skipped)
	}
}

// Start begins consuming inbound responses and receipts from the transport.
// It launches the long-lived loops and returns immediately.
func (d *Dispatcher) Start(ctx context.Context) {
	slog.Info("Dispatcher starting response loop")

	go func() {
		defer slog.Info("Dispatcher response loop stopped")
		for {
			select {
			case response, ok := <-d.svc.Responses():
				if !ok {
					slog.Debug("Dispatcher responses channel closed")
					return
				}
				d.HandleResponse(ctx, response)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case receipt, ok := <-d.svc.Receipts():
				if !ok {
					return
				}
				if err := d.store.AddReceipt(receipt); err != nil {
					slog.Error("Dispatcher failed to record receipt", "error", err, "to", receipt.To)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// HandleResponse runs one reactive conversation turn to completion: resolve
// the lead (creating one on first contact when onboarding is enabled), decide
// via the engine, persist field updates and send the reply.
func (d *Dispatcher) HandleResponse(ctx context.Context, response models.Response) {
	from, err := d.svc.ValidateAndCanonicalizeRecipient(response.From)
	if err != nil {
		slog.Error("Dispatcher dropping response with invalid sender", "error", err, "from", response.From)
		return
	}

	lock := d.phoneLock(from)
	lock.Lock()
	defer lock.Unlock()

	// Audit trail of raw inbound messages; failures never block the turn.
	if err := d.store.AddResponse(models.Response{From: from, Body: response.Body, Time: response.Time}); err != nil {
		slog.Error("Dispatcher failed to record response", "error", err, "from", from)
	}

	lead := d.Directory().Find(from)
	if lead == nil {
		if !d.engine.OnboardingEnabled() {
			slog.Debug("Dispatcher ignoring message from unknown phone (onboarding disabled)", "from", from)
			return
		}
		lead = d.createLead(from)
	}

	decision := d.engine.Decide(*lead, response.Body)

	// Non-status updates are persisted before the send; the status update is
	// applied only after a successful send, so a transport failure leaves the
	// status at its pre-send value.
	statusOnly := models.FieldUpdates{Status: decision.Updates.Status}
	preSend := decision.Updates
	preSend.Status = nil
	d.persistUpdates(lead, preSend)

	if err := d.svc.SendMessage(ctx, from, decision.Reply); err != nil {
		slog.Error("Dispatcher reply send failed", "error", err, "phone", from)
		return
	}
	d.persistUpdates(lead, statusOnly)
}

// createLead enrolls an unknown phone as a fresh bot-sourced lead. A store
// failure is logged and swallowed; the in-memory lead still joins the
// snapshot so the conversation can proceed, and the next refresh reconciles.
func (d *Dispatcher) createLead(phone string) *models.Lead {
	lead := models.Lead{
		Phone:  phone,
		Status: models.StatusNew,
		Source: models.SourceBot,
	}
	stored, err := d.store.AddLead(lead)
	if err != nil {
		slog.Error("Dispatcher failed to persist new lead", "error", err, "phone", phone)
		stored = lead
	} else {
		slog.Info("Dispatcher created new lead", "phone", phone, "id", stored.ID)
	}
	d.Directory().Add(&stored)
	return &stored
}

// persistUpdates writes the field updates to the store and mirrors them onto
// the snapshot lead. A write failure is logged and swallowed: the in-memory
// lead stays updated and the next refresh cycle's reload is the recovery
// point.
func (d *Dispatcher) persistUpdates(lead *models.Lead, updates models.FieldUpdates) {
	if updates.IsEmpty() {
		return
	}
	if err := d.store.UpdateLead(lead.Phone, updates); err != nil {
		slog.Error("Dispatcher lead update write failed", "error", err, "phone", lead.Phone)
	}
	updates.Apply(lead)
}
