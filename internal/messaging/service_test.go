package messaging

import (
	"context"
	"testing"

	"github.com/univelcity/unibot/internal/models"
	"github.com/univelcity/unibot/internal/twiliowhatsapp"
	"github.com/univelcity/unibot/internal/whatsapp"
)

func TestValidateAndCanonicalizeRecipient(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())

	tests := []struct {
		name      string
		recipient string
		expected  string
		wantErr   bool
	}{
		{name: "bare digits", recipient: "2348012345678", expected: "2348012345678"},
		{name: "plus prefix", recipient: "+2348012345678", expected: "2348012345678"},
		{name: "formatted number", recipient: "+234 (801) 234-5678", expected: "2348012345678"},
		{name: "jid suffix", recipient: "2348012345678@s.whatsapp.net", expected: "2348012345678"},
		{name: "empty", recipient: "", wantErr: true},
		{name: "no digits", recipient: "abc", wantErr: true},
		{name: "too short", recipient: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateAndCanonicalizeRecipient(tt.recipient)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.recipient, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.recipient, err)
			}
			if got != tt.expected {
				t.Errorf("canonicalized %q = %q, want %q", tt.recipient, got, tt.expected)
			}
		})
	}
}

func TestWhatsAppServiceSendEmitsReceipt(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())

	if err := svc.SendMessage(context.Background(), "2348012345678", "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	select {
	case receipt := <-svc.Receipts():
		if receipt.To != "2348012345678" || receipt.Status != models.StatusTypeSent {
			t.Errorf("unexpected receipt: %+v", receipt)
		}
	default:
		t.Error("expected a sent receipt")
	}
}

func TestTwilioServiceSend(t *testing.T) {
	mock := twiliowhatsapp.NewMockClient()
	svc := NewTwilioService(mock)

	if err := svc.SendMessage(context.Background(), "+234 801 234 5678", "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if len(mock.SentMessages) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(mock.SentMessages))
	}
	if mock.SentMessages[0].To != "2348012345678" {
		t.Errorf("expected canonicalized recipient, got %q", mock.SentMessages[0].To)
	}
}

func TestTwilioServiceStoppedSendFails(t *testing.T) {
	svc := NewTwilioService(twiliowhatsapp.NewMockClient())

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := svc.SendMessage(context.Background(), "2348012345678", "hello"); err != ErrServiceStopped {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
	// Stop is idempotent.
	if err := svc.Stop(); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}
