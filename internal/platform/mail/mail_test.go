package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewSMTPSender(SMTPConfig{
		Host: "relay.test", Port: "587",
		From: "MentalSpace EHR <notifications@mentalspace.health>",
	})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.SendEmail(context.Background(), "clin@practice.test", "Overdue documentation", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "relay.test:587" {
		t.Errorf("addr %q", gotAddr)
	}
	if gotFrom != "notifications@mentalspace.health" {
		t.Errorf("envelope from %q, want bare address", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "clin@practice.test" {
		t.Errorf("to %v", gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{
		"From: MentalSpace EHR <notifications@mentalspace.health>\r\n",
		"To: clin@practice.test\r\n",
		"Subject: Overdue documentation\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n\r\n<p>Hi</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSMTPSenderEmptyRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "relay.test", Port: "587"})
	if err := s.SendEmail(context.Background(), "", "s", "b"); err == nil {
		t.Error("empty recipient should fail")
	}
}

func TestSMTPSenderCancelledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "relay.test", Port: "587"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Error("send should not be called with a cancelled context")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SendEmail(ctx, "a@b.test", "s", "b"); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestSMTPSenderWrapsSendError(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "relay.test", Port: "587", From: "a@b.test"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	err := s.SendEmail(context.Background(), "c@d.test", "s", "b")
	if err == nil || !strings.Contains(err.Error(), "c@d.test") {
		t.Errorf("error should name the recipient, got %v", err)
	}
}

func TestEnvelopeFrom(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Name <addr@x.test>", "addr@x.test"},
		{"addr@x.test", "addr@x.test"},
		{"Broken <addr@x.test", "Broken <addr@x.test"},
	}
	for _, tt := range tests {
		if got := envelopeFrom(tt.in); got != tt.want {
			t.Errorf("envelopeFrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMockEmailSenderRecordsCalls(t *testing.T) {
	m := &MockEmailSender{}
	if err := m.SendEmail(context.Background(), "a@b.test", "s", "b"); err != nil {
		t.Fatalf("send: %v", err)
	}
	m.ShouldFail = true
	m.FailError = "boom"
	if err := m.SendEmail(context.Background(), "c@d.test", "s2", "b2"); err == nil {
		t.Error("expected configured failure")
	}
	calls := m.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2 (failures still recorded)", len(calls))
	}
	if calls[0].To != "a@b.test" || calls[1].Subject != "s2" {
		t.Errorf("calls %+v", calls)
	}
}
