package note

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/notification"
)

type mockNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*ClinicalNote
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[uuid.UUID]*ClinicalNote)}
}

func (m *mockNoteRepo) Create(_ context.Context, n *ClinicalNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*ClinicalNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, errors.New("note not found")
	}
	return n, nil
}

func (m *mockNoteRepo) Update(_ context.Context, n *ClinicalNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) ListByClinician(_ context.Context, clinicianID uuid.UUID, _, _ int) ([]*ClinicalNote, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ClinicalNote
	for _, n := range m.notes {
		if n.ClinicianID == clinicianID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *mockNoteRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]*ClinicalNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ClinicalNote
	for _, n := range m.notes {
		if n.Status == StatusDraft && n.DueDate.Before(cutoff) {
			out = append(out, n)
		}
	}
	return out, nil
}

type evalCall struct {
	event    string
	entityID string
	data     map[string]interface{}
}

type mockEvaluator struct {
	mu    sync.Mutex
	calls []evalCall
	err   error
}

func (m *mockEvaluator) Evaluate(_ context.Context, event, entityID string, data map[string]interface{}) (*notification.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, evalCall{event: event, entityID: entityID, data: data})
	if m.err != nil {
		return nil, m.err
	}
	return &notification.Result{Processed: 1, Sent: 1}, nil
}

func TestCreateNoteDefaultsDueDate(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewService(repo, &mockEvaluator{}, 3, zerolog.Nop())

	session := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	n := &ClinicalNote{
		ClientID:    uuid.New(),
		ClinicianID: uuid.New(),
		NoteType:    "Progress Note",
		SessionDate: session,
	}
	if err := svc.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Status != StatusDraft {
		t.Errorf("status %q, want Draft", n.Status)
	}
	want := session.AddDate(0, 0, 3)
	if !n.DueDate.Equal(want) {
		t.Errorf("due date %v, want %v", n.DueDate, want)
	}
}

func TestSignNote(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewService(repo, &mockEvaluator{}, 3, zerolog.Nop())

	n := &ClinicalNote{
		ClientID:    uuid.New(),
		ClinicianID: uuid.New(),
		NoteType:    "Progress Note",
	}
	if err := svc.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("create: %v", err)
	}

	signed, err := svc.SignNote(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed.Status != StatusSigned || signed.SignedAt == nil {
		t.Error("note should be Signed with a timestamp")
	}

	if _, err := svc.SignNote(context.Background(), n.ID); err == nil {
		t.Error("signing twice should fail")
	}
}

func TestScanOverdueRaisesEvents(t *testing.T) {
	repo := newMockNoteRepo()
	eval := &mockEvaluator{}
	svc := NewService(repo, eval, 3, zerolog.Nop())

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	clientID, clinID := uuid.New(), uuid.New()
	overdue := &ClinicalNote{
		ClientID: clientID, ClinicianID: clinID,
		NoteType: "Progress Note", Status: StatusDraft,
		SessionDate: now.AddDate(0, 0, -10),
		DueDate:     now.AddDate(0, 0, -5),
	}
	current := &ClinicalNote{
		ClientID: clientID, ClinicianID: clinID,
		NoteType: "Progress Note", Status: StatusDraft,
		SessionDate: now,
		DueDate:     now.AddDate(0, 0, 3),
	}
	signed := &ClinicalNote{
		ClientID: clientID, ClinicianID: clinID,
		NoteType: "Progress Note", Status: StatusSigned,
		SessionDate: now.AddDate(0, 0, -10),
		DueDate:     now.AddDate(0, 0, -5),
	}
	for _, n := range []*ClinicalNote{overdue, current, signed} {
		if err := repo.Create(context.Background(), n); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := svc.ScanOverdue(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(eval.calls) != 1 {
		t.Fatalf("got %d evaluations, want 1", len(eval.calls))
	}
	call := eval.calls[0]
	if call.event != "Note Overdue" {
		t.Errorf("event %q", call.event)
	}
	if call.entityID != overdue.ID.String() {
		t.Errorf("entity id %q", call.entityID)
	}
	if call.data["days_overdue"] != 5 {
		t.Errorf("days_overdue %v, want 5", call.data["days_overdue"])
	}
	if call.data["clinician_id"] != clinID.String() {
		t.Errorf("clinician_id %v", call.data["clinician_id"])
	}
}

func TestScanOverdueEvaluatorFailureDoesNotAbort(t *testing.T) {
	repo := newMockNoteRepo()
	eval := &mockEvaluator{err: errors.New("pipeline down")}
	svc := NewService(repo, eval, 3, zerolog.Nop())

	now := time.Now()
	for i := 0; i < 2; i++ {
		n := &ClinicalNote{
			ClientID: uuid.New(), ClinicianID: uuid.New(),
			NoteType: "Progress Note", Status: StatusDraft,
			SessionDate: now.AddDate(0, 0, -10),
			DueDate:     now.AddDate(0, 0, -5),
		}
		if err := repo.Create(context.Background(), n); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := svc.ScanOverdue(context.Background()); err != nil {
		t.Fatalf("scan should not fail: %v", err)
	}
	if len(eval.calls) != 2 {
		t.Errorf("got %d evaluations, want all overdue notes attempted", len(eval.calls))
	}
}
