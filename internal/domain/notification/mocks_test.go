package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// mockRuleRepo is an in-memory RuleRepository. ClaimFiring applies the same
// gate the SQL implementation does, under a mutex.
type mockRuleRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]*Rule

	claimErr error
	listErr  error
}

func newMockRuleRepo(rules ...*Rule) *mockRuleRepo {
	m := &mockRuleRepo{rules: make(map[uuid.UUID]*Rule)}
	for _, r := range rules {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		m.rules[r.ID] = r
	}
	return m
}

func (m *mockRuleRepo) Create(_ context.Context, r *Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	m.rules[r.ID] = r
	return nil
}

func (m *mockRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return nil, errors.New("rule not found")
	}
	return r, nil
}

func (m *mockRuleRepo) Update(_ context.Context, r *Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[r.ID]; !ok {
		return errors.New("rule not found")
	}
	m.rules[r.ID] = r
	return nil
}

func (m *mockRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, id)
	return nil
}

func (m *mockRuleRepo) List(_ context.Context, limit, offset int) ([]*Rule, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*Rule
	for _, r := range m.rules {
		all = append(all, r)
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockRuleRepo) ListActiveByEvent(_ context.Context, event string) ([]*Rule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Rule
	for _, r := range m.rules {
		if r.IsActive && r.TriggerEvent == event {
			// Copy so callers never share counter state with ClaimFiring.
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRuleRepo) ClaimFiring(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	if m.claimErr != nil {
		return false, m.claimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok || !r.IsActive || r.gateBlocked() {
		return false, nil
	}
	r.ExecutionCount++
	r.LastExecutedAt = &now
	return true, nil
}

// mockLogRepo records created log rows.
type mockLogRepo struct {
	mu        sync.Mutex
	created   []*Log
	createErr error
}

func (m *mockLogRepo) Create(_ context.Context, l *Log) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	m.created = append(m.created, l)
	return nil
}

func (m *mockLogRepo) rows() []*Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Log, len(m.created))
	copy(out, m.created)
	return out
}

func (m *mockLogRepo) ListByRule(_ context.Context, ruleID uuid.UUID, _, _ int) ([]*Log, int, error) {
	var out []*Log
	for _, l := range m.rows() {
		if l.RuleID == ruleID {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}

func (m *mockLogRepo) List(_ context.Context, _, _ int) ([]*Log, int, error) {
	rows := m.rows()
	return rows, len(rows), nil
}

// mockDirectory serves recipients from fixed maps.
type mockDirectory struct {
	users   map[uuid.UUID]*Recipient
	roles   map[string][]*Recipient
	clients map[uuid.UUID]*Recipient
}

func (m *mockDirectory) UserByID(_ context.Context, id uuid.UUID) (*Recipient, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s not found", id)
}

func (m *mockDirectory) UsersByRole(_ context.Context, role string) ([]*Recipient, error) {
	return m.roles[role], nil
}

func (m *mockDirectory) ClientByID(_ context.Context, id uuid.UUID) (*Recipient, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("client %s not found", id)
}

// mockAlertSink records dashboard alerts.
type mockAlertSink struct {
	mu         sync.Mutex
	alerts     []mockAlertCall
	shouldFail bool
}

type mockAlertCall struct {
	RecipientID   uuid.UUID
	RecipientType string
	Title         string
	Message       string
}

func (m *mockAlertSink) CreateAlert(_ context.Context, recipientID uuid.UUID, recipientType, _, title, message string) error {
	if m.shouldFail {
		return errors.New("alert store unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, mockAlertCall{
		RecipientID: recipientID, RecipientType: recipientType,
		Title: title, Message: message,
	})
	return nil
}

func (m *mockAlertSink) calls() []mockAlertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mockAlertCall, len(m.alerts))
	copy(out, m.alerts)
	return out
}

func strPtr(s string) *string { return &s }
