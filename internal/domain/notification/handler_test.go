package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/mail"
)

func newTestHandler(rules *mockRuleRepo, dir Directory) *Handler {
	if dir == nil {
		dir = &mockDirectory{}
	}
	log := zerolog.Nop()
	logs := &mockLogRepo{}
	dispatcher := NewDispatcher(logs, &mail.MockEmailSender{}, &mockAlertSink{}, log)
	evaluator := NewEvaluator(rules, dir, dispatcher, log)
	return NewHandler(NewService(rules, logs), evaluator)
}

func doRequest(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestEvaluateEndpoint(t *testing.T) {
	dir, userID := specificUserDir()
	rule := emailRule(userID)
	rule.Conditions = nil
	h := newTestHandler(newMockRuleRepo(rule), dir)

	body := `{"trigger_event":"Note Overdue","entity_id":"note-1","entity_data":{"client_name":"Sam","days_overdue":5}}`
	rec := doRequest(t, h.Evaluate, http.MethodPost, "/api/v1/notifications/evaluate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message   string `json:"message"`
		Processed int    `json:"processed"`
		Sent      int    `json:"sent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Notifications processed" {
		t.Errorf("message %q", resp.Message)
	}
	if resp.Processed != 1 || resp.Sent != 1 {
		t.Errorf("got processed=%d sent=%d, want 1/1", resp.Processed, resp.Sent)
	}
}

func TestEvaluateEndpointMissingTriggerEvent(t *testing.T) {
	h := newTestHandler(newMockRuleRepo(), nil)
	rec := doRequest(t, h.Evaluate, http.MethodPost, "/api/v1/notifications/evaluate", `{"entity_data":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestEvaluateEndpointRuleLoadFailure(t *testing.T) {
	rules := newMockRuleRepo()
	rules.listErr = errors.New("db down")
	h := newTestHandler(rules, nil)

	rec := doRequest(t, h.Evaluate, http.MethodPost, "/api/v1/notifications/evaluate",
		`{"trigger_event":"Note Overdue","entity_data":{}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("error body should carry the failure message")
	}
}

func TestCreateRuleEndpoint(t *testing.T) {
	rules := newMockRuleRepo()
	h := newTestHandler(rules, nil)

	body := `{
		"rule_name": "Overdue notes",
		"rule_type": "Email",
		"trigger_event": "Note Overdue",
		"recipient_type": "Clinician",
		"message_template": "Note is {days_overdue} days overdue",
		"conditions": [{"field": "days_overdue", "operator": "greater_than", "value": 3}],
		"is_active": true
	}`
	rec := doRequest(t, h.CreateRule, http.MethodPost, "/api/v1/notification-rules", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, _, err := rules.List(context.Background(), 10, 0)
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored %d rules, err %v", len(stored), err)
	}
	if stored[0].TimingType != TimingImmediate {
		t.Errorf("timing should default to Immediate, got %q", stored[0].TimingType)
	}
	if len(stored[0].Conditions) != 1 || stored[0].Conditions[0].Operator != OpGreaterThan {
		t.Error("conditions should round-trip through the request body")
	}
}

func TestCreateRuleEndpointRejectsInvalid(t *testing.T) {
	h := newTestHandler(newMockRuleRepo(), nil)
	rec := doRequest(t, h.CreateRule, http.MethodPost, "/api/v1/notification-rules",
		`{"rule_name":"x","rule_type":"Carrier Pigeon","trigger_event":"e","recipient_type":"Clinician","message_template":"m"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestGetRuleEndpointNotFound(t *testing.T) {
	h := newTestHandler(newMockRuleRepo(), nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2f0c51a2-52bb-44b0-a0f5-6b4b3f8f7a01")
	if err := h.GetRule(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestGetRuleEndpointBadID(t *testing.T) {
	h := newTestHandler(newMockRuleRepo(), nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	if err := h.GetRule(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}
