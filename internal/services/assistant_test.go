package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/helpers"
)

type fakeVertexClient struct {
	responses []dto.VertexGenerateResponse
	errs      []error
	requests  []dto.VertexGenerateRequest
}

func (f *fakeVertexClient) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return dto.VertexGenerateResponse{}, err
		}
	}
	if len(f.responses) == 0 {
		return dto.VertexGenerateResponse{}, errors.New("no responses configured")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type fakeChatStore struct {
	history []models.ChatMessage
	saved   []models.ChatMessage
}

func (f *fakeChatStore) SaveMessage(_ context.Context, _, _ string, msg models.ChatMessage) error {
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeChatStore) ListMessages(_ context.Context, _, _ string, _ int) ([]models.ChatMessage, error) {
	return f.history, nil
}

type recordingDispatcher struct {
	events []dto.Event
	err    error
}

func (r *recordingDispatcher) Dispatch(_ context.Context, _ dto.Actor, ev dto.Event) (dto.DispatchResult, error) {
	r.events = append(r.events, ev)
	if r.err != nil {
		return dto.DispatchResult{Success: false, Type: ev.Type, Error: r.err.Error()}, r.err
	}
	return dto.DispatchResult{Success: true, Type: ev.Type, EntityID: "e1"}, nil
}

type stubSummary struct {
	sum   dto.DashboardSummary
	calls int
}

func (s *stubSummary) Summary(_ context.Context, _ string) (dto.DashboardSummary, error) {
	s.calls++
	return s.sum, nil
}

type stubNotes struct {
	texts []string
}

func (s *stubNotes) CreateNote(_ context.Context, _ string, text string) (*models.Note, error) {
	s.texts = append(s.texts, text)
	return &models.Note{ID: "n1"}, nil
}

type assistantFixture struct {
	svc      *assistantService
	vertex   *fakeVertexClient
	chat     *fakeChatStore
	dispatch *recordingDispatcher
	summary  *stubSummary
	notes    *stubNotes
	sleeps   []time.Duration
}

func newAssistantFixture(vertex *fakeVertexClient) *assistantFixture {
	f := &assistantFixture{
		vertex:   vertex,
		chat:     &fakeChatStore{},
		dispatch: &recordingDispatcher{},
		summary:  &stubSummary{},
		notes:    &stubNotes{},
	}
	f.svc = NewAssistantService(AssistantDeps{
		Vertex:     vertex,
		Store:      f.chat,
		Dispatcher: f.dispatch,
		Summary:    f.summary,
		Notes:      f.notes,
		Goals:      stubList[models.SavingGoal]{items: []*models.SavingGoal{{ID: "g1", Name: "Reserva de Emergência"}}},
		Limits:     stubList[models.CategoryLimit]{items: []*models.CategoryLimit{{ID: "alimentacao", Category: "alimentacao"}}},
		Cards:      stubList[models.CreditCard]{items: []*models.CreditCard{{ID: "c1", Name: "Nubank"}}},
		TTL:        24 * time.Hour,
	})
	f.svc.clockNow = func() time.Time { return testNow }
	f.svc.sleep = func(_ context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return nil
	}
	return f
}

var userActorChat = dto.Actor{UID: "u1", Role: models.RoleUser}

func TestChatDispatchesMultipleActions(t *testing.T) {
	vertex := &fakeVertexClient{responses: []dto.VertexGenerateResponse{{Text: `{
		"reply": "Anotado!",
		"actions": [
			{"kind": "TRANSACTION", "transactionType": "EXPENSE", "description": "mercado", "amount": 120.5, "category": "alimentacao", "paymentMethod": "CARD", "cardName": "nubank"},
			{"kind": "TRANSACTION", "transactionType": "INCOME", "description": "salario", "amount": 5000, "category": "salario"},
			{"kind": "GOAL_OPERATION", "goalName": "reserva de emergencia", "amount": 200}
		]}`}}}
	f := newAssistantFixture(vertex)

	resp, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "gastei 120,50 no mercado no nubank, recebi salário e guardei 200 na reserva")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Reply != "Anotado!" {
		t.Fatalf("reply mismatch: %q", resp.Reply)
	}
	if len(f.dispatch.events) != 3 || len(resp.Results) != 3 {
		t.Fatalf("expected 3 dispatched events, got %d (results %d)", len(f.dispatch.events), len(resp.Results))
	}

	exp, ok := f.dispatch.events[0].Payload.(*dto.AddExpensePayload)
	if !ok {
		t.Fatalf("first event is %T", f.dispatch.events[0].Payload)
	}
	if exp.CardID != "c1" || exp.PaymentMethod != models.PaymentCard || exp.Amount != 120.5 {
		t.Fatalf("unexpected expense payload: %+v", exp)
	}
	if f.dispatch.events[0].Source != dto.SourceChat {
		t.Fatalf("expected chat source, got %q", f.dispatch.events[0].Source)
	}
	inc, ok := f.dispatch.events[1].Payload.(*dto.AddIncomePayload)
	if !ok || inc.PaymentMethod != models.PaymentPix {
		t.Fatalf("unexpected income payload: %#v", f.dispatch.events[1].Payload)
	}
	goal, ok := f.dispatch.events[2].Payload.(*dto.AddToGoalPayload)
	if !ok || goal.GoalID != "g1" {
		t.Fatalf("unexpected goal payload: %#v", f.dispatch.events[2].Payload)
	}

	if len(f.chat.saved) != 2 {
		t.Fatalf("expected user and assistant messages saved, got %d", len(f.chat.saved))
	}
	if f.chat.saved[0].Role != "user" || f.chat.saved[1].Role != "assistant" {
		t.Fatalf("unexpected roles: %q, %q", f.chat.saved[0].Role, f.chat.saved[1].Role)
	}
	if !f.chat.saved[1].ExpiresAt.Equal(testNow.Add(24 * time.Hour)) {
		t.Fatalf("expiresAt mismatch: %v", f.chat.saved[1].ExpiresAt)
	}

	req := vertex.requests[0]
	if req.ResponseMIMEType != "application/json" || req.ResponseSchema == nil {
		t.Fatalf("expected JSON response schema on request")
	}
	if !strings.Contains(req.System, "2025-03-15") || !strings.Contains(req.System, "Nubank") {
		t.Fatalf("system prompt missing context: %q", req.System)
	}
}

func TestChatMalformedResponseFallsBack(t *testing.T) {
	vertex := &fakeVertexClient{responses: []dto.VertexGenerateResponse{{Text: "not json at all"}}}
	f := newAssistantFixture(vertex)

	resp, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "", "oi")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Reply != genericAck {
		t.Fatalf("expected generic ack, got %q", resp.Reply)
	}
	if len(f.dispatch.events) != 0 {
		t.Fatalf("expected no dispatches, got %d", len(f.dispatch.events))
	}
}

func TestChatRetriesTransientErrors(t *testing.T) {
	transient := errs.NewExternalServiceError("vertex", true, errors.New("unavailable"))
	vertex := &fakeVertexClient{
		errs:      []error{transient, transient},
		responses: []dto.VertexGenerateResponse{{Text: `{"reply":"ok","actions":[]}`}},
	}
	f := newAssistantFixture(vertex)

	resp, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "oi")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Reply != "ok" {
		t.Fatalf("reply mismatch: %q", resp.Reply)
	}
	if len(vertex.requests) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(vertex.requests))
	}
	if len(f.sleeps) != 2 || f.sleeps[0] != time.Second || f.sleeps[1] != 2*time.Second {
		t.Fatalf("unexpected backoff: %v", f.sleeps)
	}
}

func TestChatGivesUpAfterThreeAttempts(t *testing.T) {
	transient := errs.NewExternalServiceError("vertex", true, errors.New("unavailable"))
	vertex := &fakeVertexClient{errs: []error{transient, transient, transient}}
	f := newAssistantFixture(vertex)

	_, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "oi")
	var ext *errs.ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if len(vertex.requests) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(vertex.requests))
	}
	if len(f.chat.saved) != 0 {
		t.Fatalf("expected no messages saved on failure")
	}
}

func TestChatDoesNotRetryPermanentErrors(t *testing.T) {
	vertex := &fakeVertexClient{errs: []error{errs.NewExternalServiceError("vertex", false, errors.New("bad request"))}}
	f := newAssistantFixture(vertex)

	if _, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "oi"); err == nil {
		t.Fatalf("expected error")
	}
	if len(vertex.requests) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(vertex.requests))
	}
}

func TestChatQueryAndNote(t *testing.T) {
	vertex := &fakeVertexClient{responses: []dto.VertexGenerateResponse{{Text: `{
		"reply": "",
		"actions": [{"kind": "QUERY"}, {"kind": "NOTE", "text": "ligar para o banco"}, {"kind": "UNKNOWN"}]}`}}}
	f := newAssistantFixture(vertex)
	f.summary.sum = dto.DashboardSummary{Month: "2025-03", Income: 5000, Expense: 3000, Balance: 2000, Score: 100}

	resp, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "como estou? e anota: ligar para o banco")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if f.summary.calls != 1 {
		t.Fatalf("expected summary lookup")
	}
	if !strings.Contains(resp.Reply, "2000.00") {
		t.Fatalf("reply should include balance: %q", resp.Reply)
	}
	if len(f.notes.texts) != 1 || f.notes.texts[0] != "ligar para o banco" {
		t.Fatalf("unexpected notes: %v", f.notes.texts)
	}
	if len(resp.Results) != 0 || len(f.dispatch.events) != 0 {
		t.Fatalf("query and note must not dispatch events")
	}
}

func TestChatUnknownGoalReportsFailure(t *testing.T) {
	vertex := &fakeVertexClient{responses: []dto.VertexGenerateResponse{{Text: `{
		"reply": "Certo",
		"actions": [{"kind": "GOAL_OPERATION", "goalName": "viagem", "amount": 100}]}`}}}
	f := newAssistantFixture(vertex)

	resp, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "guardei 100 na viagem")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Success {
		t.Fatalf("expected one failed result, got %+v", resp.Results)
	}
	if len(f.dispatch.events) != 0 {
		t.Fatalf("unresolved goal must not dispatch")
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	f := newAssistantFixture(&fakeVertexClient{})

	_, err := f.svc.Chat(helpers.TestCtx(), userActorChat, "s1", "   ")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseIntentStripsCodeFence(t *testing.T) {
	got, err := parseIntent("```json\n{\"reply\":\"oi\",\"actions\":[]}\n```")
	if err != nil {
		t.Fatalf("parseIntent error: %v", err)
	}
	if got.Reply != "oi" {
		t.Fatalf("reply mismatch: %q", got.Reply)
	}
}
