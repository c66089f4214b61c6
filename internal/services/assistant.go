package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

const (
	historyLimit     = 8
	defaultSessionID = "default"
	maxMessageLength = 1000

	genericAck = "Entendi! Não consegui interpretar tudo agora, pode reformular?"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type chatStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error)
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, actor dto.Actor, ev dto.Event) (dto.DispatchResult, error)
}

type summaryProvider interface {
	Summary(ctx context.Context, uid string) (dto.DashboardSummary, error)
}

type noteCreator interface {
	CreateNote(ctx context.Context, uid, text string) (*models.Note, error)
}

type assistantService struct {
	vertex   vertexClient
	store    chatStore
	dispatch eventDispatcher
	summary  summaryProvider
	notes    noteCreator
	goals    goalLister
	limits   limitLister
	cards    cardLister
	ttl      time.Duration

	retryDelays []time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	clockNow    func() time.Time
}

type AssistantDeps struct {
	Vertex     vertexClient
	Store      chatStore
	Dispatcher eventDispatcher
	Summary    summaryProvider
	Notes      noteCreator
	Goals      goalLister
	Limits     limitLister
	Cards      cardLister
	TTL        time.Duration
}

func NewAssistantService(deps AssistantDeps) *assistantService {
	return &assistantService{
		vertex:      deps.Vertex,
		store:       deps.Store,
		dispatch:    deps.Dispatcher,
		summary:     deps.Summary,
		notes:       deps.Notes,
		goals:       deps.Goals,
		limits:      deps.Limits,
		cards:       deps.Cards,
		ttl:         deps.TTL,
		retryDelays: []time.Duration{time.Second, 2 * time.Second},
		sleep:       sleepCtx,
		clockNow:    time.Now,
	}
}

// Chat turns one free-text message into events, runs them through the
// dispatcher and replies. Model output that cannot be parsed yields a generic
// acknowledgement instead of an error.
func (s *assistantService) Chat(ctx context.Context, actor dto.Actor, sessionID, message string) (dto.ChatResponse, error) {
	log, ctx := logger.With(ctx, "session_id", sessionID)

	message = strings.TrimSpace(message)
	if message == "" {
		return dto.ChatResponse{}, errs.NewValidationError("message is required")
	}
	if len(message) > maxMessageLength {
		return dto.ChatResponse{}, errs.NewValidationError("message is too long")
	}
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	history, err := s.store.ListMessages(ctx, actor.UID, sessionID, historyLimit)
	if err != nil {
		return dto.ChatResponse{}, err
	}
	goals, err := s.goals.List(ctx, actor.UID)
	if err != nil {
		return dto.ChatResponse{}, err
	}
	limits, err := s.limits.List(ctx, actor.UID)
	if err != nil {
		return dto.ChatResponse{}, err
	}
	cards, err := s.cards.List(ctx, actor.UID)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	now := s.clockNow()
	resp, err := s.generateWithRetry(ctx, dto.VertexGenerateRequest{
		System:           systemPrompt(now, categoryNames(limits), goalNames(goals), cardNames(cards)),
		History:          toVertexHistory(history),
		UserMessage:      message,
		ResponseMIMEType: "application/json",
		ResponseSchema:   intentSchema(),
	})
	if err != nil {
		return dto.ChatResponse{}, err
	}

	intent, err := parseIntent(resp.Text)
	if err != nil {
		log.Warn("malformed model response", "error", err)
		intent = dto.IntentResponse{Reply: genericAck}
	}

	replies := []string{intent.Reply}
	results := make([]dto.DispatchResult, 0, len(intent.Actions))
	var labels []string
	for _, action := range intent.Actions {
		reply, res, handled := s.runAction(ctx, actor, action, goals, cards, now)
		if reply != "" {
			replies = append(replies, reply)
		}
		if handled {
			results = append(results, res)
			labels = append(labels, action.Kind)
		}
	}

	out := dto.ChatResponse{
		Reply:   strings.TrimSpace(strings.Join(replies, "\n")),
		Results: results,
		Debug:   &dto.ChatDebugInfo{Actions: intent.Actions},
	}
	if out.Reply == "" {
		out.Reply = genericAck
	}

	if err := s.saveMessage(ctx, actor.UID, sessionID, models.ChatMessage{Role: "user", Content: message}); err != nil {
		return dto.ChatResponse{}, err
	}
	if err := s.saveMessage(ctx, actor.UID, sessionID, models.ChatMessage{Role: "assistant", Content: out.Reply, Actions: labels}); err != nil {
		return dto.ChatResponse{}, err
	}

	log.Info("chat turn completed", "actions", len(intent.Actions), "dispatched", len(results))
	return out, nil
}

// generateWithRetry makes up to len(retryDelays)+1 attempts, waiting between
// attempts only after transient failures.
func (s *assistantService) generateWithRetry(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	log := logger.FromContext(ctx)

	for attempt := 0; ; attempt++ {
		resp, err := s.vertex.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}
		var ext *errs.ExternalServiceError
		if !errors.As(err, &ext) || !ext.Transient || attempt >= len(s.retryDelays) {
			return dto.VertexGenerateResponse{}, err
		}
		delay := s.retryDelays[attempt]
		log.Warn("model call failed, retrying", "attempt", attempt+1, "delay", delay.String(), "error", err)
		if err := s.sleep(ctx, delay); err != nil {
			return dto.VertexGenerateResponse{}, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func parseIntent(text string) (dto.IntentResponse, error) {
	var out dto.IntentResponse
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if text == "" {
		return out, errs.NewMalformedModelResponseError("empty model response")
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, errs.NewMalformedModelResponseError("model response is not valid JSON: " + err.Error())
	}
	if out.Reply == "" && len(out.Actions) == 0 {
		return out, errs.NewMalformedModelResponseError("model response has no reply or actions")
	}
	return out, nil
}

// runAction executes one parsed action. handled reports whether the action
// produced a dispatch result.
func (s *assistantService) runAction(ctx context.Context, actor dto.Actor, a dto.IntentAction, goals []*models.SavingGoal, cards []*models.CreditCard, now time.Time) (reply string, res dto.DispatchResult, handled bool) {
	log := logger.FromContext(ctx)

	switch a.Kind {
	case dto.IntentQuery:
		sum, err := s.summary.Summary(ctx, actor.UID)
		if err != nil {
			log.Error("summary for chat query failed", "error", err)
			return "Não consegui consultar seu resumo agora.", dto.DispatchResult{}, false
		}
		return querySummaryReply(sum), dto.DispatchResult{}, false
	case dto.IntentNote:
		if _, err := s.notes.CreateNote(ctx, actor.UID, a.Text); err != nil {
			log.Error("chat note failed", "error", err)
			return "Não consegui salvar a anotação.", dto.DispatchResult{}, false
		}
		return "", dto.DispatchResult{}, false
	case dto.IntentUnknown, "":
		return "", dto.DispatchResult{}, false
	}

	payload, err := actionPayload(a, goals, cards)
	if err != nil {
		return failureReply(a.Kind, err), dto.DispatchResult{Success: false, Error: err.Error()}, true
	}
	ev, err := dto.NewEvent(payload, dto.SourceChat, now)
	if err != nil {
		return failureReply(a.Kind, err), dto.DispatchResult{Success: false, Type: payload.EventType(), Error: err.Error()}, true
	}
	res, err = s.dispatch.Dispatch(ctx, actor, ev)
	if err != nil {
		return failureReply(a.Kind, err), res, true
	}
	return "", res, true
}

func failureReply(kind string, err error) string {
	return fmt.Sprintf("Não consegui registrar (%s): %v", strings.ToLower(kind), err)
}

// actionPayload maps a model action onto the payload the UI would send.
func actionPayload(a dto.IntentAction, goals []*models.SavingGoal, cards []*models.CreditCard) (dto.Payload, error) {
	switch a.Kind {
	case dto.IntentTransaction:
		method := models.PaymentMethod(strings.ToUpper(a.PaymentMethod))
		if strings.ToUpper(a.TransactionType) == string(models.TransactionIncome) {
			if method != models.PaymentCash {
				method = models.PaymentPix
			}
			return &dto.AddIncomePayload{
				Description:   a.Description,
				Amount:        a.Amount,
				Category:      a.Category,
				PaymentMethod: method,
				Date:          a.Date,
			}, nil
		}
		p := &dto.AddExpensePayload{
			Description:   a.Description,
			Amount:        a.Amount,
			Category:      a.Category,
			Type:          models.TransactionType(strings.ToUpper(a.TransactionType)),
			PaymentMethod: method,
			Date:          a.Date,
		}
		if p.PaymentMethod == "" {
			p.PaymentMethod = models.PaymentPix
		}
		if p.PaymentMethod == models.PaymentCard {
			card, err := resolveCard(a.CardName, cards)
			if err != nil {
				return nil, err
			}
			p.CardID = card.ID
		}
		return p, nil
	case dto.IntentSetLimit:
		return &dto.UpdateLimitPayload{Category: a.Category, Limit: a.Limit}, nil
	case dto.IntentCreateGoal:
		return &dto.CreateGoalPayload{
			Name:           a.GoalName,
			TargetAmount:   a.TargetAmount,
			DeadlineMonths: a.DeadlineMonths,
			Category:       a.Category,
		}, nil
	case dto.IntentGoalOperation:
		g, err := resolveGoal(a.GoalName, goals)
		if err != nil {
			return nil, err
		}
		return &dto.AddToGoalPayload{GoalID: g.ID, Amount: a.Amount, Date: a.Date}, nil
	case dto.IntentBill:
		return &dto.CreateReminderPayload{
			Description: a.Description,
			Amount:      a.Amount,
			DueDay:      a.DueDay,
			Recurring:   a.Recurring,
			Category:    a.Category,
		}, nil
	default:
		return nil, errs.NewValidationError("unknown action kind: " + a.Kind)
	}
}

func resolveGoal(name string, goals []*models.SavingGoal) (*models.SavingGoal, error) {
	key := NormalizeCategory(name)
	for _, g := range goals {
		if NormalizeCategory(g.Name) == key {
			return g, nil
		}
	}
	for _, g := range goals {
		if key != "" && strings.Contains(NormalizeCategory(g.Name), key) {
			return g, nil
		}
	}
	return nil, errs.NewNotFoundError(fmt.Sprintf("goal %q not found", name))
}

// resolveCard matches by name; with a single card the name may be omitted.
func resolveCard(name string, cards []*models.CreditCard) (*models.CreditCard, error) {
	if name == "" && len(cards) == 1 {
		return cards[0], nil
	}
	key := NormalizeCategory(name)
	for _, c := range cards {
		if NormalizeCategory(c.Name) == key || (c.Bank != "" && NormalizeCategory(c.Bank) == key) {
			return c, nil
		}
	}
	return nil, errs.NewNotFoundError(fmt.Sprintf("card %q not found", name))
}

func querySummaryReply(s dto.DashboardSummary) string {
	reply := fmt.Sprintf("Em %s: receitas R$ %s, despesas R$ %s, sobra R$ %s (score %d).",
		s.Month, money.Format(s.Income), money.Format(s.Expense), money.Format(s.Balance), s.Score)
	if s.TopCategory != "" {
		reply += fmt.Sprintf(" Maior gasto: %s (%.0f%%).", s.TopCategory, s.TopCategoryPct)
	}
	return reply
}

func (s *assistantService) saveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

func toVertexHistory(history []models.ChatMessage) []dto.VertexMessage {
	out := make([]dto.VertexMessage, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		out = append(out, dto.VertexMessage{Role: role, Text: m.Content})
	}
	return out
}

func categoryNames(limits []*models.CategoryLimit) []string {
	out := make([]string, 0, len(limits))
	for _, l := range limits {
		out = append(out, l.Category)
	}
	return out
}

func goalNames(goals []*models.SavingGoal) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.Name)
	}
	return out
}

func cardNames(cards []*models.CreditCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}
