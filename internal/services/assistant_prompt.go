package services

import (
	"strings"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
)

func intentSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"reply": {Type: "string", Description: "Short friendly reply to the user, in Portuguese."},
			"actions": {
				Type:        "array",
				Description: "Financial actions found in the message, in the order they were mentioned.",
				Items: &dto.VertexSchema{
					Type: "object",
					Properties: map[string]*dto.VertexSchema{
						"kind": {Type: "string", Enum: []string{
							dto.IntentTransaction,
							dto.IntentSetLimit,
							dto.IntentCreateGoal,
							dto.IntentGoalOperation,
							dto.IntentBill,
							dto.IntentQuery,
							dto.IntentNote,
							dto.IntentUnknown,
						}},
						"transactionType": {Type: "string", Enum: []string{"INCOME", "EXPENSE", "SAVING"}, Nullable: true},
						"description":     {Type: "string", Nullable: true},
						"amount":          {Type: "number", Description: "Positive amount in BRL. Negative only to withdraw from a goal.", Nullable: true},
						"category":        {Type: "string", Description: "Lowercase category such as alimentacao, transporte, lazer.", Nullable: true},
						"paymentMethod":   {Type: "string", Enum: []string{"CASH", "PIX", "CARD"}, Nullable: true},
						"cardName":        {Type: "string", Description: "Card name when paymentMethod is CARD.", Nullable: true},
						"goalName":        {Type: "string", Nullable: true},
						"targetAmount":    {Type: "number", Nullable: true},
						"deadlineMonths":  {Type: "integer", Nullable: true},
						"limit":           {Type: "number", Description: "Monthly limit for SET_LIMIT.", Nullable: true},
						"dueDay":          {Type: "integer", Description: "Day of month 1-31 for BILL.", Nullable: true},
						"recurring":       {Type: "boolean", Nullable: true},
						"date":            {Type: "string", Description: "YYYY-MM-DD; omit for today.", Nullable: true},
						"text":            {Type: "string", Description: "Note text for NOTE.", Nullable: true},
					},
					Required: []string{"kind"},
				},
			},
		},
		Required: []string{"reply", "actions"},
	}
}

func systemPrompt(now time.Time, categories, goals, cards []string) string {
	var b strings.Builder
	b.WriteString("Você é um assistente financeiro pessoal. Responda sempre em português, de forma curta. ")
	b.WriteString("Extraia da mensagem as ações financeiras e devolva JSON no formato do schema. ")
	b.WriteString("Uma mensagem pode conter várias ações. Nunca invente valores que o usuário não disse. ")
	b.WriteString("Use QUERY para perguntas sobre saldo ou gastos, NOTE para lembretes livres e UNKNOWN quando não houver ação. ")
	b.WriteString("Hoje é " + now.Format(dateLayout) + ".")
	if len(categories) > 0 {
		b.WriteString(" Categorias com limite: " + strings.Join(categories, ", ") + ".")
	}
	if len(goals) > 0 {
		b.WriteString(" Metas existentes: " + strings.Join(goals, ", ") + ".")
	}
	if len(cards) > 0 {
		b.WriteString(" Cartões: " + strings.Join(cards, ", ") + ".")
	}
	return b.String()
}
