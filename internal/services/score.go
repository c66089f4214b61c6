package services

import (
	"fmt"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

// ComputeScore maps a month's surplus percentage onto a 0-100 efficiency score.
// Intervals are closed on the left: exactly 30% scores 100, 29.99% scores 90.
func ComputeScore(income, expense float64) int {
	if income <= 0 {
		return 0
	}
	surplus := money.Percent(money.Sub(income, expense), income)
	switch {
	case surplus >= 30:
		return 100
	case surplus >= 20:
		return 90
	case surplus >= 10:
		return 75
	case surplus >= 5:
		return 60
	case surplus >= 0:
		return 45
	case surplus > -10:
		return 25
	default:
		return 10
	}
}

const (
	BracketExcellent = "excellent"
	BracketGood      = "good"
	BracketAttention = "attention"
	BracketCritical  = "critical"
)

// Advise picks the message bundle for score. topCategory and goalName may be
// empty; the texts fall back to generic wording.
func Advise(score int, topCategory string, topPct float64, goalName string) dto.Advice {
	category := topCategory
	if category == "" {
		category = "seus gastos"
	}
	goal := goalName
	if goal == "" {
		goal = "uma nova meta"
	}
	share := fmt.Sprintf("%.0f%%", topPct)

	switch {
	case score >= 75:
		return dto.Advice{
			Bracket: BracketExcellent,
			Title:   "Mandou bem!",
			Message: fmt.Sprintf("Sua sobra do mês está ótima. O maior gasto foi %s (%s).", category, share),
			Tip:     fmt.Sprintf("Que tal reforçar %s com parte da sobra?", goal),
		}
	case score >= 45:
		return dto.Advice{
			Bracket: BracketGood,
			Title:   "No caminho certo",
			Message: fmt.Sprintf("Você fechou no azul. %s levou %s das despesas.", category, share),
			Tip:     fmt.Sprintf("Cortar um pouco em %s acelera %s.", category, goal),
		}
	case score >= 25:
		return dto.Advice{
			Bracket: BracketAttention,
			Title:   "Atenção",
			Message: fmt.Sprintf("As despesas passaram da renda. %s responde por %s.", category, share),
			Tip:     fmt.Sprintf("Defina um limite para %s e acompanhe pelo chat.", category),
		}
	default:
		return dto.Advice{
			Bracket: BracketCritical,
			Title:   "Alerta vermelho",
			Message: fmt.Sprintf("O mês fechou bem no negativo e %s pesa %s.", category, share),
			Tip:     fmt.Sprintf("Pause aportes em %s e priorize quitar o cartão.", goal),
		}
	}
}
