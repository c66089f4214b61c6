package services

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

const (
	emergencyMonths      = 12
	emergencyIncomeTimes = 6
	carMonths            = 36
	houseMonths          = 60
)

// SmartRoundUp rounds v up to a step that grows with its size: 1000 up to
// 50k, 5000 up to 200k, 10000 above. Non-positive values give 0.
func SmartRoundUp(v float64) float64 {
	if v <= 0 {
		return 0
	}
	var step int64
	switch {
	case v <= 50000:
		step = 1000
	case v <= 200000:
		step = 5000
	default:
		step = 10000
	}
	s := decimal.NewFromInt(step)
	return decimal.NewFromFloat(v).Div(s).Ceil().Mul(s).InexactFloat64()
}

// SuggestGoals builds the goal ladder: emergency reserve, car, house, in that
// order, skipping any with no input. Existing savings seed the goals in order.
func SuggestGoals(in dto.LadderRequest) []dto.LadderGoal {
	type rung struct {
		name, kind string
		base       float64
		months     int
	}
	rungs := []rung{
		{name: "Reserva de emergência", kind: "emergency", base: in.MonthlyIncome * emergencyIncomeTimes, months: emergencyMonths},
		{name: "Carro", kind: "car", base: in.CarPrice, months: carMonths},
		{name: "Casa", kind: "house", base: in.HousePrice, months: houseMonths},
	}

	remaining := in.ExistingSavings
	if remaining < 0 {
		remaining = 0
	}

	out := make([]dto.LadderGoal, 0, len(rungs))
	for _, r := range rungs {
		target := SmartRoundUp(r.base)
		if target == 0 {
			continue
		}
		seed := remaining
		if seed > target {
			seed = target
		}
		remaining = money.Sub(remaining, seed)

		monthly := decimal.NewFromFloat(money.Sub(target, seed)).
			Div(decimal.NewFromInt(int64(r.months))).
			RoundUp(2).
			InexactFloat64()

		out = append(out, dto.LadderGoal{
			Name:                r.name,
			Type:                r.kind,
			TargetAmount:        target,
			SeedAmount:          seed,
			DeadlineMonths:      r.months,
			MonthlyContribution: monthly,
		})
	}
	return out
}
