package services

import (
	"testing"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
)

func TestSmartRoundUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: -5, want: 0},
		{in: 1, want: 1000},
		{in: 1000, want: 1000},
		{in: 1000.01, want: 2000},
		{in: 49999, want: 50000},
		{in: 50000, want: 50000},
		{in: 50001, want: 55000},
		{in: 200000, want: 200000},
		{in: 200001, want: 210000},
		{in: 452300, want: 460000},
	}
	for _, tc := range tests {
		if got := SmartRoundUp(tc.in); got != tc.want {
			t.Fatalf("SmartRoundUp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSuggestGoalsLadder(t *testing.T) {
	goals := SuggestGoals(dto.LadderRequest{
		CarPrice:        72300,
		HousePrice:      0,
		ExistingSavings: 20000,
		MonthlyIncome:   3100,
	})
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d: %+v", len(goals), goals)
	}

	emergency := goals[0]
	if emergency.Type != "emergency" || emergency.TargetAmount != 19000 || emergency.DeadlineMonths != 12 {
		t.Fatalf("unexpected emergency goal: %+v", emergency)
	}
	if emergency.SeedAmount != 19000 || emergency.MonthlyContribution != 0 {
		t.Fatalf("emergency should be fully seeded: %+v", emergency)
	}

	car := goals[1]
	if car.TargetAmount != 75000 || car.DeadlineMonths != 36 || car.SeedAmount != 1000 {
		t.Fatalf("unexpected car goal: %+v", car)
	}
	if car.MonthlyContribution != 2055.56 {
		t.Fatalf("car monthly = %v, want 2055.56", car.MonthlyContribution)
	}
}

func TestSuggestGoalsEmptyInput(t *testing.T) {
	if goals := SuggestGoals(dto.LadderRequest{}); len(goals) != 0 {
		t.Fatalf("expected no goals, got %+v", goals)
	}
}
