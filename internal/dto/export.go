package dto

type MonthlyAggregate struct {
	Month        string  `json:"month"` // YYYY-MM
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	GoalsSavings float64 `json:"goalsSavings"`
	Balance      float64 `json:"balance"` // income - expense - goalsSavings
}

type ExportArchiveResponse struct {
	Object string `json:"object"`
	Rows   int    `json:"rows"`
}
