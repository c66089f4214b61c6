package dto

type DashboardSummary struct {
	Month           string         `json:"month"`
	Income          float64        `json:"income"`
	Expense         float64        `json:"expense"`
	GoalsSavings    float64        `json:"goalsSavings"`
	Balance         float64        `json:"balance"` // income - expense ("sobra do mês")
	SurplusPercent  float64        `json:"surplusPercent"`
	Score           int            `json:"score"`
	TopCategory     string         `json:"topCategory,omitempty"`
	TopCategoryPct  float64        `json:"topCategoryPct,omitempty"`
	Advice          Advice         `json:"advice"`
	Cards           CardTotals     `json:"cards"`
	Limits          []LimitUsage   `json:"limits"`
	Goals           []GoalProgress `json:"goals"`
	UpcomingBills   int            `json:"upcomingBills"`
	UpcomingBillSum float64        `json:"upcomingBillSum"`
}

type Advice struct {
	Bracket string `json:"bracket"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Tip     string `json:"tip"`
}

type CardTotals struct {
	Limit     float64 `json:"limit"`
	Used      float64 `json:"used"`
	Available float64 `json:"available"`
}

type LimitUsage struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
	Percent  float64 `json:"percent"`
}

type GoalProgress struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Percent float64 `json:"percent"`
}

type LadderRequest struct {
	CarPrice        float64 `json:"carPrice"`
	HousePrice      float64 `json:"housePrice"`
	ExistingSavings float64 `json:"existingSavings"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
}

type LadderGoal struct {
	Name                string  `json:"name"`
	Type                string  `json:"type"`
	TargetAmount        float64 `json:"targetAmount"`
	SeedAmount          float64 `json:"seedAmount"`
	DeadlineMonths      int     `json:"deadlineMonths"`
	MonthlyContribution float64 `json:"monthlyContribution"`
}
