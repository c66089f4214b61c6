package dto

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Reply   string           `json:"reply"`
	Results []DispatchResult `json:"results,omitempty"`
	Debug   *ChatDebugInfo   `json:"debug,omitempty"`
}

type ChatDebugInfo struct {
	Actions []IntentAction `json:"actions"`
}

// Intent kinds the model may return.
const (
	IntentTransaction   = "TRANSACTION"
	IntentSetLimit      = "SET_LIMIT"
	IntentCreateGoal    = "CREATE_GOAL"
	IntentGoalOperation = "GOAL_OPERATION"
	IntentBill          = "BILL"
	IntentQuery         = "QUERY"
	IntentNote          = "NOTE"
	IntentUnknown       = "UNKNOWN"
)

// IntentResponse is the JSON document the model must produce.
type IntentResponse struct {
	Reply   string         `json:"reply"`
	Actions []IntentAction `json:"actions"`
}

type IntentAction struct {
	Kind            string  `json:"kind"`
	TransactionType string  `json:"transactionType,omitempty"`
	Description     string  `json:"description,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	Category        string  `json:"category,omitempty"`
	PaymentMethod   string  `json:"paymentMethod,omitempty"`
	CardName        string  `json:"cardName,omitempty"`
	GoalName        string  `json:"goalName,omitempty"`
	TargetAmount    float64 `json:"targetAmount,omitempty"`
	DeadlineMonths  int     `json:"deadlineMonths,omitempty"`
	Limit           float64 `json:"limit,omitempty"`
	DueDay          int     `json:"dueDay,omitempty"`
	Recurring       bool    `json:"recurring,omitempty"`
	Date            string  `json:"date,omitempty"`
	Text            string  `json:"text,omitempty"`
}
