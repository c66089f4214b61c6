package dto

type RegisterRequest struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// Identity is what the verified ID token says about the caller.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type ResolveIdentifierRequest struct {
	Identifier string `json:"identifier"`
}

type ResolveIdentifierResponse struct {
	Email string `json:"email"`
}

type CheckoutConfig struct {
	PreferenceID       string `json:"preferenceId"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

type NoteView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
