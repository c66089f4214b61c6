package dto

type VertexMessage struct {
	Role string // "user" or "model"
	Text string
}

type VertexGenerateRequest struct {
	Model            string
	System           string
	History          []VertexMessage
	UserMessage      string
	ResponseMIMEType string
	ResponseSchema   *VertexSchema
	Temperature      *float32
	MaxOutputTokens  *int32
}

type VertexGenerateResponse struct {
	Text string
	Raw  any
}

type VertexSchema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*VertexSchema
	Required    []string
	Items       *VertexSchema
	Nullable    bool
}
