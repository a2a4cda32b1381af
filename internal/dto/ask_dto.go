package dto

// AskReq is the request body for the ask endpoint.
type AskReq struct {
	Question string `json:"question" binding:"required"`
	// TopK overrides the configured chunk limit when > 0
	TopK int `json:"top_k"`
}

// AskResp carries the fused retrieval context for one question.
type AskResp struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Cached   bool   `json:"cached"`
}
