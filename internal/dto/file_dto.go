package dto

// UploadResp is returned after a synchronous ingest of one uploaded
// file.
type UploadResp struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Category string `json:"category"`
	Period   string `json:"period,omitempty"`
	Chunks   int    `json:"chunks"`
	Status   string `json:"status"` // processed, skipped
}
