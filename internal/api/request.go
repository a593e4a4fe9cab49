package api

import "fmt"

// AnalyzeRequest carries one scoreboard photo, base64 encoded.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

func (r AnalyzeRequest) Validate() error {
	if r.Image == "" {
		return fmt.Errorf("image is required")
	}
	return nil
}

// SetCredentialRequest carries a raw API key to store.
type SetCredentialRequest struct {
	Key string `json:"key"`
}

func (r SetCredentialRequest) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
