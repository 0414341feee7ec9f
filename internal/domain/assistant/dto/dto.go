// Package dto contains assistant request and response payloads
package dto

// GenerateCampaignRequest asks for new campaign copy
type GenerateCampaignRequest struct {
	Prompt string `json:"prompt"`
	Tone   string `json:"tone"`
}

// ImproveTemplateRequest asks for a rewrite of existing copy
type ImproveTemplateRequest struct {
	Content string   `json:"content"`
	Goals   []string `json:"goals"`
}

// ContentResponse carries generated copy
type ContentResponse struct {
	Content string `json:"content"`
}
