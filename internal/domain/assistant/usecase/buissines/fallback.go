package buissines

import "strings"

type fallbackRule struct {
	keywords []string
	reply    string
}

// fallbackRules are checked in order, first substring hit wins
var fallbackRules = []fallbackRule{
	{
		keywords: []string{"help", "support"},
		reply:    "I'm here to help! What specific question can I assist you with?",
	},
	{
		keywords: []string{"thank", "thanks"},
		reply:    "You're very welcome! Feel free to reach out if you need anything else.",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		reply:    "Hello! Thanks for reaching out. How can I assist you today?",
	},
	{
		keywords: []string{"bye", "goodbye"},
		reply:    "Goodbye! Have a great day, and don't hesitate to contact us if you need anything.",
	},
	{
		keywords: []string{"price", "cost"},
		reply:    "For pricing information, please let me know what specific service you're interested in and I'll be happy to help!",
	},
	{
		keywords: []string{"hours", "open"},
		reply:    "Our support team is available to help you. What would you like to know?",
	},
}

const genericFallback = "Thanks for your message! I understand you're reaching out about this topic. How can I best assist you?"

// FallbackReply returns the canned answer for text without calling any backend
func FallbackReply(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.reply
			}
		}
	}
	return genericFallback
}
