package buissines

import (
	"fmt"
	"strings"

	"github.com/Conte777/botflow/internal/domain/assistant/entities"
)

func buildReplyPrompt(incoming string, rc entities.ConversationContext) string {
	purpose := rc.Purpose
	if purpose == "" {
		purpose = entities.DefaultPurpose
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a helpful and friendly Telegram bot assistant.\n\n", rc.BotName)
	sb.WriteString("Your role:\n")
	sb.WriteString("- Answer helpfully and accurately in 1-3 sentences\n")
	sb.WriteString("- Stay conversational but professional\n")
	sb.WriteString("- Be honest when you do not know something\n")
	sb.WriteString("- Never ask for sensitive personal information\n\n")
	fmt.Fprintf(&sb, "Bot purpose: %s\n\n", purpose)

	fmt.Fprintf(&sb, "User %s sent: %q", rc.SubscriberName, incoming)
	if len(rc.RecentMessages) > 0 {
		sb.WriteString("\n\nRecent conversation context:\n")
		sb.WriteString(strings.Join(rc.RecentMessages, "\n"))
	}
	sb.WriteString("\n\nPlease provide a helpful, engaging response:")

	return sb.String()
}

func buildCampaignPrompt(prompt string, tone entities.Tone) string {
	var sb strings.Builder
	sb.WriteString("You are a marketing content creator for Telegram bot campaigns. Create engaging, compliant message content.\n\n")
	fmt.Fprintf(&sb, "Tone: %s\n\n", tone)
	sb.WriteString("Guidelines:\n")
	sb.WriteString("- Keep messages under 300 characters\n")
	sb.WriteString("- Include a clear call-to-action when appropriate\n")
	sb.WriteString("- Avoid spam-like language and use emoji sparingly\n")
	sb.WriteString("- All recipients have opted in, focus on providing value\n\n")
	fmt.Fprintf(&sb, "Create content for: %s", prompt)
	return sb.String()
}

func buildImprovePrompt(text string, goals []string) string {
	joined := strings.Join(goals, ", ")
	return fmt.Sprintf(
		"Improve this message template to be more %s:\n\n%q\n\nProvide an improved version that keeps the core message but enhances: %s",
		joined, text, joined,
	)
}
