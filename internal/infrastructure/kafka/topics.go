package kafka

// Kafka topics used by the platform
const (
	TopicBotUpdates         = "bot.updates"
	TopicSubscriberCreated  = "subscribers.created"
	TopicSubscriberOptedOut = "subscribers.opted_out"
	TopicSubscriberOptedIn  = "subscribers.opted_in"
	TopicCampaignFinished   = "campaigns.finished"
)
