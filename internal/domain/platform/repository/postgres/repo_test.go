package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
	"github.com/Conte777/botflow/internal/infrastructure/database"
)

func newTestGateway(t *testing.T) deps.Gateway {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		Path:     ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGateway(db)
}

func seedBot(t *testing.T, gw deps.Gateway, username string) *entities.Bot {
	t.Helper()
	bot := &entities.Bot{UserID: "u1", Name: "Test", Username: username, Token: "t", IsActive: true}
	require.NoError(t, gw.Bots.Create(context.Background(), bot))
	require.NotEmpty(t, bot.ID)
	return bot
}

func TestBotRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "alpha_bot")

	err := gw.Bots.Create(ctx, &entities.Bot{UserID: "u1", Name: "Dup", Username: "alpha_bot", Token: "x"})
	assert.ErrorIs(t, err, platformerrors.ErrBotExists)

	inactive := false
	name := "Renamed"
	updated, err := gw.Bots.Update(ctx, bot.ID, deps.BotUpdate{
		Name:     &name,
		IsActive: &inactive,
		Settings: map[string]interface{}{"lang": "en"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "en", updated.Settings["lang"])

	require.NoError(t, gw.Bots.SetWebhookURL(ctx, bot.ID, "https://hooks/api/webhook/"+bot.ID))
	got, err := gw.Bots.GetByID(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks/api/webhook/"+bot.ID, got.WebhookURL)

	_, err = gw.Bots.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, platformerrors.ErrBotNotFound)

	list, err := gw.Bots.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBotRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "cascade_bot")
	other := seedBot(t, gw, "other_bot")

	sub := &entities.Subscriber{BotID: bot.ID, ExternalID: "1", IsActive: true, OptedIn: true}
	require.NoError(t, gw.Subscribers.Create(ctx, sub))
	require.NoError(t, gw.Messages.Create(ctx, &entities.Message{
		BotID: bot.ID, SubscriberID: &sub.ID, Direction: entities.DirectionInbound,
		Content: "hi", MessageType: entities.MessageTypeText, Status: entities.StatusReceived, SentAt: time.Now().UTC(),
	}))
	require.NoError(t, gw.AutoResponders.Create(ctx, &entities.AutoResponder{BotID: bot.ID, Trigger: "a", Response: "b", IsActive: true}))
	require.NoError(t, gw.Campaigns.Create(ctx, &entities.Campaign{BotID: bot.ID, UserID: "u1", Name: "c", Message: "m", Status: entities.CampaignDraft}))
	require.NoError(t, gw.Subscribers.Create(ctx, &entities.Subscriber{BotID: other.ID, ExternalID: "1", IsActive: true, OptedIn: true}))

	require.NoError(t, gw.Bots.Delete(ctx, bot.ID))
	assert.ErrorIs(t, gw.Bots.Delete(ctx, bot.ID), platformerrors.ErrBotNotFound)

	subs, err := gw.Subscribers.ListByBot(ctx, bot.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	msgs, err := gw.Messages.ListRecentByBot(ctx, bot.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	rules, err := gw.AutoResponders.ListByBot(ctx, bot.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
	campaigns, err := gw.Campaigns.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, campaigns)

	otherSubs, err := gw.Subscribers.ListByBot(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherSubs, 1)
}

func TestSubscriberRepository_UniquePerBotAndReachability(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "subs_bot")

	now := time.Now().UTC()
	first := &entities.Subscriber{BotID: bot.ID, ExternalID: "42", FirstName: "Ann", IsActive: true, OptedIn: true, OptedInAt: &now}
	require.NoError(t, gw.Subscribers.Create(ctx, first))

	err := gw.Subscribers.Create(ctx, &entities.Subscriber{BotID: bot.ID, ExternalID: "42"})
	assert.ErrorIs(t, err, platformerrors.ErrSubscriberExists)

	second := &entities.Subscriber{BotID: bot.ID, ExternalID: "43", IsActive: true, OptedIn: true}
	require.NoError(t, gw.Subscribers.Create(ctx, second))
	require.NoError(t, gw.Subscribers.OptOut(ctx, second.ID))

	reachable, err := gw.Subscribers.ListReachable(ctx, bot.ID)
	require.NoError(t, err)
	require.Len(t, reachable, 1)
	assert.Equal(t, "42", reachable[0].ExternalID)

	count, err := gw.Subscribers.CountReachable(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, gw.Subscribers.OptIn(ctx, second.ID, now))
	got, err := gw.Subscribers.GetByExternalID(ctx, bot.ID, "43")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.True(t, got.OptedIn)
	require.NotNil(t, got.OptedInAt)

	_, err = gw.Subscribers.GetByExternalID(ctx, bot.ID, "404")
	assert.ErrorIs(t, err, platformerrors.ErrSubscriberNotFound)
	assert.ErrorIs(t, gw.Subscribers.TouchLastInteraction(ctx, "missing", now), platformerrors.ErrSubscriberNotFound)
}

func TestMessageRepository_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "msg_bot")

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"one", "two", "three"} {
		require.NoError(t, gw.Messages.Create(ctx, &entities.Message{
			BotID: bot.ID, Direction: entities.DirectionInbound, Content: content,
			MessageType: entities.MessageTypeText, Status: entities.StatusReceived,
			SentAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := gw.Messages.ListRecentByBot(ctx, bot.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
}

func TestMessageRepository_CampaignBatchAndOrigin(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "batch_bot")
	campaign := &entities.Campaign{BotID: bot.ID, UserID: "u1", Name: "c", Message: "m", Status: entities.CampaignDraft}
	require.NoError(t, gw.Campaigns.Create(ctx, campaign))

	batch := []entities.Message{
		{BotID: bot.ID, CampaignID: &campaign.ID, Direction: entities.DirectionOutbound, Content: "m", MessageType: entities.MessageTypeText, Status: entities.StatusSent, SentAt: time.Now().UTC(), Metadata: map[string]interface{}{entities.MetadataGeneratedBy: "campaign"}},
		{BotID: bot.ID, CampaignID: &campaign.ID, Direction: entities.DirectionOutbound, Content: "m", MessageType: entities.MessageTypeText, Status: entities.StatusFailed, SentAt: time.Now().UTC()},
	}
	require.NoError(t, gw.Messages.CreateBatch(ctx, batch))
	require.NoError(t, gw.Messages.CreateBatch(ctx, nil))

	msgs, err := gw.Messages.ListByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.OriginCampaign, msgs[0].Origin())
}

func TestAutoResponderRepository_PriorityOrder(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "rules_bot")

	for _, p := range []int{1, 10, 5} {
		require.NoError(t, gw.AutoResponders.Create(ctx, &entities.AutoResponder{
			BotID: bot.ID, Trigger: "t", Response: "r", IsActive: true, Priority: p,
		}))
	}

	list, err := gw.AutoResponders.ListByBot(ctx, bot.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{10, 5, 1}, []int{list[0].Priority, list[1].Priority, list[2].Priority})
}

func TestCampaignRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	bot := seedBot(t, gw, "camp_bot")

	c := &entities.Campaign{BotID: bot.ID, UserID: "u1", Name: "Promo", Message: "Hello", Status: entities.CampaignDraft}
	require.NoError(t, gw.Campaigns.Create(ctx, c))

	past := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	ok, err := gw.Campaigns.Schedule(ctx, c.ID, past)
	require.NoError(t, err)
	assert.True(t, ok)

	due, err := gw.Campaigns.ListDue(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, due, 1)
	scheduled, err := gw.Campaigns.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Len(t, scheduled, 1)

	claimable := []entities.CampaignStatus{entities.CampaignDraft, entities.CampaignScheduled}
	ok, err = gw.Campaigns.TransitionStatus(ctx, c.ID, claimable, entities.CampaignSending)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.Campaigns.TransitionStatus(ctx, c.ID, claimable, entities.CampaignSending)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must not apply")

	stats := entities.CampaignStatistics{Sent: 3, Failed: 1, Total: 4}
	require.NoError(t, gw.Campaigns.Complete(ctx, c.ID, stats, time.Now().UTC()))
	assert.ErrorIs(t, gw.Campaigns.Complete(ctx, c.ID, stats, time.Now().UTC()), platformerrors.ErrCampaignNotSending)

	got, err := gw.Campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignCompleted, got.Status)
	assert.Equal(t, stats, got.Statistics.Data())
	assert.NotNil(t, got.SentAt)

	ok, err = gw.Campaigns.Schedule(ctx, c.ID, past)
	require.NoError(t, err)
	assert.False(t, ok, "completed campaign cannot be rescheduled")

	_, err = gw.Campaigns.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, platformerrors.ErrCampaignNotFound)
}
