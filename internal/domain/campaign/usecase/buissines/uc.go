// Package buissines contains the campaign broadcast engine
package buissines

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/campaign/deps"
	"github.com/Conte777/botflow/internal/domain/campaign/dto"
	campaignerrors "github.com/Conte777/botflow/internal/domain/campaign/errors"
	"github.com/Conte777/botflow/internal/domain/campaign/scheduler"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// editable are the states a campaign may be scheduled, cancelled or sent from
var editable = []entities.CampaignStatus{entities.CampaignDraft, entities.CampaignScheduled}

// UseCase schedules and executes campaign broadcasts
type UseCase struct {
	campaigns   platformdeps.CampaignRepository
	bots        platformdeps.BotRepository
	subscribers platformdeps.SubscriberRepository
	messages    platformdeps.MessageRepository
	sender      deps.BulkSender
	scheduler   *scheduler.Scheduler
	publisher   kafka.Publisher
	metrics     *metrics.Metrics
	userID      string
	now         func() time.Time
	logger      zerolog.Logger

	// background executions started by triggers and SendNow
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewUseCase creates a new campaign UseCase
func NewUseCase(
	gw platformdeps.Gateway,
	sender deps.BulkSender,
	sched *scheduler.Scheduler,
	publisher kafka.Publisher,
	serviceCfg *config.ServiceConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &UseCase{
		campaigns:   gw.Campaigns,
		bots:        gw.Bots,
		subscribers: gw.Subscribers,
		messages:    gw.Messages,
		sender:      sender,
		scheduler:   sched,
		publisher:   publisher,
		metrics:     m,
		userID:      serviceCfg.DefaultUserID,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Create stores a new campaign; with a scheduled time it starts out scheduled
func (uc *UseCase) Create(ctx context.Context, req dto.CreateCampaignRequest) (*entities.Campaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case strings.TrimSpace(req.BotID) == "":
		return nil, campaignerrors.ErrBotRequired
	case req.Name == "":
		return nil, campaignerrors.ErrNameRequired
	case strings.TrimSpace(req.Message) == "":
		return nil, campaignerrors.ErrMessageRequired
	}

	if _, err := uc.bots.GetByID(ctx, req.BotID); err != nil {
		return nil, err
	}

	c := &entities.Campaign{
		BotID:          req.BotID,
		UserID:         uc.userID,
		Name:           req.Name,
		Description:    req.Description,
		Message:        req.Message,
		Status:         entities.CampaignDraft,
		TargetAudience: datatypes.JSONMap(req.TargetAudience),
		Statistics:     datatypes.NewJSONType(entities.CampaignStatistics{}),
	}
	if req.ScheduledAt != nil {
		at := req.ScheduledAt.UTC()
		c.Status = entities.CampaignScheduled
		c.ScheduledAt = &at
	}

	if err := uc.campaigns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if c.ScheduledAt != nil {
		uc.arm(c.ID, *c.ScheduledAt)
	}

	uc.logger.Info().
		Str("campaign_id", c.ID).
		Str("bot_id", c.BotID).
		Str("status", string(c.Status)).
		Msg("Campaign created")

	return c, nil
}

// Get returns a campaign by id
func (uc *UseCase) Get(ctx context.Context, id string) (*entities.Campaign, error) {
	return uc.campaigns.GetByID(ctx, id)
}

// List returns the campaigns of the current user, newest first
func (uc *UseCase) List(ctx context.Context) ([]entities.Campaign, error) {
	return uc.campaigns.ListByUser(ctx, uc.userID)
}

// ListMessages returns the message rows a campaign produced
func (uc *UseCase) ListMessages(ctx context.Context, id string) ([]entities.Message, error) {
	if _, err := uc.campaigns.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.messages.ListByCampaign(ctx, id)
}

// Schedule moves a draft or scheduled campaign to scheduled at `at` and replaces its trigger
func (uc *UseCase) Schedule(ctx context.Context, id string, at time.Time) (*entities.Campaign, error) {
	at = at.UTC()

	ok, err := uc.campaigns.Schedule(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule campaign: %w", err)
	}
	if !ok {
		return nil, uc.notEditable(ctx, id)
	}

	uc.arm(id, at)

	uc.logger.Info().Str("campaign_id", id).Time("scheduled_at", at).Msg("Campaign scheduled")
	return uc.campaigns.GetByID(ctx, id)
}

// Cancel moves a draft or scheduled campaign to cancelled and drops its trigger
func (uc *UseCase) Cancel(ctx context.Context, id string) (*entities.Campaign, error) {
	ok, err := uc.campaigns.TransitionStatus(ctx, id, editable, entities.CampaignCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel campaign: %w", err)
	}
	if !ok {
		return nil, uc.notEditable(ctx, id)
	}

	uc.disarm(id)

	uc.logger.Info().Str("campaign_id", id).Msg("Campaign cancelled")
	return uc.campaigns.GetByID(ctx, id)
}

// SendNow claims a draft or scheduled campaign and broadcasts it in the background.
// The returned campaign is already in sending state.
func (uc *UseCase) SendNow(ctx context.Context, id string) (*entities.Campaign, error) {
	c, err := uc.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bot, err := uc.bots.GetByID(ctx, c.BotID)
	if err != nil {
		return nil, err
	}
	if uc.isStopped() {
		return nil, campaignerrors.ErrEngineStopped
	}

	claimed, err := uc.claim(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, campaignerrors.ErrCampaignNotEditable
	}

	c.Status = entities.CampaignSending
	uc.background(func(ctx context.Context) {
		uc.deliver(ctx, c, bot)
	})
	return c, nil
}

// Execute broadcasts a campaign synchronously. Executing a campaign that is
// already sending or finished does nothing.
func (uc *UseCase) Execute(ctx context.Context, id string) error {
	c, err := uc.campaigns.GetByID(ctx, id)
	if err != nil {
		uc.logger.Warn().Err(err).Str("campaign_id", id).Msg("Campaign to execute not found")
		return err
	}
	if c.Status != entities.CampaignDraft && c.Status != entities.CampaignScheduled {
		uc.logger.Debug().
			Str("campaign_id", id).
			Str("status", string(c.Status)).
			Msg("Campaign already picked up, skipping")
		return nil
	}

	bot, err := uc.bots.GetByID(ctx, c.BotID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("campaign_id", id).Str("bot_id", c.BotID).Msg("Campaign bot not found")
		return err
	}

	claimed, err := uc.claim(ctx, id)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	c.Status = entities.CampaignSending
	uc.deliver(ctx, c, bot)
	return nil
}

// SweepDue executes every scheduled campaign whose time has come, flushes due
// triggers left in the registry and returns how many campaigns ran
func (uc *UseCase) SweepDue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.campaigns.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due campaigns: %w", err)
	}

	executed := 0
	for _, c := range due {
		uc.disarm(c.ID)
		if err := uc.Execute(ctx, c.ID); err != nil {
			uc.logger.Error().Err(err).Str("campaign_id", c.ID).Msg("Due campaign execution failed")
			continue
		}
		executed++
	}

	// triggers still due here belong to campaigns that are no longer scheduled; Execute skips them
	if stale := uc.scheduler.FireDue(now); stale > 0 {
		uc.metrics.SetScheduledCampaigns(len(uc.scheduler.Pending()))
		uc.logger.Debug().Int("count", stale).Msg("Stale campaign triggers flushed")
	}

	if executed > 0 {
		uc.logger.Info().Int("count", executed).Msg("Due campaigns executed")
	}
	return executed, nil
}

// Restore re-registers triggers for every persisted scheduled campaign
func (uc *UseCase) Restore(ctx context.Context) error {
	scheduled, err := uc.campaigns.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scheduled campaigns: %w", err)
	}

	for _, c := range scheduled {
		uc.arm(c.ID, *c.ScheduledAt)
	}

	uc.logger.Info().Int("count", len(scheduled)).Msg("Scheduled campaigns restored")
	return nil
}

// Stop drops pending triggers and waits for running broadcasts until ctx expires
func (uc *UseCase) Stop(ctx context.Context) error {
	uc.mu.Lock()
	uc.stopped = true
	uc.mu.Unlock()

	uc.scheduler.Stop()
	uc.metrics.SetScheduledCampaigns(0)

	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		uc.cancel()
		return nil
	case <-ctx.Done():
		uc.cancel()
		return ctx.Err()
	}
}

// claim atomically moves a draft or scheduled campaign to sending
func (uc *UseCase) claim(ctx context.Context, id string) (bool, error) {
	ok, err := uc.campaigns.TransitionStatus(ctx, id, editable, entities.CampaignSending)
	if err != nil {
		return false, fmt.Errorf("failed to claim campaign: %w", err)
	}
	if ok {
		uc.disarm(id)
	}
	return ok, nil
}

// deliver runs the broadcast of a claimed campaign to a terminal state
func (uc *UseCase) deliver(ctx context.Context, c *entities.Campaign, bot *entities.Bot) {
	start := time.Now()
	log := uc.logger.With().Str("campaign_id", c.ID).Str("bot_id", bot.ID).Logger()

	stats, err := uc.broadcast(ctx, c, bot)
	if err != nil {
		log.Error().Err(err).Msg("Campaign failed")
		uc.fail(ctx, c)
		uc.finish(ctx, c, entities.CampaignFailed, stats, start)
		return
	}

	log.Info().
		Int("sent", stats.Sent).
		Int("failed", stats.Failed).
		Int("total", stats.Total).
		Msg("Campaign completed")
	uc.finish(ctx, c, entities.CampaignCompleted, stats, start)
}

func (uc *UseCase) broadcast(ctx context.Context, c *entities.Campaign, bot *entities.Bot) (stats entities.CampaignStatistics, err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Str("campaign_id", c.ID).
				Msg("Panic while sending campaign")
			err = fmt.Errorf("panic while sending campaign: %v", r)
		}
	}()

	recipients, err := uc.subscribers.ListReachable(ctx, bot.ID)
	if err != nil {
		return stats, fmt.Errorf("failed to load subscribers: %w", err)
	}

	now := uc.now()
	if len(recipients) == 0 {
		if err := uc.campaigns.Complete(ctx, c.ID, stats, now); err != nil {
			return stats, fmt.Errorf("failed to complete campaign: %w", err)
		}
		return stats, nil
	}

	ids := make([]string, len(recipients))
	for i, s := range recipients {
		ids[i] = s.ExternalID
	}

	result := uc.sender.SendBulk(ctx, bot.Token, ids, c.Message, telegram.SendOptions{})
	stats = entities.CampaignStatistics{
		Sent:   result.Success,
		Failed: result.Failed,
		Total:  len(recipients),
	}

	rows := make([]entities.Message, len(recipients))
	for i := range recipients {
		rows[i] = campaignMessage(c, &recipients[i], result.Failures[recipients[i].ExternalID], now)
	}
	if err := uc.messages.CreateBatch(ctx, rows); err != nil {
		return stats, fmt.Errorf("failed to log campaign messages: %w", err)
	}

	if err := uc.campaigns.Complete(ctx, c.ID, stats, uc.now()); err != nil {
		return stats, fmt.Errorf("failed to complete campaign: %w", err)
	}
	return stats, nil
}

func campaignMessage(c *entities.Campaign, sub *entities.Subscriber, sendErr error, at time.Time) entities.Message {
	subscriberID := sub.ID
	campaignID := c.ID

	msg := entities.Message{
		BotID:        c.BotID,
		SubscriberID: &subscriberID,
		CampaignID:   &campaignID,
		Direction:    entities.DirectionOutbound,
		Content:      c.Message,
		MessageType:  entities.MessageTypeText,
		Status:       entities.StatusSent,
		Metadata:     datatypes.JSONMap{entities.MetadataGeneratedBy: string(entities.OriginCampaign)},
		SentAt:       at,
	}
	if sendErr != nil {
		msg.Status = entities.StatusFailed
		msg.Metadata["error"] = sendErr.Error()
	}
	return msg
}

// fail moves a sending campaign to failed even if ctx was cancelled
func (uc *UseCase) fail(ctx context.Context, c *entities.Campaign) {
	ctx = context.WithoutCancel(ctx)
	if _, err := uc.campaigns.TransitionStatus(ctx, c.ID, []entities.CampaignStatus{entities.CampaignSending}, entities.CampaignFailed); err != nil {
		uc.logger.Error().Err(err).Str("campaign_id", c.ID).Msg("Failed to mark campaign failed")
	}
}

func (uc *UseCase) finish(ctx context.Context, c *entities.Campaign, status entities.CampaignStatus, stats entities.CampaignStatistics, start time.Time) {
	uc.metrics.RecordCampaign(string(status), time.Since(start).Seconds())

	event := dto.CampaignFinishedEvent{
		CampaignID: c.ID,
		BotID:      c.BotID,
		Status:     status,
		Statistics: stats,
		FinishedAt: uc.now(),
	}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), kafka.TopicCampaignFinished, c.ID, event); err != nil {
		uc.logger.Warn().Err(err).Str("campaign_id", c.ID).Msg("Failed to publish campaign finished event")
	}
}

// arm registers the trigger that executes the campaign at `at`
func (uc *UseCase) arm(id string, at time.Time) {
	uc.scheduler.Schedule(id, at, func() {
		uc.background(func(ctx context.Context) {
			if err := uc.Execute(ctx, id); err != nil {
				uc.logger.Error().Err(err).Str("campaign_id", id).Msg("Scheduled campaign execution failed")
			}
		})
	})
	uc.metrics.SetScheduledCampaigns(len(uc.scheduler.Pending()))
}

func (uc *UseCase) disarm(id string) {
	if uc.scheduler.Cancel(id) {
		uc.metrics.SetScheduledCampaigns(len(uc.scheduler.Pending()))
	}
}

func (uc *UseCase) background(fn func(ctx context.Context)) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.stopped {
		uc.logger.Warn().Msg("Campaign engine stopped, execution skipped")
		return
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		fn(uc.ctx)
	}()
}

func (uc *UseCase) isStopped() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.stopped
}

// notEditable explains why a guarded transition did not happen
func (uc *UseCase) notEditable(ctx context.Context, id string) error {
	if _, err := uc.campaigns.GetByID(ctx, id); err != nil {
		return err
	}
	return campaignerrors.ErrCampaignNotEditable
}
