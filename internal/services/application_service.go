package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/cache"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/metrics"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type ApplicationService struct {
	pool            *pgxpool.Pool
	campaignRepo    *repositories.CampaignRepo
	applicationRepo *repositories.ApplicationRepo
	eventRepo       *repositories.EventRepo
	cache           *cache.Cache
	publisher       events.Publisher
	log             *zap.Logger
}

func NewApplicationService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	applicationRepo *repositories.ApplicationRepo,
	eventRepo *repositories.EventRepo,
	c *cache.Cache,
	publisher events.Publisher,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		pool:            pool,
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		eventRepo:       eventRepo,
		cache:           c,
		publisher:       publisher,
		log:             log,
	}
}

func (s *ApplicationService) audit(ctx context.Context, q repositories.Querier, campaignID uuid.UUID, actorID, actorRole, eventType string, payload map[string]any) {
	e := &models.Event{
		CampaignID: &campaignID,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Type:       eventType,
		Payload:    payload,
	}
	if err := s.eventRepo.Create(ctx, q, e); err != nil {
		s.log.Error("failed to write event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamCampaign, events.Event{Type: eventType, Payload: payload}); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

// Apply creates an APPLIED application on an OPEN campaign. Contact-like
// substrings in the message are redacted before storage.
func (s *ApplicationService) Apply(ctx context.Context, campaignID, influencerID uuid.UUID, message *string) (*models.Application, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}
	if campaign.Status != models.CampaignStatusOpen {
		return nil, apperr.Validation("모집 중인 캠페인이 아닙니다.")
	}

	if existing, err := s.applicationRepo.GetByCampaignAndInfluencer(ctx, campaignID, influencerID); err == nil && existing != nil {
		return nil, apperr.Validation("이미 지원한 캠페인입니다.")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if message != nil {
		redacted := redactContactInfo(*message)
		message = &redacted
	}

	app := &models.Application{
		CampaignID:   campaignID,
		InfluencerID: influencerID,
		Message:      message,
		Status:       models.ApplicationStatusApplied,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.audit(ctx, s.pool, campaignID, influencerID.String(), models.RoleInfluencer, models.EventApplicationSubmitted, map[string]any{
		"campaign_id":    campaignID.String(),
		"application_id": app.ID.String(),
	})
	return app, nil
}

func (s *ApplicationService) ListForCampaign(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string, status *string) ([]models.ApplicationWithInfluencer, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}
	if campaign.AdvertiserID != actorID && actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("not the campaign owner")
	}
	apps, err := s.applicationRepo.ListByCampaign(ctx, campaignID, status)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.ApplicationWithInfluencer{}
	}
	return apps, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, influencerID uuid.UUID) ([]models.Application, error) {
	apps, err := s.applicationRepo.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// withSelected returns ids with the influencer appended, or ids unchanged
// when it is already present. Selection must never duplicate an entry: the
// auto-complete gate iterates this list per influencer.
func withSelected(ids []string, influencerID uuid.UUID) []string {
	id := influencerID.String()
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Resolve selects or rejects an applicant. Selection runs in one
// transaction: the campaign row is locked, the application flips to
// SELECTED, the campaign moves to RUNNING if it is not already, and the
// influencer id is appended to the selected list exactly once.
func (s *ApplicationService) Resolve(ctx context.Context, campaignID, applicationID, actorID uuid.UUID, actorRole, action string) (*models.Application, error) {
	if action != "select" && action != "reject" {
		return nil, apperr.Validation("action must be select or reject")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	campaign, err := s.campaignRepo.GetByIDForUpdate(ctx, tx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}
	if campaign.AdvertiserID != actorID && actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("not the campaign owner")
	}

	app, err := s.applicationRepo.GetByIDForUpdate(ctx, tx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, err
	}
	if app.CampaignID != campaignID {
		return nil, apperr.NotFound("application not found")
	}
	if app.Status != models.ApplicationStatusApplied {
		return nil, apperr.Validation("이미 처리된 지원입니다.")
	}

	if action == "reject" {
		if err := s.applicationRepo.UpdateStatus(ctx, tx, app.ID, models.ApplicationStatusRejected, nil); err != nil {
			return nil, err
		}
		app.Status = models.ApplicationStatusRejected
		s.audit(ctx, tx, campaignID, actorID.String(), actorRole, models.EventApplicationRejected, map[string]any{
			"campaign_id":    campaignID.String(),
			"application_id": app.ID.String(),
			"influencer_id":  app.InfluencerID.String(),
		})
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return app, nil
	}

	now := time.Now()
	if err := s.applicationRepo.UpdateStatus(ctx, tx, app.ID, models.ApplicationStatusSelected, &now); err != nil {
		return nil, err
	}
	app.Status = models.ApplicationStatusSelected
	app.SelectedAt = &now

	if campaign.Status != models.CampaignStatusRunning {
		if !models.IsValidTransition(campaign.Status, models.CampaignStatusRunning) {
			return nil, apperr.Validation("모집 중인 캠페인이 아닙니다.")
		}
		if err := s.campaignRepo.UpdateStatus(ctx, tx, campaignID, models.CampaignStatusRunning); err != nil {
			return nil, err
		}
		metrics.CampaignTransitions.WithLabelValues(campaign.Status, models.CampaignStatusRunning).Inc()
		campaign.Status = models.CampaignStatusRunning
	}

	if ids := withSelected(campaign.SelectedInfluencerIDs, app.InfluencerID); len(ids) != len(campaign.SelectedInfluencerIDs) {
		if err := s.campaignRepo.SetSelectedInfluencers(ctx, tx, campaignID, ids); err != nil {
			return nil, err
		}
		campaign.SelectedInfluencerIDs = ids
	}

	s.audit(ctx, tx, campaignID, actorID.String(), actorRole, models.EventInfluencerSelected, map[string]any{
		"campaign_id":    campaignID.String(),
		"application_id": app.ID.String(),
		"influencer_id":  app.InfluencerID.String(),
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.cache.DeletePattern(ctx, "campaigns:*")
	return app, nil
}
