package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/postcheck"
	"github.com/influmatch/backend/internal/repositories"
)

type SubmissionService struct {
	pool            *pgxpool.Pool
	campaignRepo    *repositories.CampaignRepo
	applicationRepo *repositories.ApplicationRepo
	submissionRepo  *repositories.SubmissionRepo
	eventRepo       *repositories.EventRepo
	checker         *postcheck.Checker
	publisher       events.Publisher
	log             *zap.Logger
}

func NewSubmissionService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	applicationRepo *repositories.ApplicationRepo,
	submissionRepo *repositories.SubmissionRepo,
	eventRepo *repositories.EventRepo,
	checker *postcheck.Checker,
	publisher events.Publisher,
	log *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		pool:            pool,
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		submissionRepo:  submissionRepo,
		eventRepo:       eventRepo,
		checker:         checker,
		publisher:       publisher,
		log:             log,
	}
}

func (s *SubmissionService) audit(ctx context.Context, campaignID uuid.UUID, actorID, actorRole, eventType string, payload map[string]any) {
	e := &models.Event{
		CampaignID: &campaignID,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Type:       eventType,
		Payload:    payload,
	}
	if err := s.eventRepo.Create(ctx, s.pool, e); err != nil {
		s.log.Error("failed to write event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamCampaign, events.Event{Type: eventType, Payload: payload}); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

// Submit creates a SUBMITTED deliverable. Only influencers with a SELECTED
// application on the campaign may submit.
func (s *SubmissionService) Submit(ctx context.Context, campaignID, influencerID uuid.UUID, postURL string, screenshotURLs []string, metricsMap map[string]float64) (*models.Submission, error) {
	postURL = strings.TrimSpace(postURL)
	if postURL == "" {
		return nil, apperr.Validation("게시물 URL을 입력해주세요.")
	}

	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}

	app, err := s.applicationRepo.GetByCampaignAndInfluencer(ctx, campaignID, influencerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Forbidden("선정된 인플루언서만 콘텐츠를 제출할 수 있습니다.")
		}
		return nil, err
	}
	if app.Status != models.ApplicationStatusSelected {
		return nil, apperr.Forbidden("선정된 인플루언서만 콘텐츠를 제출할 수 있습니다.")
	}

	if metricsMap == nil {
		metricsMap = map[string]float64{}
	}
	sub := &models.Submission{
		CampaignID:     campaignID,
		InfluencerID:   influencerID,
		ApplicationID:  app.ID,
		PostURL:        postURL,
		ScreenshotURLs: screenshotURLs,
		Metrics:        metricsMap,
		Status:         models.SubmissionStatusSubmitted,
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.audit(ctx, campaignID, influencerID.String(), models.RoleInfluencer, models.EventSubmissionSubmitted, map[string]any{
		"campaign_id":   campaignID.String(),
		"submission_id": sub.ID.String(),
		"post_url":      postURL,
	})

	// Best-effort probe of the post URL; never blocks the submission.
	go func() {
		probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result, err := s.checker.Check(probeCtx, postURL)
		if err != nil {
			s.log.Warn("post check failed", zap.String("url", postURL), zap.Error(err))
			return
		}
		s.log.Info("post checked",
			zap.String("submission_id", sub.ID.String()),
			zap.String("platform", result.Platform),
			zap.Bool("reachable", result.Reachable))
	}()

	return sub, nil
}

func (s *SubmissionService) ListForCampaign(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string) ([]models.Submission, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}

	f := repositories.SubmissionFilter{CampaignID: &campaignID}
	// Influencers only see their own submissions.
	if campaign.AdvertiserID != actorID && actorRole != models.RoleAdmin {
		f.InfluencerID = &actorID
	}

	subs, err := s.submissionRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

// Review approves a submission or sends it back for fixes. Owner or admin.
func (s *SubmissionService) Review(ctx context.Context, campaignID, submissionID, actorID uuid.UUID, actorRole, action string, feedback *string) (*models.Submission, error) {
	if action != "approve" && action != "needs_fix" {
		return nil, apperr.Validation("action must be approve or needs_fix")
	}

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

	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("submission not found")
		}
		return nil, err
	}
	if sub.CampaignID != campaignID {
		return nil, apperr.NotFound("submission not found")
	}

	if action == "approve" {
		now := time.Now()
		if err := s.submissionRepo.UpdateStatus(ctx, sub.ID, models.SubmissionStatusApproved, feedback, &now); err != nil {
			return nil, err
		}
		sub.Status = models.SubmissionStatusApproved
		sub.ApprovedAt = &now
		s.audit(ctx, campaignID, actorID.String(), actorRole, models.EventSubmissionApproved, map[string]any{
			"campaign_id":   campaignID.String(),
			"submission_id": sub.ID.String(),
			"influencer_id": sub.InfluencerID.String(),
		})
		return sub, nil
	}

	if err := s.submissionRepo.UpdateStatus(ctx, sub.ID, models.SubmissionStatusNeedsFix, feedback, nil); err != nil {
		return nil, err
	}
	sub.Status = models.SubmissionStatusNeedsFix
	sub.Feedback = feedback
	s.audit(ctx, campaignID, actorID.String(), actorRole, models.EventSubmissionNeedsFix, map[string]any{
		"campaign_id":   campaignID.String(),
		"submission_id": sub.ID.String(),
		"influencer_id": sub.InfluencerID.String(),
	})
	return sub, nil
}

// InfluencerInsights aggregates an influencer's approved-submission metrics.
type InfluencerInsights struct {
	InfluencerID  string             `json:"influencerId"`
	CampaignCount int                `json:"campaignCount"`
	Totals        map[string]float64 `json:"totals"`
	Averages      map[string]float64 `json:"averages"`
}

func (s *SubmissionService) Insights(ctx context.Context, influencerID uuid.UUID) (*InfluencerInsights, error) {
	status := models.SubmissionStatusApproved
	subs, err := s.submissionRepo.List(ctx, repositories.SubmissionFilter{
		InfluencerID: &influencerID,
		Status:       &status,
	})
	if err != nil {
		return nil, err
	}

	insights := &InfluencerInsights{
		InfluencerID: influencerID.String(),
		Totals:       map[string]float64{},
		Averages:     map[string]float64{},
	}
	counts := map[string]int{}
	campaigns := map[uuid.UUID]struct{}{}
	for _, sub := range subs {
		campaigns[sub.CampaignID] = struct{}{}
		for metric, v := range sub.Metrics {
			insights.Totals[metric] += v
			counts[metric]++
		}
	}
	insights.CampaignCount = len(campaigns)
	for metric, total := range insights.Totals {
		insights.Averages[metric] = total / float64(counts[metric])
	}
	return insights, nil
}
