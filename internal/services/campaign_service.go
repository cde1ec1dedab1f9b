package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/cache"
	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/llm"
	"github.com/influmatch/backend/internal/metrics"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type CampaignService struct {
	pool         *pgxpool.Pool
	campaignRepo *repositories.CampaignRepo
	eventRepo    *repositories.EventRepo
	llm          *llm.Client
	cache        *cache.Cache
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger
}

func NewCampaignService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	eventRepo *repositories.EventRepo,
	llmClient *llm.Client,
	c *cache.Cache,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		pool:         pool,
		campaignRepo: campaignRepo,
		eventRepo:    eventRepo,
		llm:          llmClient,
		cache:        c,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
	}
}

// audit writes the append-only event row and mirrors it onto the redis
// stream. Publish failures are logged, never surfaced.
func (s *CampaignService) audit(ctx context.Context, q repositories.Querier, campaignID *uuid.UUID, actorID, actorRole, eventType string, payload map[string]any) {
	e := &models.Event{
		CampaignID: campaignID,
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

// transition validates the edge, updates the status and records the audit
// trail. Callers needing extra column stamps use the Mark* repo methods and
// call audit themselves.
func (s *CampaignService) transition(ctx context.Context, q repositories.Querier, campaign *models.Campaign, newStatus, actorID, actorRole string) error {
	if !models.IsValidTransition(campaign.Status, newStatus) {
		return apperr.Validation(fmt.Sprintf("invalid transition from %s to %s", campaign.Status, newStatus))
	}

	oldStatus := campaign.Status
	if err := s.campaignRepo.UpdateStatus(ctx, q, campaign.ID, newStatus); err != nil {
		return err
	}
	campaign.Status = newStatus
	metrics.CampaignTransitions.WithLabelValues(oldStatus, newStatus).Inc()

	s.audit(ctx, q, &campaign.ID, actorID, actorRole, models.EventStatusChanged, map[string]any{
		"campaign_id": campaign.ID.String(),
		"from":        oldStatus,
		"to":          newStatus,
	})
	return nil
}

// Generate runs the AI-assisted creation path: brief in, campaign in
// GENERATED plus spec v1 out, written in one transaction.
func (s *CampaignService) Generate(ctx context.Context, advertiserID uuid.UUID, brief string) (*models.Campaign, *models.CampaignSpecVersion, error) {
	brief = strings.TrimSpace(brief)
	if len([]rune(brief)) < 10 {
		return nil, nil, apperr.Validation("캠페인 설명을 10자 이상 입력해주세요.")
	}

	resp, err := s.llm.GenerateCampaignSpec(ctx, brief)
	if err != nil {
		metrics.LLMGenerations.WithLabelValues("error").Inc()
		if s.cfg.OpenAIAPIKey == "" {
			return nil, nil, apperr.LLM("OPENAI_API_KEY is not set")
		}
		return nil, nil, err
	}
	metrics.LLMGenerations.WithLabelValues("ok").Inc()

	now := time.Now()
	duration := resp.SpecJSON.Schedule.EstimatedDurationDays
	deadline := now.AddDate(0, 0, duration)

	campaign := &models.Campaign{
		AdvertiserID:          advertiserID,
		Status:                models.CampaignStatusGenerated,
		Title:                 titleFromResponse(resp),
		NaturalLanguageInput:  &brief,
		DeadlineDate:          &deadline,
		EstimatedDuration:     &duration,
		SelectedInfluencerIDs: []string{},
	}
	spec := &models.CampaignSpecVersion{
		Version:          1,
		ProposalMarkdown: resp.ProposalMarkdown,
		SpecJSON:         resp.SpecJSON,
		CreatedBy:        advertiserID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.campaignRepo.Create(ctx, tx, campaign); err != nil {
		return nil, nil, err
	}
	spec.CampaignID = campaign.ID
	if err := s.campaignRepo.CreateSpecVersion(ctx, tx, spec); err != nil {
		return nil, nil, err
	}
	if err := s.campaignRepo.SetCurrentSpecVersion(ctx, tx, campaign.ID, spec.ID, duration); err != nil {
		return nil, nil, err
	}
	campaign.CurrentSpecVersionID = &spec.ID

	s.audit(ctx, tx, &campaign.ID, advertiserID.String(), models.RoleAdvertiser, models.EventCampaignGenerated, map[string]any{
		"campaign_id":  campaign.ID.String(),
		"title":        campaign.Title,
		"spec_version": 1,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	s.invalidateCaches(ctx)
	return campaign, spec, nil
}

// titleFromResponse prefers the generated title, then the first markdown
// heading, then the objective truncated to 100 chars.
func titleFromResponse(resp *llm.Response) string {
	if t := strings.TrimSpace(resp.SpecJSON.Title); t != "" {
		return t
	}
	for _, line := range strings.Split(resp.ProposalMarkdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	objective := []rune(resp.SpecJSON.Objective)
	if len(objective) > 100 {
		objective = objective[:100]
	}
	return string(objective)
}

// Regenerate re-runs proposal generation on a campaign that has not opened
// yet, writing the next spec version and repointing the current one. An
// empty brief reuses the campaign's original input.
func (s *CampaignService) Regenerate(ctx context.Context, campaignID, actorID uuid.UUID, actorRole, brief string) (*models.Campaign, *models.CampaignSpecVersion, error) {
	campaign, err := s.getOwned(ctx, campaignID, actorID, actorRole)
	if err != nil {
		return nil, nil, err
	}
	switch campaign.Status {
	case models.CampaignStatusGenerated, models.CampaignStatusReviewed, models.CampaignStatusClarifying:
	default:
		return nil, nil, apperr.Validation("공개된 캠페인의 제안서는 다시 생성할 수 없습니다.")
	}

	brief = strings.TrimSpace(brief)
	if brief == "" && campaign.NaturalLanguageInput != nil {
		brief = *campaign.NaturalLanguageInput
	}
	if len([]rune(brief)) < 10 {
		return nil, nil, apperr.Validation("캠페인 설명을 10자 이상 입력해주세요.")
	}

	resp, err := s.llm.GenerateCampaignSpec(ctx, brief)
	if err != nil {
		metrics.LLMGenerations.WithLabelValues("error").Inc()
		if s.cfg.OpenAIAPIKey == "" {
			return nil, nil, apperr.LLM("OPENAI_API_KEY is not set")
		}
		return nil, nil, err
	}
	metrics.LLMGenerations.WithLabelValues("ok").Inc()

	duration := resp.SpecJSON.Schedule.EstimatedDurationDays

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	maxVersion, err := s.campaignRepo.GetMaxSpecVersion(ctx, tx, campaign.ID)
	if err != nil {
		return nil, nil, err
	}
	spec := &models.CampaignSpecVersion{
		CampaignID:       campaign.ID,
		Version:          maxVersion + 1,
		ProposalMarkdown: resp.ProposalMarkdown,
		SpecJSON:         resp.SpecJSON,
		CreatedBy:        actorID,
	}
	if err := s.campaignRepo.CreateSpecVersion(ctx, tx, spec); err != nil {
		return nil, nil, err
	}
	if err := s.campaignRepo.SetCurrentSpecVersion(ctx, tx, campaign.ID, spec.ID, duration); err != nil {
		return nil, nil, err
	}
	title := titleFromResponse(resp)
	if err := s.campaignRepo.UpdateTitle(ctx, tx, campaign.ID, title); err != nil {
		return nil, nil, err
	}
	deadline := time.Now().AddDate(0, 0, duration)
	if err := s.campaignRepo.SetDeadline(ctx, tx, campaign.ID, deadline); err != nil {
		return nil, nil, err
	}
	campaign.Title = title
	campaign.CurrentSpecVersionID = &spec.ID
	campaign.EstimatedDuration = &duration
	campaign.DeadlineDate = &deadline

	s.audit(ctx, tx, &campaign.ID, actorID.String(), actorRole, models.EventCampaignGenerated, map[string]any{
		"campaign_id":  campaign.ID.String(),
		"title":        title,
		"spec_version": spec.Version,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	s.invalidateCaches(ctx)
	return campaign, spec, nil
}

// CreateDirect is the manual path: the advertiser brings a ready proposal
// and the campaign opens immediately.
func (s *CampaignService) CreateDirect(ctx context.Context, advertiserID uuid.UUID, title, proposalMarkdown string, specJSON models.CampaignSpec) (*models.Campaign, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("캠페인 제목을 입력해주세요.")
	}

	now := time.Now()
	duration := specJSON.Schedule.EstimatedDurationDays
	if duration <= 0 {
		return nil, apperr.Validation("estimated_duration_days must be positive")
	}
	deadline := now.AddDate(0, 0, duration)

	campaign := &models.Campaign{
		AdvertiserID:          advertiserID,
		Status:                models.CampaignStatusOpen,
		Title:                 strings.TrimSpace(title),
		DeadlineDate:          &deadline,
		EstimatedDuration:     &duration,
		SelectedInfluencerIDs: []string{},
	}
	spec := &models.CampaignSpecVersion{
		Version:          1,
		ProposalMarkdown: proposalMarkdown,
		SpecJSON:         specJSON,
		CreatedBy:        advertiserID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.campaignRepo.Create(ctx, tx, campaign); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.MarkOpened(ctx, tx, campaign.ID, now, &deadline); err != nil {
		return nil, err
	}
	campaign.OpenedAt = &now
	spec.CampaignID = campaign.ID
	if err := s.campaignRepo.CreateSpecVersion(ctx, tx, spec); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SetCurrentSpecVersion(ctx, tx, campaign.ID, spec.ID, duration); err != nil {
		return nil, err
	}
	campaign.CurrentSpecVersionID = &spec.ID

	s.audit(ctx, tx, &campaign.ID, advertiserID.String(), models.RoleAdvertiser, models.EventCampaignCreated, map[string]any{
		"campaign_id": campaign.ID.String(),
		"title":       campaign.Title,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx)
	return campaign, nil
}

// Approve resolves a generated proposal: approve takes the campaign straight
// to OPEN stamping approvedAt/openedAt, reject cancels it with a reason.
func (s *CampaignService) Approve(ctx context.Context, campaignID, actorID uuid.UUID, actorRole, action, reason string) (*models.Campaign, error) {
	if action != "approve" && action != "reject" {
		return nil, apperr.Validation("action must be approve or reject")
	}

	campaign, err := s.getOwned(ctx, campaignID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if action == "reject" {
		if err := s.transition(ctx, s.pool, campaign, models.CampaignStatusCancelled, actorID.String(), actorRole); err != nil {
			return nil, err
		}
		s.audit(ctx, s.pool, &campaign.ID, actorID.String(), actorRole, models.EventCampaignCancelled, map[string]any{
			"campaign_id": campaign.ID.String(),
			"reason":      reason,
		})
		s.invalidateCaches(ctx)
		return campaign, nil
	}

	if !models.IsValidTransition(campaign.Status, models.CampaignStatusOpen) {
		return nil, apperr.Validation(fmt.Sprintf("invalid transition from %s to %s", campaign.Status, models.CampaignStatusOpen))
	}

	now := time.Now()
	if err := s.campaignRepo.MarkApprovedOpen(ctx, s.pool, campaign.ID, now); err != nil {
		return nil, err
	}
	metrics.CampaignTransitions.WithLabelValues(campaign.Status, models.CampaignStatusOpen).Inc()
	campaign.Status = models.CampaignStatusOpen
	campaign.ApprovedAt = &now
	campaign.OpenedAt = &now

	s.audit(ctx, s.pool, &campaign.ID, actorID.String(), actorRole, models.EventCampaignApproved, map[string]any{
		"campaign_id": campaign.ID.String(),
	})
	s.invalidateCaches(ctx)
	return campaign, nil
}

// Delete removes the campaign and its whole subtree. Blocked while RUNNING.
// The campaign_deleted event is written without a campaign reference so the
// trail survives the cascade.
func (s *CampaignService) Delete(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string) error {
	campaign, err := s.getOwned(ctx, campaignID, actorID, actorRole)
	if err != nil {
		return err
	}
	if campaign.Status == models.CampaignStatusRunning {
		return apperr.Validation("진행 중인 캠페인은 삭제할 수 없습니다.")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	s.audit(ctx, tx, nil, actorID.String(), actorRole, models.EventCampaignDeleted, map[string]any{
		"campaign_id": campaign.ID.String(),
		"title":       campaign.Title,
		"status":      campaign.Status,
	})

	if err := s.campaignRepo.DeleteCascade(ctx, tx, campaign.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateCaches(ctx)
	return nil
}

// Get applies role scoping: owners and admins see any status, everyone else
// only campaigns that have reached OPEN.
func (s *CampaignService) Get(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}

	if campaign.AdvertiserID == actorID || actorRole == models.RoleAdmin {
		return campaign, nil
	}
	switch campaign.Status {
	case models.CampaignStatusOpen, models.CampaignStatusMatching,
		models.CampaignStatusRunning, models.CampaignStatusCompleted:
		return campaign, nil
	}
	return nil, apperr.NotFound("campaign not found")
}

type CampaignPage struct {
	Campaigns  []models.Campaign `json:"campaigns"`
	NextCursor *string           `json:"nextCursor,omitempty"`
}

// List is role-scoped: advertisers see their own campaigns, influencers the
// open feed, admins everything. Cursor is the created_at of the last item.
func (s *CampaignService) List(ctx context.Context, actorID uuid.UUID, actorRole string, status *string, limit int, cursor string) (*CampaignPage, error) {
	f := repositories.CampaignFilter{Status: status, Limit: limit}
	switch actorRole {
	case models.RoleAdvertiser:
		f.AdvertiserID = &actorID
	case models.RoleInfluencer:
		if status == nil {
			open := models.CampaignStatusOpen
			f.Status = &open
		}
	}
	if cursor != "" {
		createdBefore, cursorID, err := parseListCursor(cursor)
		if err != nil {
			return nil, apperr.Validation("invalid cursor")
		}
		f.CreatedBefore = createdBefore
		f.CursorID = cursorID
	}

	cacheKey := listCacheKey(actorRole, actorID, f.Status, limit, cursor)
	var page CampaignPage
	if s.cache.Get(ctx, cacheKey, &page) {
		return &page, nil
	}

	campaigns, err := s.campaignRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page.Campaigns = campaigns
	if page.Campaigns == nil {
		page.Campaigns = []models.Campaign{}
	}
	if n := len(campaigns); n > 0 && n == normalizeLimit(limit) {
		c := formatListCursor(&campaigns[n-1])
		page.NextCursor = &c
	}

	s.cache.Set(ctx, cacheKey, page)
	return &page, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// listCacheKey derefs the status filter so identical requests share a key.
func listCacheKey(role string, actorID uuid.UUID, status *string, limit int, cursor string) string {
	st := ""
	if status != nil {
		st = *status
	}
	return fmt.Sprintf("campaigns:list:%s:%s:%s:%d:%s", role, actorID, st, limit, cursor)
}

// Cursors are "<created_at RFC3339Nano>,<id>"; the id breaks ties between
// rows sharing a timestamp.
func formatListCursor(c *models.Campaign) string {
	return c.CreatedAt.Format(time.RFC3339Nano) + "," + c.ID.String()
}

func parseListCursor(cursor string) (*time.Time, *uuid.UUID, error) {
	parts := strings.SplitN(cursor, ",", 2)
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, nil, err
	}
	if len(parts) == 1 {
		return &t, nil, nil
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, nil, err
	}
	return &t, &id, nil
}

func (s *CampaignService) GetSpecVersions(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string) ([]models.CampaignSpecVersion, error) {
	if _, err := s.getOwned(ctx, campaignID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.campaignRepo.ListSpecVersions(ctx, campaignID)
}

func (s *CampaignService) GetCurrentSpec(ctx context.Context, campaign *models.Campaign) (*models.CampaignSpecVersion, error) {
	if campaign.CurrentSpecVersionID == nil {
		return nil, nil
	}
	spec, err := s.campaignRepo.GetSpecVersion(ctx, *campaign.CurrentSpecVersionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return spec, nil
}

func (s *CampaignService) GetEvents(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string, limit int) ([]models.Event, error) {
	if _, err := s.getOwned(ctx, campaignID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByCampaign(ctx, campaignID, limit)
}

// getOwned loads the campaign and enforces owner-or-admin access.
func (s *CampaignService) getOwned(ctx context.Context, campaignID, actorID uuid.UUID, actorRole string) (*models.Campaign, error) {
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
	return campaign, nil
}

func (s *CampaignService) invalidateCaches(ctx context.Context) {
	s.cache.DeletePattern(ctx, "campaigns:*")
}
