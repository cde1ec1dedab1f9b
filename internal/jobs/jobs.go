package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/llm"
	"github.com/influmatch/backend/internal/metrics"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

// The runner depends on these narrow views of the repositories rather than
// the concrete structs so the job preconditions can be tested against fakes.
type CampaignStore interface {
	GetApprovedBefore(ctx context.Context, cutoff time.Time) ([]models.Campaign, error)
	MarkOpened(ctx context.Context, q repositories.Querier, id uuid.UUID, at time.Time, deadline *time.Time) error
	GetRunningPastDeadline(ctx context.Context, now time.Time) ([]models.Campaign, error)
	MarkCompleted(ctx context.Context, q repositories.Querier, id uuid.UUID, at time.Time) error
	GetOverdue(ctx context.Context, now time.Time) ([]models.Campaign, error)
	GetActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.Campaign, error)
	GetCompletedWithoutReport(ctx context.Context) ([]models.Campaign, error)
}

type SubmissionStore interface {
	HasApprovedSubmission(ctx context.Context, campaignID, influencerID uuid.UUID) (bool, error)
	AggregateMetrics(ctx context.Context, campaignID uuid.UUID) ([]repositories.MetricAggregate, error)
}

type PenaltyStore interface {
	Exists(ctx context.Context, campaignID, influencerID uuid.UUID, reason string) (bool, error)
	Create(ctx context.Context, p *models.Penalty) error
}

type ReportStore interface {
	Create(ctx context.Context, rep *models.Report) error
}

type EventStore interface {
	Create(ctx context.Context, q repositories.Querier, e *models.Event) error
}

// Runner holds the scheduled jobs. Every job is idempotent: it only acts on
// rows matching its precondition, so re-runs and overlapping invocations are
// harmless. One campaign's failure never aborts the rest of the batch.
type Runner struct {
	db          repositories.Querier
	campaigns   CampaignStore
	submissions SubmissionStore
	penalties   PenaltyStore
	reports     ReportStore
	eventStore  EventStore
	llm         *llm.Client
	publisher   events.Publisher
	cfg         *config.Config
	log         *zap.Logger
}

func NewRunner(
	db repositories.Querier,
	campaigns CampaignStore,
	submissions SubmissionStore,
	penalties PenaltyStore,
	reports ReportStore,
	eventStore EventStore,
	llmClient *llm.Client,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *Runner {
	return &Runner{
		db:          db,
		campaigns:   campaigns,
		submissions: submissions,
		penalties:   penalties,
		reports:     reports,
		eventStore:  eventStore,
		llm:         llmClient,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
}

// Result reports what a job actually did, not what it attempted.
type Result struct {
	Job         string   `json:"job"`
	Processed   []string `json:"processed"`
	Skipped     int      `json:"skipped"`
	FailedCount int      `json:"failedCount"`
}

func (r *Runner) audit(ctx context.Context, campaignID *uuid.UUID, eventType string, payload map[string]any) {
	e := &models.Event{
		CampaignID: campaignID,
		ActorID:    models.SystemActor,
		ActorRole:  models.SystemActor,
		Type:       eventType,
		Payload:    payload,
	}
	if err := r.eventStore.Create(ctx, r.db, e); err != nil {
		r.log.Error("failed to write job event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := r.publisher.Publish(ctx, events.StreamCampaign, events.Event{Type: eventType, Payload: payload}); err != nil {
		r.log.Warn("failed to publish job event", zap.String("type", eventType), zap.Error(err))
	}
}

func (r *Runner) finish(result *Result) *Result {
	outcome := "ok"
	if result.FailedCount > 0 {
		outcome = "partial"
	}
	metrics.JobRuns.WithLabelValues(result.Job, outcome).Inc()
	r.log.Info("job finished",
		zap.String("job", result.Job),
		zap.Int("processed", len(result.Processed)),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.FailedCount))
	return result
}

// AutoOpen transitions APPROVED campaigns to OPEN once the approval delay
// has fully elapsed. The boundary is inclusive: approved exactly delay ago
// qualifies.
func (r *Runner) AutoOpen(ctx context.Context) (*Result, error) {
	result := &Result{Job: "auto-open", Processed: []string{}}

	cutoff := time.Now().Add(-r.cfg.AutoOpenDelay)
	campaigns, err := r.campaigns.GetApprovedBefore(ctx, cutoff)
	if err != nil {
		metrics.JobRuns.WithLabelValues(result.Job, "error").Inc()
		return nil, err
	}

	for _, c := range campaigns {
		now := time.Now()
		if err := r.campaigns.MarkOpened(ctx, r.db, c.ID, now, nil); err != nil {
			r.log.Error("auto-open failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}
		metrics.CampaignTransitions.WithLabelValues(models.CampaignStatusApproved, models.CampaignStatusOpen).Inc()
		r.audit(ctx, &c.ID, models.EventStatusChanged, map[string]any{
			"campaign_id": c.ID.String(),
			"from":        models.CampaignStatusApproved,
			"to":          models.CampaignStatusOpen,
		})
		result.Processed = append(result.Processed, c.ID.String())
	}
	return r.finish(result), nil
}

// AutoComplete finishes RUNNING campaigns past their deadline once every
// selected influencer has an approved submission. Campaigns with nobody
// selected stay RUNNING.
func (r *Runner) AutoComplete(ctx context.Context) (*Result, error) {
	result := &Result{Job: "auto-complete", Processed: []string{}}

	campaigns, err := r.campaigns.GetRunningPastDeadline(ctx, time.Now())
	if err != nil {
		metrics.JobRuns.WithLabelValues(result.Job, "error").Inc()
		return nil, err
	}

	for _, c := range campaigns {
		if len(c.SelectedInfluencerIDs) == 0 {
			result.Skipped++
			continue
		}

		done, err := r.allSelectedApproved(ctx, &c)
		if err != nil {
			r.log.Error("auto-complete check failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}
		if !done {
			result.Skipped++
			continue
		}

		now := time.Now()
		if err := r.campaigns.MarkCompleted(ctx, r.db, c.ID, now); err != nil {
			r.log.Error("auto-complete failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}
		metrics.CampaignTransitions.WithLabelValues(models.CampaignStatusRunning, models.CampaignStatusCompleted).Inc()
		r.audit(ctx, &c.ID, models.EventCampaignCompleted, map[string]any{
			"campaign_id": c.ID.String(),
		})
		result.Processed = append(result.Processed, c.ID.String())
	}
	return r.finish(result), nil
}

func (r *Runner) allSelectedApproved(ctx context.Context, c *models.Campaign) (bool, error) {
	for _, idStr := range c.SelectedInfluencerIDs {
		influencerID, err := uuid.Parse(idStr)
		if err != nil {
			return false, fmt.Errorf("bad influencer id %q: %w", idStr, err)
		}
		ok, err := r.submissions.HasApprovedSubmission(ctx, c.ID, influencerID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// OverdueDetection files a pending warning penalty for every selected
// influencer without an approved submission on an overdue campaign. It
// never changes campaign status; penalties are a human-reviewed queue.
func (r *Runner) OverdueDetection(ctx context.Context) (*Result, error) {
	result := &Result{Job: "overdue-detection", Processed: []string{}}

	overdue, err := r.campaigns.GetOverdue(ctx, time.Now())
	if err != nil {
		metrics.JobRuns.WithLabelValues(result.Job, "error").Inc()
		return nil, err
	}

	for _, c := range overdue {
		offenders, err := r.detectOffenders(ctx, &c)
		if err != nil {
			r.log.Error("overdue detection failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}
		if len(offenders) == 0 {
			result.Skipped++
			continue
		}
		r.audit(ctx, &c.ID, models.EventDeadlineOverdue, map[string]any{
			"campaign_id":    c.ID.String(),
			"influencer_ids": offenders,
		})
		result.Processed = append(result.Processed, c.ID.String())
	}
	return r.finish(result), nil
}

// detectOffenders returns the influencer ids it created new penalties for.
func (r *Runner) detectOffenders(ctx context.Context, c *models.Campaign) ([]string, error) {
	var offenders []string
	for _, idStr := range c.SelectedInfluencerIDs {
		influencerID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("bad influencer id %q: %w", idStr, err)
		}

		approved, err := r.submissions.HasApprovedSubmission(ctx, c.ID, influencerID)
		if err != nil {
			return nil, err
		}
		if approved {
			continue
		}

		exists, err := r.penalties.Exists(ctx, c.ID, influencerID, models.PenaltyReasonDeadlineOverdue)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		penalty := &models.Penalty{
			CampaignID:   c.ID,
			InfluencerID: influencerID,
			Reason:       models.PenaltyReasonDeadlineOverdue,
			Description:  fmt.Sprintf("캠페인 '%s' 마감일까지 승인된 콘텐츠가 없습니다.", c.Title),
			Type:         models.PenaltyTypeWarning,
			Status:       models.PenaltyStatusPending,
			AppliedBy:    models.SystemActor,
		}
		if err := r.penalties.Create(ctx, penalty); err != nil {
			return nil, err
		}
		offenders = append(offenders, idStr)
	}
	return offenders, nil
}

// GenerateReports writes a report for every COMPLETED campaign that lacks
// one: per-metric sums and means over approved submissions, plus an LLM
// narrative that degrades to a placeholder on failure.
func (r *Runner) GenerateReports(ctx context.Context) (*Result, error) {
	result := &Result{Job: "generate-reports", Processed: []string{}}

	campaigns, err := r.campaigns.GetCompletedWithoutReport(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(result.Job, "error").Inc()
		return nil, err
	}

	for _, c := range campaigns {
		aggs, err := r.submissions.AggregateMetrics(ctx, c.ID)
		if err != nil {
			r.log.Error("report aggregation failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}

		kpis := BuildKPIResults(aggs)
		report := &models.Report{
			CampaignID:  c.ID,
			Summary:     fmt.Sprintf("캠페인 '%s' 성과 리포트 (승인된 콘텐츠 기준)", c.Title),
			KPIResults:  kpis,
			Narrative:   r.narrative(ctx, &c, kpis),
			GeneratedBy: models.SystemActor,
		}
		if err := r.reports.Create(ctx, report); err != nil {
			r.log.Error("report create failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			result.FailedCount++
			continue
		}
		result.Processed = append(result.Processed, c.ID.String())
	}
	return r.finish(result), nil
}

// BuildKPIResults turns raw metric aggregates into per-metric sum + mean.
func BuildKPIResults(aggs []repositories.MetricAggregate) []models.KPIResult {
	results := make([]models.KPIResult, 0, len(aggs))
	for _, a := range aggs {
		avg := 0.0
		if a.Count > 0 {
			avg = a.Total / float64(a.Count)
		}
		results = append(results, models.KPIResult{Metric: a.Metric, Actual: a.Total, Average: avg})
	}
	return results
}

const narrativePlaceholder = "성과 요약을 생성하지 못했습니다. 지표를 직접 확인해주세요."

func (r *Runner) narrative(ctx context.Context, c *models.Campaign, kpis []models.KPIResult) string {
	if r.cfg.OpenAIAPIKey == "" {
		return narrativePlaceholder
	}

	lines := make([]string, 0, len(kpis))
	for _, k := range kpis {
		lines = append(lines, fmt.Sprintf("- %s: 합계 %.0f / 평균 %.1f", k.Metric, k.Actual, k.Average))
	}

	text, err := r.llm.GenerateReportNarrative(ctx, c.Title, lines)
	if err != nil {
		r.log.Warn("narrative generation failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
		return narrativePlaceholder
	}
	return text
}

// DeadlineReminder emits one reminder event per campaign whose deadline
// falls tomorrow.
func (r *Runner) DeadlineReminder(ctx context.Context) (*Result, error) {
	result := &Result{Job: "deadline-reminder", Processed: []string{}}

	now := time.Now()
	from := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 1)

	campaigns, err := r.campaigns.GetActiveWithDeadlineBetween(ctx, from, to)
	if err != nil {
		metrics.JobRuns.WithLabelValues(result.Job, "error").Inc()
		return nil, err
	}

	for _, c := range campaigns {
		r.audit(ctx, &c.ID, models.EventDeadlineReminder, map[string]any{
			"campaign_id": c.ID.String(),
			"deadline":    c.DeadlineDate,
		})
		result.Processed = append(result.Processed, c.ID.String())
	}
	return r.finish(result), nil
}
