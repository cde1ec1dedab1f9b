package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type fakeCampaignStore struct {
	approved          []models.Campaign
	runningPast       []models.Campaign
	overdue           []models.Campaign
	active            []models.Campaign
	completedNoReport []models.Campaign

	opened       []uuid.UUID
	completed    []uuid.UUID
	reminderFrom time.Time
	reminderTo   time.Time
}

func (f *fakeCampaignStore) GetApprovedBefore(_ context.Context, _ time.Time) ([]models.Campaign, error) {
	return f.approved, nil
}

func (f *fakeCampaignStore) MarkOpened(_ context.Context, _ repositories.Querier, id uuid.UUID, _ time.Time, _ *time.Time) error {
	f.opened = append(f.opened, id)
	return nil
}

func (f *fakeCampaignStore) GetRunningPastDeadline(_ context.Context, _ time.Time) ([]models.Campaign, error) {
	return f.runningPast, nil
}

func (f *fakeCampaignStore) MarkCompleted(_ context.Context, _ repositories.Querier, id uuid.UUID, _ time.Time) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeCampaignStore) GetOverdue(_ context.Context, _ time.Time) ([]models.Campaign, error) {
	return f.overdue, nil
}

func (f *fakeCampaignStore) GetActiveWithDeadlineBetween(_ context.Context, from, to time.Time) ([]models.Campaign, error) {
	f.reminderFrom, f.reminderTo = from, to
	return f.active, nil
}

func (f *fakeCampaignStore) GetCompletedWithoutReport(_ context.Context) ([]models.Campaign, error) {
	return f.completedNoReport, nil
}

type fakeSubmissionStore struct {
	approved map[string]bool // campaignID|influencerID
	metrics  []repositories.MetricAggregate
}

func submissionKey(campaignID, influencerID uuid.UUID) string {
	return campaignID.String() + "|" + influencerID.String()
}

func (f *fakeSubmissionStore) HasApprovedSubmission(_ context.Context, campaignID, influencerID uuid.UUID) (bool, error) {
	return f.approved[submissionKey(campaignID, influencerID)], nil
}

func (f *fakeSubmissionStore) AggregateMetrics(_ context.Context, _ uuid.UUID) ([]repositories.MetricAggregate, error) {
	return f.metrics, nil
}

type fakePenaltyStore struct {
	created []*models.Penalty
}

func (f *fakePenaltyStore) Exists(_ context.Context, campaignID, influencerID uuid.UUID, reason string) (bool, error) {
	for _, p := range f.created {
		if p.CampaignID == campaignID && p.InfluencerID == influencerID && p.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePenaltyStore) Create(_ context.Context, p *models.Penalty) error {
	f.created = append(f.created, p)
	return nil
}

type fakeReportStore struct {
	created []*models.Report
}

func (f *fakeReportStore) Create(_ context.Context, rep *models.Report) error {
	f.created = append(f.created, rep)
	return nil
}

type fakeEventStore struct {
	events []*models.Event
}

func (f *fakeEventStore) Create(_ context.Context, _ repositories.Querier, e *models.Event) error {
	f.events = append(f.events, e)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ string, _ events.Event) error { return nil }

type runnerFixture struct {
	runner      *Runner
	campaigns   *fakeCampaignStore
	submissions *fakeSubmissionStore
	penalties   *fakePenaltyStore
	reports     *fakeReportStore
	eventStore  *fakeEventStore
}

func newRunnerFixture(t *testing.T) *runnerFixture {
	t.Helper()
	f := &runnerFixture{
		campaigns:   &fakeCampaignStore{},
		submissions: &fakeSubmissionStore{approved: map[string]bool{}},
		penalties:   &fakePenaltyStore{},
		reports:     &fakeReportStore{},
		eventStore:  &fakeEventStore{},
	}
	cfg := &config.Config{AutoOpenDelay: time.Hour}
	f.runner = NewRunner(nil, f.campaigns, f.submissions, f.penalties, f.reports, f.eventStore,
		nil, noopPublisher{}, cfg, zaptest.NewLogger(t))
	return f
}

func runningCampaign(selected ...uuid.UUID) models.Campaign {
	deadline := time.Now().Add(-24 * time.Hour)
	ids := make([]string, 0, len(selected))
	for _, id := range selected {
		ids = append(ids, id.String())
	}
	return models.Campaign{
		ID:                    uuid.New(),
		Status:                models.CampaignStatusRunning,
		Title:                 "마감 지난 캠페인",
		DeadlineDate:          &deadline,
		SelectedInfluencerIDs: ids,
	}
}

func TestAutoOpenProcessesApproved(t *testing.T) {
	f := newRunnerFixture(t)
	c1 := models.Campaign{ID: uuid.New(), Status: models.CampaignStatusApproved}
	c2 := models.Campaign{ID: uuid.New(), Status: models.CampaignStatusApproved}
	f.campaigns.approved = []models.Campaign{c1, c2}

	result, err := f.runner.AutoOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c1.ID, c2.ID}, f.campaigns.opened)
	assert.Len(t, result.Processed, 2)
	assert.Len(t, f.eventStore.events, 2)
}

func TestAutoCompleteWaitsForAllApprovals(t *testing.T) {
	f := newRunnerFixture(t)
	inf1, inf2 := uuid.New(), uuid.New()
	c := runningCampaign(inf1, inf2)
	f.campaigns.runningPast = []models.Campaign{c}
	f.submissions.approved[submissionKey(c.ID, inf1)] = true

	result, err := f.runner.AutoComplete(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.campaigns.completed)
	assert.Equal(t, 1, result.Skipped)

	// second influencer delivers; next run completes the campaign
	f.submissions.approved[submissionKey(c.ID, inf2)] = true
	result, err = f.runner.AutoComplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, f.campaigns.completed)
	assert.Equal(t, []string{c.ID.String()}, result.Processed)
}

func TestAutoCompleteSkipsCampaignsWithoutSelection(t *testing.T) {
	f := newRunnerFixture(t)
	f.campaigns.runningPast = []models.Campaign{runningCampaign()}

	result, err := f.runner.AutoComplete(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.campaigns.completed)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Processed)
}

func TestOverdueDetectionCreatesPenaltyOnce(t *testing.T) {
	f := newRunnerFixture(t)
	inf := uuid.New()
	c := runningCampaign(inf)
	f.campaigns.overdue = []models.Campaign{c}

	result, err := f.runner.OverdueDetection(context.Background())
	require.NoError(t, err)
	require.Len(t, f.penalties.created, 1)
	assert.Equal(t, inf, f.penalties.created[0].InfluencerID)
	assert.Equal(t, models.PenaltyStatusPending, f.penalties.created[0].Status)
	assert.Equal(t, []string{c.ID.String()}, result.Processed)

	// re-run with the penalty already filed
	result, err = f.runner.OverdueDetection(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.penalties.created, 1)
	assert.Equal(t, 1, result.Skipped)
}

func TestOverdueDetectionIgnoresDelivered(t *testing.T) {
	f := newRunnerFixture(t)
	inf := uuid.New()
	c := runningCampaign(inf)
	f.campaigns.overdue = []models.Campaign{c}
	f.submissions.approved[submissionKey(c.ID, inf)] = true

	result, err := f.runner.OverdueDetection(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.penalties.created)
	assert.Equal(t, 1, result.Skipped)
}

func TestDeadlineReminderWindowIsTomorrow(t *testing.T) {
	f := newRunnerFixture(t)
	deadline := time.Now().AddDate(0, 0, 1)
	c := models.Campaign{ID: uuid.New(), Status: models.CampaignStatusMatching, DeadlineDate: &deadline}
	f.campaigns.active = []models.Campaign{c}

	result, err := f.runner.DeadlineReminder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID.String()}, result.Processed)
	wantFrom := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	assert.True(t, f.campaigns.reminderFrom.Equal(wantFrom))
	assert.True(t, f.campaigns.reminderTo.Equal(wantFrom.AddDate(0, 0, 1)))
	require.Len(t, f.eventStore.events, 1)
	assert.Equal(t, models.EventDeadlineReminder, f.eventStore.events[0].Type)
}

func TestGenerateReportsUsesPlaceholderWithoutLLM(t *testing.T) {
	f := newRunnerFixture(t)
	c := models.Campaign{ID: uuid.New(), Status: models.CampaignStatusCompleted, Title: "끝난 캠페인"}
	f.campaigns.completedNoReport = []models.Campaign{c}
	f.submissions.metrics = []repositories.MetricAggregate{{Metric: "likes", Total: 100, Count: 2}}

	result, err := f.runner.GenerateReports(context.Background())
	require.NoError(t, err)
	require.Len(t, f.reports.created, 1)
	assert.Equal(t, c.ID, f.reports.created[0].CampaignID)
	assert.Equal(t, narrativePlaceholder, f.reports.created[0].Narrative)
	assert.Len(t, result.Processed, 1)
}

func TestBuildKPIResults(t *testing.T) {
	aggs := []repositories.MetricAggregate{
		{Metric: "likes", Total: 300, Count: 3},
		{Metric: "views", Total: 50000, Count: 2},
	}

	results := BuildKPIResults(aggs)
	require.Len(t, results, 2)

	assert.Equal(t, "likes", results[0].Metric)
	assert.Equal(t, 300.0, results[0].Actual)
	assert.Equal(t, 100.0, results[0].Average)

	assert.Equal(t, "views", results[1].Metric)
	assert.Equal(t, 50000.0, results[1].Actual)
	assert.Equal(t, 25000.0, results[1].Average)
}

func TestBuildKPIResultsEmpty(t *testing.T) {
	results := BuildKPIResults(nil)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestBuildKPIResultsZeroCount(t *testing.T) {
	results := BuildKPIResults([]repositories.MetricAggregate{
		{Metric: "shares", Total: 0, Count: 0},
	})
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Average)
}
