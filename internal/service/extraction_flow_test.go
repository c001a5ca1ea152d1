package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/ai"
	"planbot/internal/flow"
	"planbot/internal/model"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/internal/testutil"
)

type fakeExtractor struct {
	drafts []ai.PlanDraft
	clock  string
}

func (f *fakeExtractor) ExtractPlans(ctx context.Context, text string, now time.Time) ([]ai.PlanDraft, error) {
	return f.drafts, nil
}

func (f *fakeExtractor) ResolveTime(ctx context.Context, text string, now time.Time) (string, error) {
	return f.clock, nil
}

var _ ai.Extractor = (*fakeExtractor)(nil)

// Full path from "soat 7 da turaman, 9 da kitob o'qiyman" to two stored
// pending plans: extraction, confirmation flow, persistence.
func TestExtractionToPersistedPlans(t *testing.T) {
	db := testutil.NewTestDB(t)
	planSvc := service.NewPlanService(repository.NewPlanRepository(db), time.UTC)
	ctx := context.Background()

	extractor := &fakeExtractor{drafts: []ai.PlanDraft{
		{Title: "Erta turish", ScheduledTime: "07:00", ScoreValue: 5},
		{Title: "Kitob o'qish", ScheduledTime: "09:00", ScoreValue: 5},
	}}

	now := time.Date(2026, 8, 30, 6, 30, 0, 0, time.UTC)
	drafts, err := extractor.ExtractPlans(ctx, "soat 7 da turaman, 9 da kitob o'qiyman", now)
	require.NoError(t, err)

	session := flow.NewSession(now)
	stage := session.SetDrafts(drafts, now)
	require.Equal(t, flow.StageConfirming, stage, "both candidates carry times, no questions needed")

	confirmed, ok := session.Accept()
	require.True(t, ok)

	user := testutil.CreateUser(t, db, 100)
	plans, err := planSvc.CreateFromDrafts(ctx, user, confirmed, now)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	stored, err := planSvc.TodayPlans(ctx, user, now)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Erta turish", stored[0].Title)
	assert.Equal(t, "07:00", stored[0].ScheduledTime)
	assert.Equal(t, model.PlanPending, stored[0].Status)
	assert.Equal(t, "Kitob o'qish", stored[1].Title)
	assert.Equal(t, "09:00", stored[1].ScheduledTime)
	assert.Equal(t, model.PlanPending, stored[1].Status)
}

// Same path when one candidate lacks a time: the flow asks, the resolved
// answer lands on the right candidate before persistence.
func TestExtractionWithTimeQuestion(t *testing.T) {
	db := testutil.NewTestDB(t)
	planSvc := service.NewPlanService(repository.NewPlanRepository(db), time.UTC)
	ctx := context.Background()

	extractor := &fakeExtractor{
		drafts: []ai.PlanDraft{
			{Title: "Erta turish", ScheduledTime: "07:00", ScoreValue: 5},
			{Title: "Kitob o'qish", ScoreValue: 5},
		},
		clock: "21:30",
	}

	now := time.Date(2026, 8, 30, 6, 30, 0, 0, time.UTC)
	drafts, err := extractor.ExtractPlans(ctx, "7 da turaman, kitob ham o'qiyman", now)
	require.NoError(t, err)

	session := flow.NewSession(now)
	require.Equal(t, flow.StageAskingTime, session.SetDrafts(drafts, now))

	title, ok := session.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "Kitob o'qish", title)

	clock, err := extractor.ResolveTime(ctx, "kechqurun yarim o'ttizda", now)
	require.NoError(t, err)
	require.Equal(t, flow.StageConfirming, session.ApplyTime(clock, now))

	confirmed, ok := session.Accept()
	require.True(t, ok)

	user := testutil.CreateUser(t, db, 100)
	_, err = planSvc.CreateFromDrafts(ctx, user, confirmed, now)
	require.NoError(t, err)

	stored, err := planSvc.TodayPlans(ctx, user, now)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "21:30", stored[1].ScheduledTime)
}
