package syncx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

func TestEventRepoRecordAndList(t *testing.T) {
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer h.Close()

	repo := NewEventRepo(h, "")
	require.NoError(t, repo.Record(ctx, EventQuizCreated, "s-1", map[string]int{"total_questions": 3}))
	require.NoError(t, repo.Record(ctx, EventQuizSubmitted, "s-1", map[string]float64{"score_percentage": 66.67}))
	require.NoError(t, repo.Record(ctx, EventQuizCreated, "s-2", nil))

	events, err := repo.List(ctx, "s-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventQuizCreated, events[0].Type)
	assert.Equal(t, EventQuizSubmitted, events[1].Type)
	assert.Equal(t, "local", events[1].SiteID)
	assert.JSONEq(t, `{"score_percentage":66.67}`, events[1].DataJSON)
	assert.Less(t, events[0].Seq, events[1].Seq)
}
