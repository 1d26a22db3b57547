package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/service"
)

func testPattern(merchant string, status model.PatternStatus, confidence float64) *model.RecurringPattern {
	last := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	return &model.RecurringPattern{
		SpaceID:         testSpace,
		MerchantName:    merchant,
		ExpectedAmount:  15.99,
		Frequency:       model.FrequencyMonthly,
		Status:          status,
		LastOccurrence:  last,
		NextExpected:    model.NextExpected(last, model.FrequencyMonthly),
		OccurrenceCount: 5,
		Confidence:      confidence,
		Currency:        "USD",
	}
}

func TestSaveDetectedPattern_LinksTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := monthlyTransactions("Netflix", 15.99, 4)
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	pattern := testPattern("Netflix", model.PatternDetected, 0.87)
	require.NoError(t, store.SaveDetectedPattern(ctx, pattern, []string{"Netflix-1", "Netflix-2", "Netflix-3"}))
	require.NotEmpty(t, pattern.ID)

	got, err := store.GetPattern(ctx, pattern.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.MerchantName)
	assert.Equal(t, model.PatternDetected, got.Status)
	assert.True(t, got.NextExpected.Equal(pattern.NextExpected))

	unlinked, err := store.GetTransactions(ctx, service.TransactionFilter{SpaceID: testSpace, UnlinkedOnly: true})
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, "Netflix-4", unlinked[0].ID)
}

func TestSaveDetectedPattern_RollsBackOnMissingTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, monthlyTransactions("Netflix", 15.99, 1))
	require.NoError(t, err)

	pattern := testPattern("Netflix", model.PatternDetected, 0.87)
	err = store.SaveDetectedPattern(ctx, pattern, []string{"Netflix-1", "ghost"})
	require.ErrorIs(t, err, common.ErrNotFound)

	patterns, err := store.GetPatterns(ctx, testSpace)
	require.NoError(t, err)
	assert.Empty(t, patterns)

	txn, err := store.GetTransactionByID(ctx, "Netflix-1")
	require.NoError(t, err)
	assert.False(t, txn.IsLinked())
}

func TestSaveDetectedPattern_RejectsLinkedTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, monthlyTransactions("Netflix", 15.99, 3))
	require.NoError(t, err)

	owner := testPattern("Netflix Premium", model.PatternConfirmed, 0.9)
	require.NoError(t, store.SaveDetectedPattern(ctx, owner, []string{"Netflix-2"}))

	stale := testPattern("Netflix", model.PatternDetected, 0.87)
	err = store.SaveDetectedPattern(ctx, stale, []string{"Netflix-1", "Netflix-2", "Netflix-3"})
	require.ErrorIs(t, err, common.ErrAlreadyLinked)

	patterns, err := store.GetPatterns(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, owner.ID, patterns[0].ID)

	txn, err := store.GetTransactionByID(ctx, "Netflix-2")
	require.NoError(t, err)
	require.True(t, txn.IsLinked())
	assert.Equal(t, owner.ID, *txn.PatternID)

	txn, err = store.GetTransactionByID(ctx, "Netflix-1")
	require.NoError(t, err)
	assert.False(t, txn.IsLinked())
}

func TestApplyPatternMatch_RejectsLinkedTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, monthlyTransactions("Netflix", 15.99, 1))
	require.NoError(t, err)

	first := testPattern("Netflix", model.PatternConfirmed, 0.9)
	require.NoError(t, store.SaveDetectedPattern(ctx, first, []string{"Netflix-1"}))
	second := testPattern("Netflix Premium", model.PatternConfirmed, 0.9)
	require.NoError(t, store.SaveDetectedPattern(ctx, second, nil))

	err = store.ApplyPatternMatch(ctx, model.PatternMatch{
		PatternID:       second.ID,
		TransactionID:   "Netflix-1",
		LastOccurrence:  second.LastOccurrence,
		NextExpected:    second.NextExpected,
		OccurrenceCount: second.OccurrenceCount + 1,
	})
	require.ErrorIs(t, err, common.ErrAlreadyLinked)

	got, err := store.GetPattern(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.OccurrenceCount, got.OccurrenceCount)
}

func TestSaveDetectedPattern_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bad := testPattern("Netflix", model.PatternDetected, 0.87)
	bad.Frequency = "fortnightly"
	assert.ErrorIs(t, store.SaveDetectedPattern(ctx, bad, nil), ErrInvalidPattern)

	bad = testPattern(" ", model.PatternDetected, 0.87)
	assert.ErrorIs(t, store.SaveDetectedPattern(ctx, bad, nil), ErrInvalidPattern)

	assert.ErrorIs(t, store.SaveDetectedPattern(ctx, nil, nil), ErrNilParameter)
}

func TestGetPatterns_StatusFilterAndOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDetectedPattern(ctx, testPattern("Hulu", model.PatternDetected, 0.7), nil))
	require.NoError(t, store.SaveDetectedPattern(ctx, testPattern("Netflix", model.PatternConfirmed, 0.9), nil))
	require.NoError(t, store.SaveDetectedPattern(ctx, testPattern("Gym", model.PatternDismissed, 0.8), nil))

	all, err := store.GetPatterns(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Netflix", "Gym", "Hulu"},
		[]string{all[0].MerchantName, all[1].MerchantName, all[2].MerchantName})

	tracked, err := store.GetPatterns(ctx, testSpace, model.PatternConfirmed, model.PatternDetected)
	require.NoError(t, err)
	assert.Len(t, tracked, 2)

	none, err := store.GetPatterns(ctx, "other-space")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdatePatternStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	pattern := testPattern("Netflix", model.PatternDetected, 0.87)
	require.NoError(t, store.SaveDetectedPattern(ctx, pattern, nil))

	require.NoError(t, store.UpdatePatternStatus(ctx, pattern.ID, model.PatternConfirmed))
	got, err := store.GetPattern(ctx, pattern.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PatternConfirmed, got.Status)

	assert.ErrorIs(t, store.UpdatePatternStatus(ctx, "missing", model.PatternConfirmed), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdatePatternStatus(ctx, pattern.ID, "bogus"), ErrInvalidPattern)
}

func TestApplyPatternMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := monthlyTransactions("Netflix", 15.99, 4)
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	pattern := testPattern("Netflix", model.PatternConfirmed, 0.87)
	require.NoError(t, store.SaveDetectedPattern(ctx, pattern, []string{"Netflix-1", "Netflix-2", "Netflix-3"}))

	newest := txns[3].Date
	match := model.PatternMatch{
		PatternID:       pattern.ID,
		TransactionID:   "Netflix-4",
		LastOccurrence:  newest,
		NextExpected:    model.NextExpected(newest, model.FrequencyMonthly),
		OccurrenceCount: 6,
	}
	require.NoError(t, store.ApplyPatternMatch(ctx, match))

	got, err := store.GetPattern(ctx, pattern.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.OccurrenceCount)
	assert.True(t, got.LastOccurrence.Equal(newest))
	assert.True(t, got.NextExpected.Equal(match.NextExpected))

	txn, err := store.GetTransactionByID(ctx, "Netflix-4")
	require.NoError(t, err)
	require.True(t, txn.IsLinked())
	assert.Equal(t, pattern.ID, *txn.PatternID)

	match.PatternID = "missing"
	assert.ErrorIs(t, store.ApplyPatternMatch(ctx, match), common.ErrNotFound)
}

func TestGetUnclassifiedPatterns(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	netflix := testPattern("Netflix", model.PatternConfirmed, 0.9)
	hulu := testPattern("Hulu", model.PatternConfirmed, 0.8)
	detected := testPattern("Gym", model.PatternDetected, 0.8)
	for _, p := range []*model.RecurringPattern{netflix, hulu, detected} {
		require.NoError(t, store.SaveDetectedPattern(ctx, p, nil))
	}

	require.NoError(t, store.SaveSubscription(ctx, testSubscription(netflix.ID, "Netflix")))

	got, err := store.GetUnclassifiedPatterns(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, hulu.ID, got[0].ID)
}
