package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
	"github.com/sa03134/soomgo-competitor-tracker/internal/testutil"
)

func TestNewFetcher_SelectsEngine(t *testing.T) {
	logger := &testutil.MockLogger{}

	f, err := NewFetcher(&structures.Config{Fetcher: structures.FetcherConfig{Engine: EngineRod}}, logger)
	require.NoError(t, err)
	assert.IsType(t, &RodFetcher{}, f)

	f, err = NewFetcher(&structures.Config{Fetcher: structures.FetcherConfig{Engine: EngineChromedp}}, logger)
	require.NoError(t, err)
	assert.IsType(t, &ChromedpFetcher{}, f)

	_, err = NewFetcher(&structures.Config{Fetcher: structures.FetcherConfig{Engine: "selenium"}}, logger)
	assert.Error(t, err)
}

func TestNewFetcher_DoesNotStartBrowser(t *testing.T) {
	f, err := NewFetcher(&structures.Config{Fetcher: structures.FetcherConfig{Engine: EngineRod}}, &testutil.MockLogger{})
	require.NoError(t, err)

	assert.Nil(t, f.(*RodFetcher).browser)
	assert.NoError(t, f.Close())
}

func TestBuildPage_UsesRenderedText(t *testing.T) {
	page, err := buildPage("https://soomgo.com/profile/users/1", "고용 507",
		`<div class="statistics-info-item-contents">507회</div>`)
	require.NoError(t, err)

	assert.Equal(t, "고용 507", page.Text())
	els := page.Query("div.statistics-info-item-contents")
	require.Len(t, els, 1)
	assert.Equal(t, "507회", els[0].Text)
}

func TestBuildPage_EmptySnapshotIsFetchFailure(t *testing.T) {
	_, err := buildPage("https://soomgo.com/profile/users/1", "", "")
	assert.True(t, errors.Is(err, ErrFetch))
	assert.Contains(t, err.Error(), "https://soomgo.com/profile/users/1")
}

func TestSettle_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := settle(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, settle(context.Background(), 0))
}
