package filestore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
)

func TestWatcherNotifiesOnSaveAndDelete(t *testing.T) {
	s := newTestStore(t)
	w, err := NewWatcher(s, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	var mu sync.Mutex
	var events []ChangeEvent
	w.Subscribe(func(e ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, s.SaveDocument("watched", sampleDoc(), nil))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e.CacheKey == "watched" && !e.Removed {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Delete("watched"))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e.CacheKey == "watched" && e.Removed {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherInvalidatesListingCache(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveDocument("ch1", sampleDoc(), graph.Metadata{"novel_name": "x"}))

	w, err := NewWatcher(s, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	first, err := s.ListMetadata()
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, s.SaveDocument("ch2", sampleDoc(), graph.Metadata{"novel_name": "y"}))
	require.Eventually(t, func() bool {
		listing, err := s.ListMetadata()
		return err == nil && len(listing) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetadataChangeEventFlagged(t *testing.T) {
	s := newTestStore(t)
	w, err := NewWatcher(s, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	var mu sync.Mutex
	var metaEvents []ChangeEvent
	w.Subscribe(func(e ChangeEvent) {
		if !e.Metadata {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		metaEvents = append(metaEvents, e)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, s.SaveDocument("ch1", sampleDoc(), graph.Metadata{"novel_name": "x"}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(metaEvents) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "ch1", metaEvents[0].CacheKey)
}
