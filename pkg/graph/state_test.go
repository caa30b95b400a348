package graph

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/finsight/graphview/pkg/common"
)

type blockingSource struct {
	fakeSource
	release chan struct{}
}

func (b *blockingSource) Users(ctx context.Context) ([]common.Entity, error) {
	<-b.release
	return b.fakeSource.Users(ctx)
}

func TestState_RejectsConcurrentReload(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	s := NewState()

	var wg sync.WaitGroup
	wg.Add(1)
	firstDone := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := s.Reload(context.Background(), src, BuildParams{})
		firstDone <- err
	}()

	for !s.Loading() {
		runtime.Gosched()
	}

	_, err := s.Reload(context.Background(), src, BuildParams{})
	if !errors.Is(err, ErrLoadInProgress) {
		t.Fatalf("expected ErrLoadInProgress, got %v", err)
	}

	close(src.release)
	wg.Wait()
	if err := <-firstDone; err != nil {
		t.Fatalf("first reload failed: %v", err)
	}

	// The guard resets once the load finishes.
	if _, err := s.Reload(context.Background(), src, BuildParams{}); err != nil {
		t.Fatalf("reload after completion failed: %v", err)
	}
}

func TestState_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	s := NewState()
	previous := &common.Graph{Nodes: []common.Node{{ID: "u1"}}}
	s.Set(previous)

	src := &fakeSource{usersErr: errors.New("upstream down")}
	if _, err := s.Reload(context.Background(), src, BuildParams{}); err == nil {
		t.Fatal("expected reload error, got nil")
	}

	if got := s.Current(); got != previous {
		t.Fatal("failed reload replaced the snapshot")
	}
}

func TestState_CurrentNeverNil(t *testing.T) {
	s := NewState()
	if s.Current() == nil {
		t.Fatal("Current() returned nil for a fresh state")
	}
	s.Set(nil)
	if s.Current() == nil {
		t.Fatal("Current() returned nil after Set(nil)")
	}
}

func TestState_Search(t *testing.T) {
	s := NewState()
	s.Set(&common.Graph{Nodes: []common.Node{
		{ID: "u1", Label: "Jane Doe"},
		{ID: "u2", Label: "John Doe"},
		{ID: "c1", Label: "Acme Ltd"},
	}})

	matches := s.Search("doe")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if got := s.Search(""); got != nil {
		t.Fatalf("empty query should match nothing, got %d", len(got))
	}

	if got := s.Search("zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
