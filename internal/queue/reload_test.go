package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/common"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/store/base"

	"github.com/goccy/go-json"
)

type staticSource struct {
	users        []common.Entity
	transactions []common.Entity
	err          error
}

func (s *staticSource) Users(ctx context.Context) ([]common.Entity, error) {
	return s.users, s.err
}

func (s *staticSource) Transactions(ctx context.Context) ([]common.Entity, error) {
	return s.transactions, s.err
}

func (s *staticSource) UserRelationships(ctx context.Context, userID string) (*api.UserRelationships, error) {
	return nil, nil
}

func (s *staticSource) BusinessRelationships(ctx context.Context, userID string) (*api.BusinessRelationships, error) {
	return nil, nil
}

func (s *staticSource) TransactionRelationships(ctx context.Context, transactionID string) (*api.TransactionRelationships, error) {
	return nil, nil
}

type memStore struct {
	saves         []string
	pruned        int
	saveErr       error
	pruneFailures int
}

func (m *memStore) SaveSnapshot(ctx context.Context, correlationID string, g *common.Graph) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.saves = append(m.saves, correlationID)
	return int64(len(m.saves)), nil
}

func (m *memStore) LatestSnapshot(ctx context.Context) (*base.Snapshot, error) {
	return nil, base.ErrNoSnapshot
}

func (m *memStore) PruneSnapshots(ctx context.Context, keep int) error {
	m.pruned++
	if m.pruned <= m.pruneFailures {
		return errors.New("deadlock detected")
	}
	return nil
}

func reloadBody(t *testing.T, correlationID string) string {
	t.Helper()
	b, err := json.Marshal(ReloadMessage{Message: "test", CorrelationID: correlationID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestProcessReloadMessage_RebuildsAndPersists(t *testing.T) {
	src := &staticSource{
		users:        []common.Entity{{"id": "u1", "name": "Jane"}},
		transactions: []common.Entity{{"id": "tx1", "amount": 5.0}},
	}
	state := graph.NewState()
	store := &memStore{}

	err := ProcessReloadMessage(context.Background(), src, state, store, reloadBody(t, "corr-1"))
	if err != nil {
		t.Fatalf("ProcessReloadMessage() error = %v", err)
	}

	if got := len(state.Current().Nodes); got != 2 {
		t.Fatalf("snapshot has %d nodes, want 2", got)
	}
	if len(store.saves) != 1 || store.saves[0] != "corr-1" {
		t.Fatalf("saves = %v", store.saves)
	}
	if store.pruned != 1 {
		t.Fatalf("pruned = %d, want 1", store.pruned)
	}
}

func TestProcessReloadMessage_PruneRetriesTransientFailure(t *testing.T) {
	src := &staticSource{
		users: []common.Entity{{"id": "u1", "name": "Jane"}},
	}
	state := graph.NewState()
	store := &memStore{pruneFailures: 1}

	err := ProcessReloadMessage(context.Background(), src, state, store, reloadBody(t, "corr-2"))
	if err != nil {
		t.Fatalf("ProcessReloadMessage() error = %v", err)
	}

	if store.pruned != 2 {
		t.Fatalf("expected 2 prune attempts, got %d", store.pruned)
	}
	if len(store.saves) != 1 {
		t.Fatalf("expected 1 save, got %d", len(store.saves))
	}
}

func TestProcessReloadMessage_NilStoreSkipsPersistence(t *testing.T) {
	src := &staticSource{users: []common.Entity{{"id": "u1"}}}
	state := graph.NewState()

	if err := ProcessReloadMessage(context.Background(), src, state, nil, reloadBody(t, "corr-2")); err != nil {
		t.Fatalf("ProcessReloadMessage() error = %v", err)
	}
	if got := len(state.Current().Nodes); got != 1 {
		t.Fatalf("snapshot has %d nodes, want 1", got)
	}
}

func TestProcessReloadMessage_UpstreamFailureIsRetryable(t *testing.T) {
	src := &staticSource{err: errors.New("upstream down")}
	state := graph.NewState()

	err := ProcessReloadMessage(context.Background(), src, state, nil, reloadBody(t, "corr-3"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestProcessReloadMessage_MalformedBody(t *testing.T) {
	state := graph.NewState()
	if err := ProcessReloadMessage(context.Background(), &staticSource{}, state, nil, "{not json"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
