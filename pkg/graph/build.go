package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/common"
	"github.com/finsight/graphview/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Source is the slice of the graph API the assembly pipeline consumes. It is
// satisfied by *api.Client and by fakes in tests.
type Source interface {
	Users(ctx context.Context) ([]common.Entity, error)
	Transactions(ctx context.Context) ([]common.Entity, error)
	UserRelationships(ctx context.Context, userID string) (*api.UserRelationships, error)
	BusinessRelationships(ctx context.Context, userID string) (*api.BusinessRelationships, error)
	TransactionRelationships(ctx context.Context, transactionID string) (*api.TransactionRelationships, error)
}

// Builder accumulates nodes and edges during a load cycle. Nodes dedup by id
// with first-insert-wins; edges dedup by their deterministic id with
// last-write-wins for properties. A mutex guards both maps so the relationship
// fan-out may run in parallel.
type Builder struct {
	mu    sync.Mutex
	nodes map[string]common.Node
	edges map[string]common.Edge
}

// NewBuilder returns an empty accumulator.
func NewBuilder() *Builder {
	return &Builder{
		nodes: make(map[string]common.Node),
		edges: make(map[string]common.Edge),
	}
}

// AddEntity classifies the entity and inserts it as a node. Entities without
// an id are ignored. Returns false when a node with that id already exists;
// the existing node is kept untouched.
func (b *Builder) AddEntity(e common.Entity) bool {
	return b.addEntity(e, Classify(e))
}

// AddEntityAs inserts the entity under a fixed category, bypassing the
// classifier. Top-level transactions and linked transactions are always
// transaction nodes regardless of their field shape.
func (b *Builder) AddEntityAs(e common.Entity, category common.Category) bool {
	return b.addEntity(e, category)
}

func (b *Builder) addEntity(e common.Entity, category common.Category) bool {
	id := e.ID()
	if id == "" {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.nodes[id]; exists {
		return false
	}
	b.nodes[id] = common.Node{
		ID:       id,
		Label:    Label(e),
		Category: category,
		Size:     Size(e),
		Entity:   e,
	}
	return true
}

// AddEdge inserts or overwrites the edge keyed by its deterministic id.
func (b *Builder) AddEdge(sourceID, targetID, relType string, properties map[string]any) {
	id := common.EdgeID(sourceID, relType, targetID)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.edges[id] = common.Edge{
		ID:         id,
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       relType,
		Label:      relType,
		Properties: properties,
	}
}

// Len reports the current node and edge counts.
func (b *Builder) Len() (nodes, edges int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes), len(b.edges)
}

// Graph freezes the accumulator into an id-sorted snapshot. Insertion order
// carries no meaning (the relationship fan-out makes it nondeterministic), so
// a sorted order is imposed for stable output.
func (b *Builder) Graph() *common.Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := &common.Graph{
		Nodes: make([]common.Node, 0, len(b.nodes)),
		Edges: make([]common.Edge, 0, len(b.edges)),
	}
	for _, n := range b.nodes {
		g.Nodes = append(g.Nodes, n)
	}
	for _, e := range b.edges {
		g.Edges = append(g.Edges, e)
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool { return g.Edges[i].ID < g.Edges[j].ID })
	return g
}

// BuildParams tunes a full load. Parallelism bounds the per-entity
// relationship fan-out; values below 1 mean sequential.
type BuildParams struct {
	Parallelism int
}

// Build performs one full load cycle against the source: users and
// transactions are fetched concurrently (either failing aborts the load),
// both sets are seeded as nodes, then relationships are fetched per entity.
// A failed relationship fetch degrades that entity's edges, never the load.
func Build(ctx context.Context, src Source, params BuildParams) (*common.Graph, error) {
	b := NewBuilder()

	var users, transactions []common.Entity
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if users, err = src.Users(egCtx); err != nil {
			return fmt.Errorf("failed to fetch users: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if transactions, err = src.Transactions(egCtx); err != nil {
			return fmt.Errorf("failed to fetch transactions: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Info("[Graph] Seeding nodes", "users", len(users), "transactions", len(transactions))

	for _, u := range users {
		b.AddEntity(u)
	}
	for _, t := range transactions {
		b.AddEntityAs(t, common.CategoryTransaction)
	}

	parallelism := params.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	// Degraded fetches log and continue, so the group never carries an error;
	// it only bounds the fan-out.
	fan := new(errgroup.Group)
	fan.SetLimit(parallelism)

	for _, u := range users {
		user := u
		fan.Go(func() error {
			b.collectUserRelationships(ctx, src, user)
			return nil
		})
	}
	for _, t := range transactions {
		transaction := t
		fan.Go(func() error {
			b.collectTransactionRelationships(ctx, src, transaction)
			return nil
		})
	}
	_ = fan.Wait()

	nodes, edges := b.Len()
	logger.Info("[Graph] Load complete", "nodes", nodes, "edges", edges)

	return b.Graph(), nil
}

func (b *Builder) collectUserRelationships(ctx context.Context, src Source, user common.Entity) {
	userID := user.ID()
	if userID == "" {
		return
	}

	rels, err := src.UserRelationships(ctx, userID)
	if err != nil {
		logger.Warn("[Graph] Skipping user relationships", "user_id", userID, "err", err)
	} else if rels != nil {
		b.mergeDirect(userID, rels.Relationships)
	}

	// Transactions never carry business relationships.
	if Classify(user) == common.CategoryTransaction {
		return
	}

	biz, err := src.BusinessRelationships(ctx, userID)
	if err != nil {
		logger.Warn("[Graph] Skipping business relationships", "user_id", userID, "err", err)
	} else if biz != nil {
		b.mergeDirect(userID, biz.BusinessRelationships)
	}
}

func (b *Builder) collectTransactionRelationships(ctx context.Context, src Source, transaction common.Entity) {
	transactionID := transaction.ID()
	if transactionID == "" {
		return
	}

	rels, err := src.TransactionRelationships(ctx, transactionID)
	if err != nil {
		logger.Warn("[Graph] Skipping transaction relationships", "transaction_id", transactionID, "err", err)
		return
	}
	if rels == nil {
		return
	}

	for _, rec := range rels.Relationships.IncomingUsers {
		if counterpartID, ok := b.ensureCounterpart(rec); ok {
			b.AddEdge(counterpartID, transactionID, rec.Type, rec.Properties)
		}
	}
	for _, rec := range rels.Relationships.OutgoingUsers {
		if counterpartID, ok := b.ensureCounterpart(rec); ok {
			b.AddEdge(transactionID, counterpartID, rec.Type, rec.Properties)
		}
	}
	for _, rec := range rels.Relationships.LinkedTransactions {
		if rec.Node == nil || rec.Type == "" {
			continue
		}
		linkedID := rec.Node.ID()
		if linkedID == "" {
			continue
		}
		b.AddEntityAs(rec.Node, common.CategoryTransaction)
		b.AddEdge(transactionID, linkedID, rec.Type, rec.Properties)
	}
}

// mergeDirect folds an incoming/outgoing relationship pair into the
// accumulator, inserting the counterpart node on first sight.
func (b *Builder) mergeDirect(entityID string, rels api.DirectRelationships) {
	for _, rec := range rels.Outgoing {
		if counterpartID, ok := b.ensureCounterpart(rec); ok {
			b.AddEdge(entityID, counterpartID, rec.Type, rec.Properties)
		}
	}
	for _, rec := range rels.Incoming {
		if counterpartID, ok := b.ensureCounterpart(rec); ok {
			b.AddEdge(counterpartID, entityID, rec.Type, rec.Properties)
		}
	}
}

// ensureCounterpart validates a relationship record and inserts its node if
// missing. Records without a node, a type, or a node id are skipped.
func (b *Builder) ensureCounterpart(rec api.RelationshipRecord) (string, bool) {
	if rec.Node == nil || rec.Type == "" {
		return "", false
	}
	id := rec.Node.ID()
	if id == "" {
		return "", false
	}
	b.AddEntity(rec.Node)
	return id, true
}
