package api

import (
	"github.com/finsight/graphview/pkg/common"
)

// RelationshipRecord is one entry of an incoming/outgoing relationship list.
// Records missing the node or the type are skipped by the pipeline.
type RelationshipRecord struct {
	Node       common.Entity  `json:"node"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// DirectRelationships groups a user's direct relationships by direction.
// Either list may be absent in the payload, which decodes as nil and is
// treated as empty.
type DirectRelationships struct {
	Incoming []RelationshipRecord `json:"incoming"`
	Outgoing []RelationshipRecord `json:"outgoing"`
}

// UserRelationships is the response of GET /relationships/user/{id}.
type UserRelationships struct {
	User          common.Entity       `json:"user"`
	Relationships DirectRelationships `json:"relationships"`
}

// BusinessRelationships is the response of GET /business-relationships/user/{id}.
type BusinessRelationships struct {
	User                  common.Entity       `json:"user"`
	BusinessRelationships DirectRelationships `json:"business_relationships"`
}

// TransactionLinks groups the relationship lists of a transaction.
type TransactionLinks struct {
	IncomingUsers      []RelationshipRecord `json:"incoming_users"`
	OutgoingUsers      []RelationshipRecord `json:"outgoing_users"`
	LinkedTransactions []RelationshipRecord `json:"linked_transactions"`
}

// TransactionRelationships is the response of GET /relationships/transaction/{id}.
type TransactionRelationships struct {
	Transaction   common.Entity    `json:"transaction"`
	Relationships TransactionLinks `json:"relationships"`
}

// PathRelationship is one hop of a shortest-path result.
type PathRelationship struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
}

// PathResult is the response of GET /analytics/shortest-path. A missing path
// is not an error; Found is false and the lists are empty.
type PathResult struct {
	Found         bool               `json:"found"`
	PathLength    int                `json:"path_length"`
	Nodes         []common.Entity    `json:"nodes"`
	Relationships []PathRelationship `json:"relationships"`
}

// Cluster is one entry of the transaction-clusters response.
type Cluster struct {
	Size              int             `json:"size"`
	CenterTransaction common.Entity   `json:"center_transaction"`
	Transactions      []common.Entity `json:"transactions"`
}

// ConnectedNode is a degree-ranked node inside the metrics payload.
type ConnectedNode struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ConnectionCount int    `json:"connection_count"`
}

// Metrics is the response of GET /analytics/graph-metrics.
type Metrics struct {
	TotalNodes             int             `json:"total_nodes"`
	UserCount              int             `json:"user_count"`
	CompanyCount           int             `json:"company_count"`
	TransactionCount       int             `json:"transaction_count"`
	RelationshipCount      int             `json:"relationship_count"`
	RelationshipTypeCounts map[string]int  `json:"relationship_type_counts"`
	MostConnectedNodes     []ConnectedNode `json:"most_connected_nodes"`
}
