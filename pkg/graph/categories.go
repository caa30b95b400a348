package graph

// RelationshipCategory groups concrete relationship types for bulk filtering.
type RelationshipCategory string

const (
	CategoryParentChild      RelationshipCategory = "PARENT_CHILD"
	CategoryDirector         RelationshipCategory = "DIRECTOR"
	CategoryShareholder      RelationshipCategory = "SHAREHOLDER"
	CategoryLegalEntity      RelationshipCategory = "LEGAL_ENTITY"
	CategoryComposite        RelationshipCategory = "COMPOSITE"
	CategorySharedAttributes RelationshipCategory = "SHARED_ATTRIBUTES"
	CategoryTransactionFlow  RelationshipCategory = "TRANSACTION"

	// CategoryUncategorized catches relationship types the backend produces
	// that the fixed table does not know about. Without it such edges would
	// silently escape every category filter.
	CategoryUncategorized RelationshipCategory = "UNCATEGORIZED"
)

var relationshipCategories = map[RelationshipCategory][]string{
	CategoryParentChild:      {"PARENT_OF", "SUBSIDIARY_OF"},
	CategoryDirector:         {"DIRECTOR_OF"},
	CategoryShareholder:      {"SHAREHOLDER_OF"},
	CategoryLegalEntity:      {"LEGAL_ENTITY_OF"},
	CategoryComposite:        {"COMPOSITE"},
	CategorySharedAttributes: {"SHARED_EMAIL", "SHARED_PHONE", "SHARED_ADDRESS", "SHARED_PAYMENT_METHOD"},
	CategoryTransactionFlow:  {"SENT", "RECEIVED_BY", "LINKED_TO"},
}

var typeToCategory = func() map[string]RelationshipCategory {
	m := make(map[string]RelationshipCategory)
	for category, types := range relationshipCategories {
		for _, t := range types {
			m[t] = category
		}
	}
	return m
}()

// CategoryOfType returns the filter category a relationship type belongs to.
// Unknown types fall into CategoryUncategorized.
func CategoryOfType(relType string) RelationshipCategory {
	if c, ok := typeToCategory[relType]; ok {
		return c
	}
	return CategoryUncategorized
}

// RelationshipCategories lists all filterable categories in a stable order.
func RelationshipCategories() []RelationshipCategory {
	return []RelationshipCategory{
		CategoryParentChild,
		CategoryDirector,
		CategoryShareholder,
		CategoryLegalEntity,
		CategoryComposite,
		CategorySharedAttributes,
		CategoryTransactionFlow,
		CategoryUncategorized,
	}
}
