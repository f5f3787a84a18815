package storage

// Kind classifies a filterable column so operator application can reject
// nonsensical combinations early.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindJSON
)

// DeletionPolicy picks what Delete does for an entity. The schema mixes both
// policies per entity and the distinction must stay per-entity, not be
// generalized.
type DeletionPolicy int

const (
	// HardCascade removes rows; dependents go with them via FK cascade.
	HardCascade DeletionPolicy = iota
	// SoftFlag flips the entity's registered soft-delete fields instead of
	// removing storage.
	SoftFlag
)

// Field maps a public filter-field name onto a concrete column.
type Field struct {
	Column string
	Kind   Kind
}

// Schema is the field-descriptor table an entity registers once. Filters may
// only reference fields listed here; anything else is rejected before a query
// is built, so there is no runtime attribute reflection.
type Schema struct {
	Entity        string
	Table         string
	Fields        map[string]Field
	Deletion      DeletionPolicy
	SoftDeleteSet map[string]any
}

// Entity is implemented by every persisted model.
type Entity interface {
	Descriptor() Schema
}

func descriptorOf[T Entity]() Schema {
	var t T
	return t.Descriptor()
}
