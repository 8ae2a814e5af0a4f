package component

// EntityType is the gameplay tag of an entity. Pieces carry their parent's
// type.
type EntityType string

const (
	EntityTypeNone   EntityType = ""
	EntityTypeCrate  EntityType = "crate"
	EntityTypePlank  EntityType = "plank"
	EntityTypeGround EntityType = "ground"
	EntityTypeBall   EntityType = "ball"
)

var EntityTypeComponent = NewComponent[EntityType]()
