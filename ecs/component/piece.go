package component

// Piece marks an entity created by a fracture. Parent is the raw handle of
// the entity it broke off from, which is no longer alive.
type Piece struct {
	Parent  uint64
	Fixture int
}

var PieceComponent = NewComponent[Piece]()
