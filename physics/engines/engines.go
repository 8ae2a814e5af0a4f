// Package engines selects a physics.World implementation by name.
package engines

import (
	"fmt"
	"strings"

	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/physics/b2d"
	"github.com/milk9111/shatter/physics/chipmunk"
)

const (
	Chipmunk = "chipmunk"
	Box2D    = "box2d"
)

// Names lists the supported engines, default first.
func Names() []string {
	return []string{Chipmunk, Box2D}
}

func New(name string, cfg physics.Config) (physics.World, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Chipmunk, "cp":
		return chipmunk.New(cfg), nil
	case Box2D, "b2d":
		return b2d.New(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", physics.ErrUnsupportedEngine, name)
	}
}
