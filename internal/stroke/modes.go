package stroke

import (
	"github.com/Faultbox/scatterbrush/internal/scatter"
)

type handler func(c *Command, phase scatter.Phase) error

var handlers = map[scatter.Mode]handler{
	scatter.ModePlace: place,
	scatter.ModeSpray: place,
	scatter.ModeAlign: align,
	scatter.ModeScale: notImplemented,
	scatter.ModeMove:  notImplemented,
	scatter.ModeID:    notImplemented,
}

// notImplemented backs the modes that have a contract but no behavior yet.
func notImplemented(*Command, scatter.Phase) error {
	return ErrNotImplemented
}
