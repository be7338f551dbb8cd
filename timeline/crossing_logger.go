package timeline

import (
	"log"

	"github.com/sarchlab/chartline/hooking"
)

// CrossingLogger is a hook that prints every crossing.
type CrossingLogger struct {
	*log.Logger
}

// NewCrossingLogger returns a CrossingLogger that writes into the logger.
func NewCrossingLogger(logger *log.Logger) *CrossingLogger {
	return &CrossingLogger{Logger: logger}
}

// Func writes the crossing into the logger.
func (h *CrossingLogger) Func(ctx hooking.HookCtx) {
	c, ok := ctx.Item.(Crossing)
	if !ok {
		return
	}

	if ctx.Pos == HookPosPayloadFault {
		h.Printf("%d, %s %s %d @ %d: %v",
			ctx.Now, c.Manager, ctx.Pos.Name, c.ID, c.VertexTime, ctx.Detail)
		return
	}

	h.Printf("%d, %s %s %d @ %d, %s",
		ctx.Now, c.Manager, ctx.Pos.Name, c.ID, c.VertexTime, c.Direction)
}
