package timeline

import (
	"log"

	"github.com/sarchlab/chartline/hooking"
)

// runPayload calls into a payload and keeps a panic from escaping into the
// manager. The panic is logged and published at HookPosPayloadFault; the
// crossing that caused it still counts as done.
func runPayload(
	domain hooking.Hookable,
	logger *log.Logger,
	now int64,
	c Crossing,
	call func(),
) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		logger.Printf("%s: payload of %d @ %d panicked: %v",
			c.Manager, c.ID, c.VertexTime, r)

		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosPayloadFault,
			Now:    now,
			Item:   c,
			Detail: r,
		})
	}()

	call()
}
