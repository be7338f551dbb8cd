package timeline

import (
	"log"

	"github.com/sarchlab/chartline/hooking"
	"github.com/sarchlab/chartline/idgen"
)

// Builder creates segment and trigger managers.
type Builder struct {
	name   string
	logger *log.Logger
	hooks  []hooking.Hook
}

// MakeBuilder returns a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		name:   "Timeline",
		logger: log.Default(),
	}
}

// WithName sets the name reported in crossings and log lines. The segment
// manager is called "<name>.Segments" and the trigger manager
// "<name>.Triggers".
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithLogger sets where payload faults are logged.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithHook registers a hook on every manager the builder creates.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook{}, b.hooks...), hook)
	return b
}

// BuildSegmentManager creates an empty segment manager with the clock at 0.
func (b Builder) BuildSegmentManager() *SegmentManager {
	m := &SegmentManager{
		HookableBase: hooking.NewHookableBase(),
		name:         b.name + ".Segments",
		logger:       b.logger,
		ids:          idgen.New(),
		segments:     make(map[int]*Segment),
		active:       make(map[int]*Segment),
		index:        NewIndex[SegmentPayload](),
	}

	for _, h := range b.hooks {
		m.AcceptHook(h)
	}

	return m
}

// BuildTriggerManager creates an empty trigger manager with the clock at 0.
func (b Builder) BuildTriggerManager() *TriggerManager {
	m := &TriggerManager{
		HookableBase: hooking.NewHookableBase(),
		name:         b.name + ".Triggers",
		logger:       b.logger,
		ids:          idgen.New(),
		vertices:     make(map[int]*TriggerVertex),
		index:        NewIndex[TriggerPayload](),
	}

	for _, h := range b.hooks {
		m.AcceptHook(h)
	}

	return m
}
