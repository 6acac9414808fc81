package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: external commands (map edits, scripted events)
	PhasePreUpdate               // 1: bookkeeping before game logic
	PhaseUpdate                  // 2: game logic, animation pass
	PhasePostUpdate              // 3: reactions to this tick's logic
	PhaseOutput                  // 4: redraw invalidation
	PhasePersist                 // 5: periodic snapshot
	PhaseCleanup                 // 6: end-of-tick cleanup
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
