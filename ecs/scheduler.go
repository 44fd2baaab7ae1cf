package ecs

type System interface {
	Update(w *World)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// FixedStepper runs a scheduler at a fixed rate regardless of frame timing,
// advancing the world clock by Step after every run.
type FixedStepper struct {
	Step float64
	// MaxSteps bounds catch-up work per frame. Zero means 5.
	MaxSteps int

	scheduler *Scheduler
	acc       float64
}

func NewFixedStepper(step float64, scheduler *Scheduler) *FixedStepper {
	return &FixedStepper{Step: step, scheduler: scheduler}
}

// Advance accumulates frameDT and runs as many fixed steps as fit. It returns
// the number of steps run. Time beyond MaxSteps is dropped.
func (f *FixedStepper) Advance(w *World, frameDT float64) int {
	if f == nil || w == nil || f.scheduler == nil || f.Step <= 0 {
		return 0
	}
	maxSteps := f.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 5
	}

	f.acc += frameDT
	steps := 0
	for f.acc >= f.Step-1e-9 && steps < maxSteps {
		w.clock.Delta = f.Step
		f.scheduler.Update(w)
		w.clock.Now += f.Step
		f.acc -= f.Step
		steps++
	}
	if steps == maxSteps && f.acc > f.Step {
		f.acc = 0
	}
	return steps
}
