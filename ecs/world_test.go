package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/locomotion/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for dead entity")
				}
				if len(w.Entities()) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(w.Entities()))
				}
			}
		})
	}
}

func TestRecycledEntityHasNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 1); err != nil {
		t.Fatal(err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh.id() != old.id() {
		t.Fatalf("expected id reuse, got %v and %v", old, fresh)
	}
	if fresh == old {
		t.Fatal("expected a new generation for the recycled id")
	}
	if Has(w, fresh, h) {
		t.Fatal("recycled entity inherited a component")
	}
	if err := Add(w, old, h, 2); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2, "a"); err != nil {
					return err
				}
				return Add(w, e2, h2, "b")
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2) || !Has(w, e2, h2) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, h2) },
		},
		{
			name: "mutate_through_pointer",
			setup: func() error {
				v := 1.5
				return AddPtr(w, e1, h3, &v)
			},
			check: func(t *testing.T) {
				p, ok := GetPtr(w, e1, h3)
				if !ok {
					t.Fatalf("expected float present")
				}
				*p = 2.5
				if v, _ := Get(w, e1, h3); v != 2.5 {
					t.Fatalf("expected pointer write to stick, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e1, h3) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := AddPtr[int](w, e1, h1, nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestRemoveKeepsOtherEntities(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	ents := []Entity{w.CreateEntity(), w.CreateEntity(), w.CreateEntity()}
	for i, e := range ents {
		if err := Add(w, e, h, i); err != nil {
			t.Fatal(err)
		}
	}
	if !Remove(w, ents[0], h) {
		t.Fatal("remove failed")
	}
	for i, e := range ents[1:] {
		v, ok := Get(w, e, h)
		if !ok || v != i+1 {
			t.Fatalf("entity %v: expected %d, got %v ok=%v", e, i+1, v, ok)
		}
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	if err := Add(w, e1, h, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	seen := map[Entity]bool{}
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		seen[e] = true
		*v *= 10
	})

	if !seen[e1] || !seen[e3] || seen[e2] {
		t.Fatalf("unexpected ForEach result %v", seen)
	}
	if v, _ := Get(w, e3, h); v != 30 {
		t.Fatalf("expected ForEach write to stick, got %v", v)
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := w.CreateEntity()
				e2 := w.CreateEntity()
				e3 := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[string]()
				hc := component.NewComponent[float64]()

				mustAdd(t, Add(w, e1, ha, 1))
				mustAdd(t, Add(w, e2, ha, 2))
				mustAdd(t, Add(w, e2, hb, "two"))
				mustAdd(t, Add(w, e2, hc, 2.0))
				mustAdd(t, Add(w, e3, hb, "three"))

				var res []Entity
				ForEach3(w, ha.Kind(), hb.Kind(), hc.Kind(), func(e Entity, a *int, b *string, c *float64) {
					res = append(res, e)
				})
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}

				res = nil
				ForEach2(w, ha.Kind(), hb.Kind(), func(e Entity, _ *int, _ *string) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2 for pair, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[int]()

				mustAdd(t, Add(w, e, ha, 1))
				mustAdd(t, Add(w, e, hb, 2))

				if !w.DestroyEntity(e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach2(w, ha.Kind(), hb.Kind(), func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[int]()
				mustAdd(t, Add(w, e, ha, 1))

				if got := w.Query(ha.Kind(), hb.Kind()); len(got) != 0 {
					t.Fatalf("expected empty query when a store is missing, got %v", got)
				}
				if _, ok := w.First(hb.Kind()); ok {
					t.Fatal("expected First to miss")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

type countingSystem struct {
	runs  int
	times []float64
}

func (s *countingSystem) Update(w *World) {
	s.runs++
	s.times = append(s.times, w.Clock().Now)
}

func TestFixedStepper(t *testing.T) {
	tests := []struct {
		name     string
		frames   []float64
		maxSteps int
		want     int
	}{
		{"exact_frames", []float64{0.02, 0.02, 0.02}, 0, 3},
		{"accumulates_short_frames", []float64{0.01, 0.01, 0.01, 0.01}, 0, 2},
		{"long_frame_catches_up", []float64{0.06}, 0, 3},
		{"catch_up_is_bounded", []float64{1}, 4, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			sys := &countingSystem{}
			stepper := NewFixedStepper(0.02, NewScheduler(sys))
			stepper.MaxSteps = tc.maxSteps

			total := 0
			for _, dt := range tc.frames {
				total += stepper.Advance(w, dt)
			}
			if total != tc.want || sys.runs != tc.want {
				t.Fatalf("expected %d steps, got %d (runs=%d)", tc.want, total, sys.runs)
			}
			for i, now := range sys.times {
				if diff := now - float64(i)*0.02; diff > 1e-9 || diff < -1e-9 {
					t.Fatalf("step %d ran at %v", i, now)
				}
			}
			if w.Clock().Delta != 0.02 {
				t.Fatalf("expected clock delta 0.02, got %v", w.Clock().Delta)
			}
		})
	}
}
