package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/orbit"
)

// ring returns n+1 displacement vectors stepping by phi in the xy plane.
func ring(radius, phi float64, n int) []dynamo.Vec3 {
	out := make([]dynamo.Vec3, n+1)
	for i := range out {
		a := float64(i) * phi
		out[i] = dynamo.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return out
}

// feed advances the tracker along path and returns the 1-based step
// numbers at which each event fired.
func feed(tr *orbit.Tracker, path []dynamo.Vec3) map[orbit.Event][]int {
	events := map[orbit.Event][]int{}
	for i := 1; i < len(path); i++ {
		if ev := tr.Advance(path[i-1], path[i]); ev != orbit.EventNone {
			events[ev] = append(events[ev], i)
		}
	}
	return events
}

var beNaN = WithTransform(math.IsNaN, BeTrue())

var _ = Describe("SweptAngle", func() {
	It("measures the angle between displacements", func() {
		Expect(orbit.SweptAngle(dynamo.Vec3{X: 1}, dynamo.Vec3{Y: 3})).To(BeNumerically("~", math.Pi/2, 1e-15))
		Expect(orbit.SweptAngle(dynamo.Vec3{X: 2}, dynamo.Vec3{X: 5})).To(BeZero())
		Expect(orbit.SweptAngle(dynamo.Vec3{X: 1}, dynamo.Vec3{X: -1})).To(BeNumerically("~", math.Pi, 1e-15))
	})

	It("is NaN for a zero displacement", func() {
		Expect(orbit.SweptAngle(dynamo.Vec3{X: 1}, dynamo.Vec3{})).To(beNaN)
	})

	It("ignores direction in unsigned form", func() {
		a, b := dynamo.Vec3{X: 1}, dynamo.Vec3{X: 1, Y: 1}
		Expect(orbit.SweptAngle(a, b)).To(Equal(orbit.SweptAngle(b, a)))
	})

	It("carries direction in signed form", func() {
		z := dynamo.Vec3{Z: 1}
		a, b := dynamo.Vec3{X: 1}, dynamo.Vec3{X: 1, Y: 1}
		Expect(orbit.SignedSweptAngle(a, b, z)).To(BeNumerically("~", math.Pi/4, 1e-15))
		Expect(orbit.SignedSweptAngle(b, a, z)).To(BeNumerically("~", -math.Pi/4, 1e-15))
	})
})

var _ = Describe("Tracker", func() {
	const dt = 0.5
	var tr *orbit.Tracker

	BeforeEach(func() {
		tr = orbit.NewTracker(3, dt)
	})

	It("starts with every slot unfilled", func() {
		Expect(tr.Done()).To(BeFalse())
		Expect(tr.Orbits()).To(BeZero())
		Expect(tr.Times()).To(HaveLen(3))
		Expect(tr.Times()).To(HaveEach(beNaN))
	})

	Context("when the angle passes a full turn", func() {
		phi := orbit.FullTurn / 7.3

		It("records the elapsed time at the crossing step", func() {
			events := feed(tr, ring(7e6, phi, 8))

			Expect(events[orbit.EventOrbit]).To(Equal([]int{8}))
			Expect(tr.Orbits()).To(Equal(1))
			Expect(tr.Times()[0]).To(Equal(8 * dt))
			Expect(tr.Elapsed()).To(Equal(8 * dt))
		})

		It("carries the remainder into the next orbit", func() {
			events := feed(tr, ring(7e6, phi, 16))

			// With the remainder dropped the second orbit would land on
			// step 16 instead of 15.
			Expect(events[orbit.EventOrbit]).To(Equal([]int{8, 15}))
			Expect(tr.Angle()).To(BeNumerically("~", 16*phi-2*orbit.FullTurn, 1e-9))
		})
	})

	It("completes exactly when the summed angle first reaches a full turn", func() {
		const k = 16
		path := ring(1, orbit.FullTurn/k, k+4)

		sum, want := 0.0, 0
		for i := 1; i < len(path); i++ {
			sum += orbit.SweptAngle(path[i-1], path[i])
			if sum >= orbit.FullTurn {
				want = i
				break
			}
		}
		Expect(want).To(BeNumerically(">=", k))

		events := feed(tr, path[:want+1])
		Expect(events[orbit.EventOrbit]).To(Equal([]int{want}))
		Expect(tr.Angle()).To(Equal(sum - orbit.FullTurn))
	})

	It("stops once the target orbit count is reached", func() {
		path := ring(1, orbit.FullTurn/10, 40)
		events := feed(tr, path)

		Expect(events[orbit.EventOrbit]).To(HaveLen(3))
		Expect(tr.Done()).To(BeTrue())
		Expect(tr.Outcome()).To(Equal(dynamo.OutcomeCompleted))

		times := tr.Times()
		Expect(times[0]).To(BeNumerically("<", times[1]))
		Expect(times[1]).To(BeNumerically("<", times[2]))

		elapsed := tr.Elapsed()
		Expect(tr.Advance(path[0], path[1])).To(Equal(orbit.EventNone))
		Expect(tr.Elapsed()).To(Equal(elapsed))
	})

	Context("when the trajectory degenerates", func() {
		It("fills every remaining slot with NaN", func() {
			tr = orbit.NewTracker(5, dt)
			path := ring(1, orbit.FullTurn/10, 25)
			feed(tr, path)
			Expect(tr.Orbits()).To(Equal(2))

			Expect(tr.Advance(path[25], dynamo.Vec3{})).To(Equal(orbit.EventDegenerate))
			Expect(tr.Done()).To(BeTrue())
			Expect(tr.Outcome()).To(Equal(dynamo.OutcomeDegenerate))

			times := tr.Times()
			Expect(times[:2]).NotTo(ContainElement(beNaN))
			Expect(times[2:]).To(HaveEach(beNaN))
		})

		It("takes no further steps", func() {
			tr.Advance(dynamo.Vec3{X: 1}, dynamo.Vec3{})
			elapsed := tr.Elapsed()

			Expect(tr.Advance(dynamo.Vec3{X: 1}, dynamo.Vec3{Y: 1})).To(Equal(orbit.EventNone))
			Expect(tr.Elapsed()).To(Equal(elapsed))
			Expect(tr.Orbits()).To(BeZero())
		})
	})

	It("fills unfilled slots on abort", func() {
		feed(tr, ring(1, orbit.FullTurn/9.5, 12))
		tr.Abort(dynamo.OutcomeNoConvergence)

		Expect(tr.Outcome()).To(Equal(dynamo.OutcomeNoConvergence))
		Expect(tr.Times()[0]).To(Equal(10 * dt))
		Expect(tr.Times()[1:]).To(HaveEach(beNaN))

		tr.Abort(dynamo.OutcomeCollision)
		Expect(tr.Outcome()).To(Equal(dynamo.OutcomeNoConvergence))
	})

	It("resets to a fresh state", func() {
		feed(tr, ring(1, orbit.FullTurn/10, 12))
		tr.Abort(dynamo.OutcomeCanceled)
		tr.Reset()

		Expect(tr.Done()).To(BeFalse())
		Expect(tr.Elapsed()).To(BeZero())
		Expect(tr.Angle()).To(BeZero())
		Expect(tr.Times()).To(HaveEach(beNaN))
	})

	// Unsigned angles cannot see reversal: a displacement that swings back
	// and forth keeps accumulating forward angle.
	Context("with an oscillating displacement", func() {
		swing := func(n int) []dynamo.Vec3 {
			a, b := dynamo.Vec3{X: 1}, dynamo.Vec3{X: 1, Y: 1.1}
			path := make([]dynamo.Vec3, n+1)
			for i := range path {
				if i%2 == 0 {
					path[i] = a
				} else {
					path[i] = b
				}
			}
			return path
		}

		It("counts orbits in unsigned mode", func() {
			events := feed(tr, swing(8))
			Expect(events[orbit.EventOrbit]).To(Equal([]int{8}))
		})

		It("cancels out in signed mode", func() {
			tr.UseSigned(dynamo.Vec3{Z: 3})
			events := feed(tr, swing(80))
			Expect(events[orbit.EventOrbit]).To(BeEmpty())
			Expect(tr.Angle()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	It("counts a retrograde orbit in signed mode about its own normal", func() {
		tr.UseSigned(dynamo.Vec3{Z: -1})
		events := feed(tr, ring(1, -orbit.FullTurn/7.3, 8))
		Expect(events[orbit.EventOrbit]).To(Equal([]int{8}))
	})
})
