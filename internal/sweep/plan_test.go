package sweep_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/sweep"
)

func indices(points []sweep.Point) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Index
	}
	return out
}

var _ = Describe("Plan", func() {
	It("spaces velocities evenly over an inclusive range", func() {
		p := sweep.Plan{Min: -10, Max: 10, Samples: 4}
		points := p.Points()

		Expect(indices(points)).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(points[0].Velocity).To(Equal(-10.0))
		Expect(points[1].Velocity).To(Equal(-5.0))
		Expect(points[4].Velocity).To(Equal(10.0))
	})

	It("skips the midpoint index when asked", func() {
		p := sweep.Plan{Min: -10, Max: 10, Samples: 4, SkipMidpoint: true}
		Expect(indices(p.Points())).To(Equal([]int{0, 1, 3, 4}))
	})

	It("uses integer division for an odd sample count", func() {
		p := sweep.Plan{Min: 0, Max: 5, Samples: 5, SkipMidpoint: true}
		Expect(indices(p.Points())).To(Equal([]int{0, 1, 3, 4, 5}))
	})

	It("reproduces the reference sweep shape", func() {
		vmax := 1.25 * 7844.08497109
		p := sweep.SymmetricPlan(vmax, 400)
		points := p.Points()

		Expect(points).To(HaveLen(400))
		Expect(points[0].Velocity).To(BeNumerically("~", -vmax, 1e-9))
		Expect(points[len(points)-1].Velocity).To(BeNumerically("~", vmax, 1e-9))
		for _, pt := range points {
			Expect(pt.Index).NotTo(Equal(200))
			Expect(pt.Velocity).NotTo(BeZero())
		}
	})

	DescribeTable("rejects invalid plans",
		func(p sweep.Plan, field string) {
			err := p.Validate()
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
			var cerr *dynamo.ConfigError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Field).To(Equal(field))
		},
		Entry("no samples", sweep.Plan{Min: 0, Max: 1, Samples: 0}, "samples"),
		Entry("NaN bound", sweep.Plan{Min: math.NaN(), Max: 1, Samples: 2}, "min_velocity"),
		Entry("infinite bound", sweep.Plan{Min: 0, Max: math.Inf(1), Samples: 2}, "max_velocity"),
		Entry("inverted range", sweep.Plan{Min: 5, Max: 1, Samples: 2}, "max_velocity"),
	)

	It("accepts a single-velocity range", func() {
		Expect(sweep.Plan{Min: 3, Max: 3, Samples: 1}.Validate()).To(Succeed())
	})
})
