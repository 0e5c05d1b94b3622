package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/orbit"
	"github.com/san-kum/threebody/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// approx compares component-wise with a tolerance relative to magnitude.
func approx(got, want dynamo.State, rel float64) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))
	for i := range want {
		tol := rel * math.Max(1, math.Abs(want[i]))
		ExpectWithOffset(1, got[i]).To(BeNumerically("~", want[i], tol), "slot %d", i)
	}
}

var _ = Describe("Evaluate", func() {
	var (
		q      dynamo.State
		masses []float64
	)

	BeforeEach(func() {
		q = dynamo.State{
			0, 0, 5.202, 0, -60, 30,
			0, 0.0017, 0, -1.8, 2, 0,
		}
		masses = []float64{3.33e5, 3.1e2, 2.5e6}
	})

	It("returns a derivative of the state's dimension", func() {
		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())
		Expect(dq).To(HaveLen(dynamo.StateDim))
		Expect(dq.IsValid()).To(BeTrue())
	})

	It("copies velocities into the position half", func() {
		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())
		Expect([]float64(dq[:6])).To(Equal([]float64(q[6:])))
	})

	It("does not modify its inputs", func() {
		before := q.Clone()
		_, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())
		Expect(q).To(Equal(before))
		Expect(masses).To(Equal([]float64{3.33e5, 3.1e2, 2.5e6}))
	})

	It("matches the inverse-square law for a single pair", func() {
		q = dynamo.State{0, 0, 2, 0, 0, 1e6, 0, 0, 0, 0, 0, 0}
		masses = []float64{1, 3, 0}

		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())
		Expect(dq[6]).To(BeNumerically("~", physics.G*3/4, 1e-18))
		Expect(dq[8]).To(BeNumerically("~", -physics.G*1/4, 1e-18))
		Expect(dq[7]).To(BeZero())
		Expect(dq[9]).To(BeZero())
	})

	It("is symmetric under exchanging two bodies", func() {
		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())

		swapped := dynamo.State{
			q[2], q[3], q[0], q[1], q[4], q[5],
			q[8], q[9], q[6], q[7], q[10], q[11],
		}
		swappedMasses := []float64{masses[1], masses[0], masses[2]}

		ds, err := physics.Evaluate(swapped, swappedMasses)
		Expect(err).NotTo(HaveOccurred())

		approx(ds, dynamo.State{
			dq[2], dq[3], dq[0], dq[1], dq[4], dq[5],
			dq[8], dq[9], dq[6], dq[7], dq[10], dq[11],
		}, 1e-12)
	})

	DescribeTable("pulls an equal-mass pair placed symmetrically about the origin in opposite directions",
		func(m3 float64, third r2.Vec, tol float64) {
			q = dynamo.State{
				1.5, -0.7, -1.5, 0.7, third.X, third.Y,
				0, 0, 0, 0, 0, 0,
			}
			dq, err := physics.Evaluate(q, []float64{5, 5, m3})
			Expect(err).NotTo(HaveOccurred())

			Expect(dq[6]).NotTo(BeZero())
			Expect(dq[7]).NotTo(BeZero())
			Expect(dq[6]).To(BeNumerically("~", -dq[8], tol*math.Abs(dq[6])))
			Expect(dq[7]).To(BeNumerically("~", -dq[9], tol*math.Abs(dq[7])))
		},
		Entry("massless third body", 0.0, r2.Vec{X: 40, Y: 25}, 0.0),
		Entry("distant third body", 1.0, r2.Vec{X: 1e4, Y: 1e4}, 1e-6),
	)

	It("obeys the third law", func() {
		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())

		var px, py, scale float64
		for i := 0; i < 3; i++ {
			px += masses[i] * dq[6+2*i]
			py += masses[i] * dq[7+2*i]
			scale += masses[i] * math.Hypot(dq[6+2*i], dq[7+2*i])
		}
		Expect(math.Abs(px)).To(BeNumerically("<", 1e-12*scale))
		Expect(math.Abs(py)).To(BeNumerically("<", 1e-12*scale))
	})

	It("is invariant under translation", func() {
		dq, err := physics.Evaluate(q, masses)
		Expect(err).NotTo(HaveOccurred())

		shifted := q.Clone()
		for i := 0; i < 6; i += 2 {
			shifted[i] += 10
			shifted[i+1] -= 7
		}
		ds, err := physics.Evaluate(shifted, masses)
		Expect(err).NotTo(HaveOccurred())
		approx(ds, dq, 1e-9)
	})

	DescribeTable("detects coincident bodies",
		func(i, j int) {
			q[2*j] = q[2*i]
			q[2*j+1] = q[2*i+1]
			dq, err := physics.Evaluate(q, masses)
			Expect(err).To(MatchError(dynamo.ErrSingularity))
			Expect(dq).To(BeNil())
		},
		Entry("bodies 1 and 2", 0, 1),
		Entry("bodies 1 and 3", 0, 2),
		Entry("bodies 2 and 3", 1, 2),
	)

	It("treats a separation whose cube underflows as singular", func() {
		q[2], q[3] = q[0]+1e-160, q[1]
		dq, err := physics.Evaluate(q, masses)
		Expect(err).To(MatchError(dynamo.ErrSingularity))
		Expect(dq).To(BeNil())

		pair, err := physics.NewTwoBody(1, 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = pair.Derive(dynamo.State{0, 0, 1e-160, 0, 0, 0, 0, 0})
		Expect(err).To(MatchError(dynamo.ErrSingularity))
	})

	DescribeTable("rejects bad masses",
		func(m []float64) {
			_, err := physics.Evaluate(q, m)
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		},
		Entry("negative", []float64{1, -1, 1}),
		Entry("NaN", []float64{1, math.NaN(), 1}),
		Entry("infinite", []float64{math.Inf(1), 1, 1}),
	)

	It("rejects a mass vector of the wrong length", func() {
		_, err := physics.Evaluate(q, []float64{1, 2})
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("rejects a state of the wrong length", func() {
		_, err := physics.Evaluate(q[:8], masses)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("rejects non-finite states", func() {
		q[3] = math.NaN()
		_, err := physics.Evaluate(q, masses)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
	})
})

var _ = Describe("ThreeBody", func() {
	It("copies the masses it is given", func() {
		m := []float64{1, 2, 3}
		tb, err := physics.NewThreeBody(m)
		Expect(err).NotTo(HaveOccurred())
		m[0] = 100
		Expect(tb.Masses()).To(Equal([]float64{1, 2, 3}))
		Expect(tb.GetParams()).To(HaveKeyWithValue("m1", 1.0))
		Expect(tb.StateDim()).To(Equal(dynamo.StateDim))
	})

	It("rejects invalid masses at construction", func() {
		_, err := physics.NewThreeBody([]float64{1, 1, -1})
		Expect(err).To(MatchError(dynamo.ErrInvalidMass))
	})

	It("reduces to the two-body problem when the third mass is zero", func() {
		three, err := physics.NewThreeBody([]float64{3.33e5, 3.1e2, 0})
		Expect(err).NotTo(HaveOccurred())
		two, err := physics.NewTwoBody(3.33e5, 3.1e2)
		Expect(err).NotTo(HaveOccurred())

		q3 := dynamo.State{0, 0, 5.202, 0, 40, -40, 0, 0.0017, 0, -1.8, 0.3, 0.1}
		q2 := dynamo.State{0, 0, 5.202, 0, 0, 0.0017, 0, -1.8}

		rk := integrators.NewRK4()
		for i := 0; i < 200; i++ {
			q3, err = rk.Step(three, q3, 0.01)
			Expect(err).NotTo(HaveOccurred())
			q2, err = rk.Step(two, q2, 0.01)
			Expect(err).NotTo(HaveOccurred())
		}

		approx(dynamo.State{q3[0], q3[1], q3[2], q3[3], q3[6], q3[7], q3[8], q3[9]}, q2, 1e-9)
	})

	It("keeps a circular binary circular for one period", func() {
		binary := orbit.Binary{M1: 3.33e5, M2: 3.1e2, Separation: 5.202}
		x, err := orbit.InitialState(binary, orbit.Body{Position: r2.Vec{X: 500, Y: 500}})
		Expect(err).NotTo(HaveOccurred())

		sys, err := physics.NewThreeBody([]float64{binary.M1, binary.M2, 0})
		Expect(err).NotTo(HaveOccurred())

		period := binary.Period()
		steps := int(math.Round(period / orbit.DistanceStep(binary.Separation, period).Dt))
		dt := period / float64(steps)
		start := r2.Sub(x.Position(1), x.Position(0))

		rk := integrators.NewRK4()
		for i := 0; i < steps; i++ {
			x, err = rk.Step(sys, x, dt)
			Expect(err).NotTo(HaveOccurred())
			Expect(x.Separation(0, 1)).To(BeNumerically("~", binary.Separation, 1e-3*binary.Separation))
		}

		end := r2.Sub(x.Position(1), x.Position(0))
		Expect(r2.Norm(r2.Sub(end, start)) / binary.Separation).To(BeNumerically("<", 1e-3))
	})
})
