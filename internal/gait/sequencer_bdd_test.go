package gait

import (
	"math"

	"github.com/san-kum/critter/internal/limb"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sequencer", func() {
	var (
		act      *fakeActuator
		seq      *Sequencer
		reading  float64
		params   Params
		recorded *transitionLog
	)

	BeforeEach(func() {
		reading = 0.5
		act = newFakeActuator(func(limb.Side) float64 { return reading })
		params = DefaultParams()
		recorded = &transitionLog{}
	})

	JustBeforeEach(func() {
		var err error
		seq, err = NewSequencer(act, params)
		Expect(err).NotTo(HaveOccurred())
		seq.AddObserver(recorded)
	})

	Context("when the active axis never reaches its threshold", func() {
		It("abandons every phase after its time budget", func() {
			dt := 0.05
			for _, m := range OrderFor(Right) {
				reading = neverFinished(m)
				bound := int(math.Ceil(params.MaxTimeForState(m, Right) / dt))
				ticks := 0
				for !seq.Tick(dt, Right).Advanced() {
					ticks++
					Expect(ticks).To(BeNumerically("<", bound))
				}
			}
			Expect(recorded.transitions).To(HaveLen(OrderLen))
			for _, tr := range recorded.transitions {
				Expect(tr.Reason).To(Equal(Timeout))
			}
			Expect(seq.State()).To(Equal(State{Index: 0, Timer: 0, Direction: Right}))
		})
	})

	Context("when completions mix thresholds and timeouts", func() {
		It("returns to the first phase after eight completions", func() {
			start := OrderFor(Left)[0]
			for i := 0; i < OrderLen; i++ {
				m := seq.State().Phase()
				if i%2 == 0 {
					reading = finished(m)
				} else {
					reading = neverFinished(m)
				}
				for !seq.Tick(0.1, Left).Advanced() {
				}
			}
			Expect(seq.State().Phase()).To(Equal(start))
			Expect(seq.State().Timer).To(BeZero())

			reasons := make([]Reason, 0, OrderLen)
			for _, tr := range recorded.transitions {
				reasons = append(reasons, tr.Reason)
			}
			Expect(reasons).To(ContainElements(Threshold, Timeout))
		})
	})

	Context("with a short lift budget", func() {
		BeforeEach(func() {
			params.MaxLiftTime = 0.2
		})

		It("times out the lift before a slow threshold", func() {
			reading = 1
			ticks := 0
			for !seq.Tick(0.02, Right).Advanced() {
				ticks++
			}
			Expect(ticks + 1).To(Equal(10))
			Expect(recorded.transitions[0].From).To(Equal(RightLegUp))
			Expect(recorded.transitions[0].Elapsed).To(BeNumerically("~", 0.2, 1e-9))
		})
	})

	Describe("axis commands", func() {
		It("leaves exactly one axis free and driven", func() {
			for i := 0; i < 2*OrderLen; i++ {
				reading = finished(seq.State().Phase())
				out := seq.Tick(0.02, Right)
				Expect(act.free()).To(ConsistOf(out.Active.Side()))
				Expect(act.driven()).To(ConsistOf(out.Active.Side()))
			}
		})

		It("always retracts on lifts and extends on drops", func() {
			for _, d := range []Direction{Right, Left} {
				for _, m := range OrderFor(d) {
					switch m.Motion() {
					case Up:
						Expect(limb.Motion(m.Side(), m.Input()).Drive).To(Equal(limb.Retract))
					case Down:
						Expect(limb.Motion(m.Side(), m.Input()).Drive).To(Equal(limb.Extend))
					}
				}
			}
		})
	})
})
