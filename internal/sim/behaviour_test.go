package sim_test

import (
	"context"
	"sort"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

type populationWatch struct {
	sizes  []int
	merges []sim.MergeEvent
}

func (p *populationWatch) OnStep(step int, bodies []*dynamo.Body) {
	p.sizes = append(p.sizes, len(bodies))
}

func (p *populationWatch) OnMerge(ev sim.MergeEvent) {
	p.merges = append(p.merges, ev)
}

func cluster() []*dynamo.Body {
	return []*dynamo.Body{
		dynamo.NewBody("core", dynamo.Vec3{}, dynamo.Vec3{}, 2e30),
		dynamo.NewBody("a", dynamo.Vec3{X: 1e10}, dynamo.Vec3{Y: 5e4}, 1e24),
		dynamo.NewBody("b", dynamo.Vec3{X: 3e11}, dynamo.Vec3{Y: 2e4}, 1e24),
		dynamo.NewBody("c", dynamo.Vec3{X: 3e11, Y: 1e10}, dynamo.Vec3{Y: 2e4}, 5e23),
		dynamo.NewBody("d", dynamo.Vec3{Y: -4e11}, dynamo.Vec3{X: 1.8e4}, 3e24),
	}
}

func clusterConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Steps = 500
	cfg.ReportFreq = 50
	return cfg
}

var _ = g.Describe("Simulator", func() {
	var (
		s     *sim.Simulator
		watch *populationWatch
	)

	g.BeforeEach(func() {
		s = sim.New()
		watch = &populationWatch{}
		s.AddObserver(watch)
	})

	g.Context("when bodies start inside the collision radius", func() {
		var result *sim.Result

		g.BeforeEach(func() {
			var err error
			result, err = s.Run(context.Background(), cluster(), clusterConfig())
			o.Expect(err).NotTo(o.HaveOccurred())
		})

		g.It("merges them on the first step", func() {
			o.Expect(watch.merges).To(o.HaveLen(2))
			for _, ev := range watch.merges {
				o.Expect(ev.Step).To(o.Equal(1))
			}
			o.Expect(result.Merges).To(o.Equal(watch.merges))
		})

		g.It("never grows the population", func() {
			prev := len(cluster())
			for _, n := range watch.sizes {
				o.Expect(n).To(o.BeNumerically("<=", prev))
				prev = n
			}
			o.Expect(result.Bodies).To(o.HaveLen(3))
		})

		g.It("conserves total mass across merges", func() {
			o.Expect(physics.TotalMass(result.Bodies)).To(o.BeNumerically("~", physics.TotalMass(cluster()), 1e15))
		})

		g.It("keeps one history per body lineage", func() {
			o.Expect(result.Histories).To(o.HaveLen(7))

			active := 0
			for _, h := range result.Histories {
				if h.Active() {
					active++
					continue
				}
				o.Expect(h.EndStep).To(o.Equal(1))
			}
			o.Expect(active).To(o.Equal(len(result.Bodies)))
		})

		g.It("gives merged bodies fresh ids and no name", func() {
			seen := map[dynamo.BodyID]bool{}
			for _, h := range result.Histories {
				o.Expect(seen).NotTo(o.HaveKey(h.ID))
				seen[h.ID] = true
			}
			for _, ev := range result.Merges {
				o.Expect(ev.Result).To(o.BeNumerically(">", dynamo.BodyID(5)))
				sources := append([]dynamo.BodyID(nil), ev.Sources...)
				o.Expect(sort.SliceIsSorted(sources, func(i, j int) bool { return sources[i] < sources[j] })).To(o.BeTrue())
			}
			for _, b := range result.Bodies {
				if b.ID > 5 {
					o.Expect(b.Name).To(o.BeEmpty())
				}
			}
		})
	})

	g.Context("when stepped manually", func() {
		g.It("matches a full run", func() {
			cfg := clusterConfig()
			o.Expect(s.Start(cluster(), cfg)).To(o.Succeed())
			for !s.Done() {
				o.Expect(s.Step()).To(o.Succeed())
			}
			stepped := s.Result()

			full, err := sim.New().Run(context.Background(), cluster(), cfg)
			o.Expect(err).NotTo(o.HaveOccurred())

			o.Expect(stepped.StepsTaken).To(o.Equal(cfg.Steps - 1))
			o.Expect(stepped.Histories).To(o.Equal(full.Histories))
		})

		g.It("exposes copies of the population", func() {
			o.Expect(s.Start(cluster(), clusterConfig())).To(o.Succeed())
			snapshot := s.Bodies()
			snapshot[0].Mass = 1

			o.Expect(s.Bodies()[0].Mass).To(o.Equal(2e30))
		})
	})

	g.Describe("Ensemble", func() {
		generate := func(seed int64) []*dynamo.Body {
			offset := float64(seed) * 1e10
			return []*dynamo.Body{
				dynamo.NewBody("sun", dynamo.Vec3{}, dynamo.Vec3{}, 2e30),
				dynamo.NewBody("planet", dynamo.Vec3{X: 1e11 + offset}, dynamo.Vec3{Y: 3e4}, 6e24),
			}
		}

		g.It("runs one independent simulation per seed", func() {
			cfg := clusterConfig()
			cfg.Steps = 100

			results, err := sim.NewEnsemble(s, generate, 4, 1).Run(context.Background(), cfg)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(results).To(o.HaveLen(4))

			for i, r := range results {
				o.Expect(r).NotTo(o.BeNil())
				o.Expect(r.Histories[1].Xs[0]).To(o.Equal(1e11 + float64(i+1)*1e10))
			}
		})

		g.It("fails when any run fails", func() {
			cfg := clusterConfig()
			cfg.CollisionRadius = 0
			coincident := func(seed int64) []*dynamo.Body {
				return []*dynamo.Body{
					dynamo.NewBody("x", dynamo.Vec3{X: float64(seed)}, dynamo.Vec3{}, 1),
					dynamo.NewBody("y", dynamo.Vec3{X: float64(seed)}, dynamo.Vec3{}, 1),
				}
			}

			_, err := sim.NewEnsemble(s, coincident, 3, 0).Run(context.Background(), cfg)
			o.Expect(err).To(o.MatchError(dynamo.ErrSingularity))
		})

		g.DescribeTable("rejects a run count below one",
			func(numRuns int) {
				results, err := sim.NewEnsemble(s, generate, numRuns, 0).Run(context.Background(), clusterConfig())
				o.Expect(err).To(o.MatchError(dynamo.ErrInvalidConfig))
				o.Expect(results).To(o.BeNil())
			},
			g.Entry("zero", 0),
			g.Entry("negative", -1),
		)
	})
})
