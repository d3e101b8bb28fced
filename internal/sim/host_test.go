package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
)

const second = int64(1_000_000_000)

var _ = Describe("Host", func() {
	var (
		host *sim.Host
		geom layout.Geometry
	)

	BeforeEach(func() {
		geom = layout.Geometry{WidthPx: 480, HeightPx: 800, XDPI: 240, YDPI: 240, BallDiameter: layout.DefaultBallDiameter}
		var err error
		host, err = sim.NewHost(sim.HostOptions{System: physics.DefaultOptions(), Geometry: geom})
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts with every particle inside the layout bounds", func() {
		b := host.Layout().Bounds
		for _, p := range host.System().Positions() {
			Expect(b.Contains(p)).To(BeTrue())
		}
	})

	It("rejects an invalid rotation", func() {
		_, err := sim.NewHost(sim.HostOptions{System: physics.DefaultOptions(), Geometry: geom, Rotation: sensor.Rotation(9)})
		Expect(err).To(MatchError(sensor.ErrInvalidRotation))
	})

	It("rejects invalid geometry", func() {
		_, err := sim.NewHost(sim.HostOptions{System: physics.DefaultOptions()})
		Expect(err).To(MatchError(layout.ErrInvalidGeometry))
	})

	Context("when stopped", func() {
		It("reports frames without integrating", func() {
			before := host.System().Positions()
			host.OnSensorSample(9, 9, 0, 0)

			host.Frame(0)
			f := host.Frame(second)

			Expect(f.Positions).To(Equal(before))
			Expect(host.System().Started()).To(BeFalse())
		})
	})

	Context("when running", func() {
		BeforeEach(func() {
			host.Start()
		})

		It("only captures a baseline on the first frame", func() {
			before := host.System().Positions()
			host.OnSensorSample(9, 0, 0, 0)

			f := host.Frame(5 * second)

			Expect(f.Positions).To(Equal(before))
			Expect(f.Time).To(BeZero())
		})

		It("uses the newest sample for each frame", func() {
			host.OnSensorSample(1, 1, 0, 0)
			host.OnSensorSample(2, 3, 0, 1)

			f := host.Frame(0)

			Expect(f.AccelX).To(Equal(float32(2)))
			Expect(f.AccelY).To(Equal(float32(3)))
		})

		It("rolls the balls against the left wall when the left edge is lowered", func() {
			host.OnSensorSample(9.8, 0, 0, 0)
			for i := int64(0); i <= 120; i++ {
				host.Frame(i * second / 60)
			}

			b := host.Layout().Bounds
			for i, p := range host.System().Positions() {
				Expect(p.X).To(Equal(-b.X), "particle %d", i)
				v, err := host.System().VelocityOf(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.X).To(BeZero())
			}
		})

		It("maps samples through the current rotation", func() {
			host.OnRotationChanged(sensor.Rotation90)
			host.OnSensorSample(1, 2, 0, 0)

			f := host.Frame(0)

			Expect(f.AccelX).To(Equal(float32(-2)))
			Expect(f.AccelY).To(Equal(float32(1)))
			Expect(host.Rotation()).To(Equal(sensor.Rotation90))
		})

		It("does not integrate across a pause", func() {
			host.OnSensorSample(9.8, 9.8, 0, 0)
			host.Frame(0)
			host.Stop()
			host.Start()

			before := host.System().Positions()
			host.Frame(100 * second)

			Expect(host.System().Positions()).To(Equal(before))
		})
	})

	Context("when the geometry shrinks", func() {
		It("publishes new bounds and constrains every particle", func() {
			host.Start()
			host.OnSensorSample(-9.8, -9.8, 0, 0)
			for i := int64(0); i <= 60; i++ {
				host.Frame(i * second / 30)
			}

			small := geom
			small.WidthPx, small.HeightPx = 120, 200
			Expect(host.OnGeometryChanged(small)).To(Succeed())

			b := host.Layout().Bounds
			Expect(host.System().Bounds()).To(Equal(b))
			for _, p := range host.System().Positions() {
				Expect(b.Contains(p)).To(BeTrue())
			}
		})

		It("keeps the old layout when the geometry is invalid", func() {
			old := host.Layout()
			Expect(host.OnGeometryChanged(layout.Geometry{})).To(MatchError(layout.ErrInvalidGeometry))
			Expect(host.Layout()).To(Equal(old))
		})
	})

	It("maps positions onto screen pixels", func() {
		px := host.Screen()
		Expect(px).To(HaveLen(physics.DefaultCount))

		l := host.Layout()
		for i, p := range host.System().Positions() {
			x, y := l.ToScreen(p)
			Expect(px[i]).To(Equal([2]float32{x, y}))
		}
	})
})
