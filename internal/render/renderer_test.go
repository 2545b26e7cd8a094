package render

import (
	"bytes"
	"image/color"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Renderer", func() {
	var (
		bodies []Body
		dl     *DisplayList
		r      *Renderer
	)

	accessor := SpacetimeFunc(func() []Body { return bodies })

	newRenderer := func(opts ...Option) *Renderer {
		rr, err := New(dl, accessor, 1, opts...)
		Expect(err).NotTo(HaveOccurred())
		return rr
	}

	BeforeEach(func() {
		bodies = nil
		dl = NewDisplayList(800, 600)
	})

	It("rejects missing collaborators", func() {
		_, err := New(nil, accessor, 1)
		Expect(err).To(HaveOccurred())
		_, err = New(dl, nil, 1)
		Expect(err).To(HaveOccurred())
	})

	It("starts with the default toggles", func() {
		r = newRenderer()
		Expect(r.Settings()).To(Equal(Settings{ShowGrid: true, LockCamera: true}))
		Expect(r.Camera().Zoom).To(Equal(1.0))
	})

	It("clears the surface first and draws the grid when enabled", func() {
		r = newRenderer()
		r.RenderFrame()
		Expect(dl.Commands[0].Op).To(Equal(OpClear))
		Expect(dl.Count(OpStrokeLine)).To(Equal(18 + 14))

		r.ToggleGrid()
		r.RenderFrame()
		Expect(dl.Count(OpStrokeLine)).To(Equal(0))
	})

	It("centres the camera on the focused body and keeps it there", func() {
		bodies = []Body{
			{Position: r2.Vec{X: 500, Y: 500}, Mass: 1, Density: 1},
			{Position: r2.Vec{X: 100, Y: 100}, Mass: 1, Density: 1, CameraFocus: true},
		}
		r = newRenderer()
		r.SetZoom(2)

		r.RenderFrame()
		want := r2.Vec{X: 100 - 800.0/2/2, Y: 100 - 600.0/2/2}
		Expect(r.Camera().Offset).To(Equal(want))

		r.RenderFrame()
		Expect(r.Camera().Offset).To(Equal(want))
	})

	It("leaves the camera alone when lock is off", func() {
		bodies = []Body{{Position: r2.Vec{X: 100, Y: 100}, CameraFocus: true}}
		r = newRenderer()
		r.ToggleLockCamera()
		r.RenderFrame()
		Expect(r.Camera().Offset).To(Equal(r2.Vec{}))
	})

	It("picks the first focused body in accessor order when several are focused", func() {
		bodies = []Body{
			{Position: r2.Vec{X: 400, Y: 300}, CameraFocus: true},
			{Position: r2.Vec{X: 900, Y: 900}, CameraFocus: true},
		}
		r = newRenderer()
		r.RenderFrame()
		Expect(r.Camera().Offset).To(Equal(r2.Vec{}))
	})

	It("paints bodies in reverse accessor order, trail before body", func() {
		trail := []r2.Vec{{X: 1}, {X: 2}, {X: 3}, {X: 4}}
		bodies = []Body{
			{Position: r2.Vec{X: 10}, Mass: 1, Density: 1, Path: trail},
			{Position: r2.Vec{X: 20}, Mass: 1, Density: 1, Path: trail},
		}
		r = newRenderer()
		r.ToggleGrid()
		r.ToggleLockCamera()
		r.RenderFrame()

		var ops []Op
		var centres []float64
		for _, c := range dl.Commands[1:] {
			ops = append(ops, c.Op)
			if c.Op == OpFillCircle {
				centres = append(centres, c.From.X)
			}
		}
		Expect(ops).To(Equal([]Op{
			OpStrokePath, OpFillCircle, OpStrokeCircle,
			OpStrokePath, OpFillCircle, OpStrokeCircle,
		}))
		Expect(centres).To(Equal([]float64{20, 10}))
	})

	It("draws the pointer overlay last", func() {
		bodies = []Body{{Mass: 1, Density: 1}}
		r = newRenderer()
		r.SetPointerOverlay(PointerOverlay{
			Visible:   true,
			State:     OverlayVelocity,
			Primary:   r2.Vec{X: 1, Y: 1},
			Secondary: r2.Vec{X: 9, Y: 9},
		})
		r.RenderFrame()

		last := dl.Commands[len(dl.Commands)-1]
		Expect(last.Op).To(Equal(OpStrokeLine))
		Expect(last.From).To(Equal(r2.Vec{X: 1, Y: 1}))
		Expect(last.To).To(Equal(r2.Vec{X: 9, Y: 9}))
	})

	It("applies mass multiplier updates on the next frame", func() {
		bodies = []Body{{Mass: 12, Density: 1}}
		r = newRenderer()
		r.ToggleGrid()
		r.UpdateMassMultiplier(8)
		r.RenderFrame()
		Expect(dl.Commands[1].Radius).To(BeNumerically("~", Radius(12, 1, 8), 1e-12))
	})

	It("pans the camera in fixed steps", func() {
		r = newRenderer()
		r.Pan(PanRight)
		r.Pan(PanRight)
		r.Pan(PanUp)
		Expect(r.Camera().Offset).To(Equal(r2.Vec{X: 20, Y: -10}))
	})

	Context("realistic mode", func() {
		It("refuses to turn on without a background", func() {
			r = newRenderer()
			Expect(r.ToggleRealisticMode()).To(MatchError(ErrMissingTexture))
			Expect(r.Settings().RealisticMode).To(BeFalse())

			_, err := New(dl, accessor, 1, WithSettings(Settings{RealisticMode: true}))
			Expect(err).To(MatchError(ErrMissingTexture))
		})

		It("tiles the background before the grid", func() {
			bg := &Texture{Name: "stars", Path: "stars.png"}
			r = newRenderer(WithBackground(bg))
			Expect(r.ToggleRealisticMode()).To(Succeed())
			r.RenderFrame()

			Expect(dl.Commands[1].Op).To(Equal(OpFillPattern))
			Expect(dl.Commands[1].Rect).To(Equal(Rect{W: 800, H: 600}))
			Expect(dl.Commands[2].Op).To(Equal(OpStrokeLine))

			Expect(r.ToggleRealisticMode()).To(Succeed())
			r.RenderFrame()
			Expect(dl.Count(OpFillPattern)).To(Equal(0))
		})
	})

	It("skips a body whose drawing panics and keeps the rest", func() {
		var logs bytes.Buffer
		bodies = []Body{
			{Position: r2.Vec{X: 10}, Mass: 1, Density: 1},
			{Position: r2.Vec{X: 20}, Mass: 1, Density: 1},
		}
		bad := &explodingSurface{DisplayList: dl, explodeAt: 20}
		rr, err := New(bad, accessor, 1, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		Expect(err).NotTo(HaveOccurred())

		rr.ToggleGrid()
		rr.ToggleLockCamera()
		Expect(rr.RenderFrame).NotTo(Panic())
		Expect(dl.Count(OpFillCircle)).To(Equal(1))
		Expect(dl.Commands[len(dl.Commands)-2].From.X).To(Equal(10.0))
		Expect(logs.String()).To(ContainSubstring("body draw failed"))
		Expect(rr.Ticks()).To(BeEquivalentTo(1))
	})

	It("survives an accessor that panics", func() {
		rr, err := New(dl, SpacetimeFunc(func() []Body { panic("boom") }), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(rr.RenderFrame).NotTo(Panic())
		Expect(rr.Ticks()).To(BeEquivalentTo(1))
	})

	It("drives frames from the loop", func() {
		clock := &manualClock{}
		r = newRenderer(WithTickSource(clock.New), WithFPS(30))
		r.StartLoop()
		defer r.StopLoop()
		r.StartLoop()

		Expect(clock.Created()).To(Equal(1))
		Expect(clock.fire()).To(BeTrue())
		Expect(clock.fire()).To(BeTrue())
		Eventually(r.Ticks).Should(BeEquivalentTo(2))
	})

	It("publishes complete frames through a buffered surface", func() {
		buf := NewBuffered(800, 600)
		bodies = []Body{{Mass: 1, Density: 1}}
		rr, err := New(buf, accessor, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(buf.Frame().Commands).To(BeEmpty())
		rr.RenderFrame()

		out := NewDisplayList(0, 0)
		buf.Replay(out)
		Expect(out.Commands[0].Op).To(Equal(OpClear))
		Expect(out.Count(OpFillCircle)).To(Equal(1))

		buf.Resize(100, 50)
		rr.RenderFrame()
		Expect(buf.Frame().W).To(Equal(100.0))
		Expect(buf.Frame().Count(OpStrokeLine)).To(Equal(4 + 3))
	})

	It("does not tick while stopped", func() {
		clock := &manualClock{}
		r = newRenderer(WithTickSource(clock.New))
		Consistently(r.Ticks, 20*time.Millisecond).Should(BeEquivalentTo(0))
	})
})

// explodingSurface panics when asked to fill a circle centred at explodeAt.
type explodingSurface struct {
	*DisplayList
	explodeAt float64
}

func (e *explodingSurface) FillCircle(c r2.Vec, r float64, clr color.Color) {
	if c.X == e.explodeAt {
		panic("bad body")
	}
	e.DisplayList.FillCircle(c, r, clr)
}
