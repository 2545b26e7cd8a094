package render

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// manualClock hands out tick sources whose ticks are fired by the test.
type manualClock struct {
	mu      sync.Mutex
	sources []*manualSource
}

type manualSource struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (s *manualSource) C() <-chan time.Time { return s.c }
func (s *manualSource) Stop()               { s.stopped.Store(true) }

func (m *manualClock) New(time.Duration) TickSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := &manualSource{c: make(chan time.Time)}
	m.sources = append(m.sources, src)
	return src
}

func (m *manualClock) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

func (m *manualClock) Last() *manualSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources[len(m.sources)-1]
}

// fire delivers one tick; it returns false if nobody is listening.
func (m *manualClock) fire() bool {
	select {
	case m.Last().c <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

var _ = Describe("Scheduler", func() {
	var (
		clock *manualClock
		ticks atomic.Int64
		s     *Scheduler
	)

	BeforeEach(func() {
		clock = &manualClock{}
		ticks.Store(0)
		s = NewScheduler(time.Millisecond, func() { ticks.Add(1) }, clock.New, nil)
	})

	AfterEach(func() {
		s.Stop()
	})

	It("starts stopped", func() {
		Expect(s.Running()).To(BeFalse())
		Expect(clock.Created()).To(Equal(0))
	})

	It("treats Stop before Start as a no-op", func() {
		Expect(s.Stop).NotTo(Panic())
		Expect(s.Running()).To(BeFalse())
	})

	It("creates a single tick source when started twice", func() {
		s.Start()
		s.Start()
		Expect(s.Running()).To(BeTrue())
		Expect(clock.Created()).To(Equal(1))
	})

	It("ticks once per tick signal", func() {
		s.Start()
		Expect(clock.fire()).To(BeTrue())
		Expect(clock.fire()).To(BeTrue())
		Expect(clock.fire()).To(BeTrue())
		Eventually(ticks.Load).Should(BeEquivalentTo(3))
	})

	It("stops ticking after Stop until the next Start", func() {
		s.Start()
		Expect(clock.fire()).To(BeTrue())
		Eventually(ticks.Load).Should(BeEquivalentTo(1))

		first := clock.Last()
		s.Stop()
		Expect(s.Running()).To(BeFalse())
		Eventually(first.stopped.Load).Should(BeTrue())
		Expect(clock.fire()).To(BeFalse())
		Consistently(ticks.Load, 30*time.Millisecond).Should(BeEquivalentTo(1))

		s.Start()
		Expect(clock.Created()).To(Equal(2))
		Expect(clock.fire()).To(BeTrue())
		Eventually(ticks.Load).Should(BeEquivalentTo(2))
	})

	It("waits for a running tick and starts none after Stop returns", func() {
		release := make(chan struct{})
		entered := make(chan struct{}, 4)
		var runs atomic.Int64
		blocking := NewScheduler(time.Millisecond, func() {
			runs.Add(1)
			entered <- struct{}{}
			<-release
		}, clock.New, nil)

		blocking.Start()
		Expect(clock.fire()).To(BeTrue())
		Eventually(entered).Should(Receive())

		stopped := make(chan struct{})
		go func() {
			blocking.Stop()
			close(stopped)
		}()
		Consistently(stopped, 30*time.Millisecond).ShouldNot(BeClosed())

		close(release)
		Eventually(stopped).Should(BeClosed())
		Expect(blocking.Running()).To(BeFalse())
		Expect(clock.fire()).To(BeFalse())
		Consistently(runs.Load, 30*time.Millisecond).Should(BeEquivalentTo(1))
	})
})
