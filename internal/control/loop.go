package control

// Scheduler runs a callback once before the next repaint.
type Scheduler interface {
	Request(fn func())
}

// Loop re-requests frames from its scheduler until the fluid settles.
type Loop struct {
	ctrl  *Controller
	sched Scheduler
}

func NewLoop(ctrl *Controller, sched Scheduler) *Loop {
	return &Loop{ctrl: ctrl, sched: sched}
}

// Kick requests the first frame when start is true. Pass it the result of an
// input handler: loop.Kick(ctrl.PointerMove(x)).
func (l *Loop) Kick(start bool) {
	if start {
		l.sched.Request(l.frame)
	}
}

func (l *Loop) frame() {
	if l.ctrl.Frame() {
		l.sched.Request(l.frame)
	}
}

// ManualScheduler queues frame callbacks until Flush is called.
type ManualScheduler struct {
	queue []func()
}

func (m *ManualScheduler) Request(fn func()) {
	m.queue = append(m.queue, fn)
}

func (m *ManualScheduler) Pending() int { return len(m.queue) }

// Flush runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while flushing wait for the next Flush.
func (m *ManualScheduler) Flush() int {
	q := m.queue
	m.queue = nil
	for _, fn := range q {
		fn()
	}
	return len(q)
}
