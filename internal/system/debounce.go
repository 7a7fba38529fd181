package system

import (
	"sync"
	"time"
)

// Timer описывает отложенный вызов.
type Timer interface {
	Stop() bool
}

// Scheduler запускает fn один раз через d. В работе это time.AfterFunc,
// в тестах ручные часы.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// RealScheduler работает на таймерах рантайма.
var RealScheduler Scheduler = realScheduler{}

// Debouncer сворачивает серию вызовов Schedule в один вызов последней
// функции через delay после конца серии.
type Debouncer struct {
	delay time.Duration
	sched Scheduler

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewDebouncer создаёт дебаунсер. nil означает RealScheduler.
func NewDebouncer(delay time.Duration, sched Scheduler) *Debouncer {
	if sched == nil {
		sched = RealScheduler
	}
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay, sched: sched}
}

// Delay возвращает паузу тишины.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule заменяет ожидающий вызов на fn.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Stop может опоздать: таймер уже сработал, но вызов заменён
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel отменяет ожидающий вызов.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending сообщает, ждёт ли вызов.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// ManualScheduler срабатывает только когда Advance переводит часы за срок таймера.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
	owner   *ManualScheduler
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{at: s.now + d, fn: fn, owner: s}
	s.timers = append(s.timers, t)
	return t
}

// Advance сдвигает часы на d и запускает созревшие таймеры по порядку
// сроков, вне блокировки.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	kept := s.timers[:0]
	for _, t := range s.timers {
		switch {
		case t.stopped:
		case t.at <= s.now:
			t.fired = true
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	s.timers = kept
	s.mu.Unlock()

	for i := 1; i < len(due); i++ {
		for j := i; j > 0 && due[j].at < due[j-1].at; j-- {
			due[j], due[j-1] = due[j-1], due[j]
		}
	}
	for _, t := range due {
		t.fn()
	}
}

// Waiting считает таймеры, которые не сработали и не остановлены.
func (s *ManualScheduler) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
