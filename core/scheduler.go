package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by wake time and fires the due ones from
// the main loop. It replaces the fixed delay at the top of the pad cycle.
type Scheduler struct {
	timerList *Timer
	now       uint32
}

// NewScheduler creates an empty scheduler whose clock starts at now
func NewScheduler(now uint32) *Scheduler {
	return &Scheduler{now: now}
}

// Schedule adds a timer to the schedule
func (s *Scheduler) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insert(t)
}

// insert places t in sorted order by WakeTime relative to the last dispatch time
func (s *Scheduler) insert(t *Timer) {
	if s.timerList == nil || s.wakesBefore(t, s.timerList) {
		t.Next = s.timerList
		s.timerList = t
		return
	}

	current := s.timerList
	for current.Next != nil && !s.wakesBefore(t, current.Next) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// wakesBefore orders timers by distance from the scheduler clock so a
// counter wrap does not reorder them.
func (s *Scheduler) wakesBefore(a, b *Timer) bool {
	return a.WakeTime-s.now < b.WakeTime-s.now
}

// Dispatch processes due timers and returns how many handlers ran
func (s *Scheduler) Dispatch(now uint32) int {
	state := disableInterrupts()
	s.now = now

	fired := 0
	for s.timerList != nil && !timerBefore(now, s.timerList.WakeTime) {
		timer := s.timerList
		s.timerList = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references

		// Handlers may run for a whole bus transaction; keep interrupts on meanwhile
		restoreInterrupts(state)
		result := timer.Handler(timer)
		state = disableInterrupts()
		fired++

		if result == SF_RESCHEDULE {
			s.insert(timer)
		}
	}

	restoreInterrupts(state)
	return fired
}

// Contains reports whether t is on the schedule. A handler that panicked
// was already unlinked and is not.
func (s *Scheduler) Contains(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for cur := s.timerList; cur != nil; cur = cur.Next {
		if cur == t {
			return true
		}
	}
	return false
}

// Pending returns the number of scheduled timers
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.timerList; t != nil; t = t.Next {
		n++
	}
	return n
}
