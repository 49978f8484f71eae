package cruise

// Loader assigns page URLs to frames one at a time, in page order. The next
// assignment waits for the current frame to report completion; a failed load
// counts as completion so a broken page cannot stall the queue.
type Loader struct {
	reg      *Registry
	surface  Surface
	next     int
	inFlight int
}

// NewLoader creates an idle loader.
func NewLoader(reg *Registry, surface Surface) *Loader {
	return &Loader{reg: reg, surface: surface, inFlight: -1}
}

// Start begins loading from slot from.
func (l *Loader) Start(from int) {
	if from < 0 {
		from = 0
	}
	l.next = from
	l.inFlight = -1
	l.advance()
}

// Loaded records completion of slot i and starts the next assignment.
// Signals for slots that are not in flight are ignored.
func (l *Loader) Loaded(i int) bool {
	if i != l.inFlight || i < 0 {
		return false
	}
	if slot := l.reg.Slot(i); slot != nil {
		slot.Load = LoadDone
	}
	l.advance()
	return true
}

// InFlight returns the slot currently loading, or -1.
func (l *Loader) InFlight() int { return l.inFlight }

// Done reports whether every slot has been assigned and completed.
func (l *Loader) Done() bool { return l.inFlight < 0 && l.next >= l.reg.Len() }

func (l *Loader) advance() {
	slot := l.reg.Slot(l.next)
	if slot == nil {
		l.inFlight = -1
		return
	}
	l.inFlight = l.next
	l.next++
	slot.Frame.Src = slot.URL
	slot.Load = LoadInFlight
	l.surface.AssignSource(slot.Index, slot.URL)
}
