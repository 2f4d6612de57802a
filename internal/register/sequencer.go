package register

// sequencer hands out tickets so that network results are applied in the
// order their requests were submitted, whatever order the responses arrive in.
// next must be called with the controller lock held.
type sequencer struct {
	tail chan struct{}
}

type ticket struct {
	prev <-chan struct{}
	self chan struct{}
}

func (s *sequencer) next() ticket {
	t := ticket{prev: s.tail, self: make(chan struct{})}
	s.tail = t.self
	return t
}

// wait blocks until every earlier ticket is done.
func (t ticket) wait() {
	if t.prev != nil {
		<-t.prev
	}
}

func (t ticket) done() {
	close(t.self)
}
