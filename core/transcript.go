package core

// Turn is a single authored entry of a transcript.
type Turn struct {
	Human bool
	Text  string
}

// AgentProfile carries the agent configuration a vendor adapter needs to
// shape its provider call.
type AgentProfile struct {
	Name         string
	Vendor       string
	Model        string
	Role         string
	Instructions string
}

// Transcript is the vendor-neutral unit handed to a vendor adapter: the
// bound agent's profile plus the ordered append-log of turns. Turns are
// never mutated or reordered after creation.
type Transcript struct {
	ConversationID int64
	Agent          AgentProfile
	Turns          []Turn
}

// LastTurn returns the final turn and true, or a zero turn and false when
// the transcript is empty.
func (t Transcript) LastTurn() (Turn, bool) {
	if len(t.Turns) == 0 {
		return Turn{}, false
	}
	return t.Turns[len(t.Turns)-1], true
}
