package event

// Kind distinguishes key-down from key-up events.
type Kind int

const (
	Press Kind = iota
	Release
)

// NoteEvent is one key transition from the input side. Note is a MIDI
// note number; Timestamp is monotonic nanoseconds from the producer.
// Velocity is 0..1; consumers treat a zero value as full velocity so
// sources without velocity (a computer keyboard) can leave it unset.
// Events are immutable once pushed.
type NoteEvent struct {
	Note      int
	Kind      Kind
	Velocity  float64
	Timestamp int64
}
