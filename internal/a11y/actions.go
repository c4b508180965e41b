package a11y

// Actions are the page operations reachable from both the keyboard and
// voice commands. Pages that lack an operation implement it as a no-op.
type Actions interface {
	Like()
	Pass()
	Message()
	ReadProfile()
}
