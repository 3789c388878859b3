package model

// Message is one rendered text block ready for the delivery transport.
type Message struct {
	Text string
	// Forward marks the block that gets forwarded to the configured targets.
	Forward bool
}
