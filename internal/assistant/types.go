package assistant

// HandleMessageInput is the input for handling one text message.
type HandleMessageInput struct {
	Text string
}

// HandleMessageOutput is the result of handling one text message.
type HandleMessageOutput struct {
	Reply string
	// InteractionID is the telemetry record ID, empty when recording
	// is disabled or failed (recording is best-effort).
	InteractionID string
}
