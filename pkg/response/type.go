package response

// Resp is the envelope every JSON endpoint replies with. ErrorCode 0
// means success; Data carries the payload when there is one.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}
