package model

// Scope carries the request-scoped user identity through usecases.
type Scope struct {
	UserID      string // LINE user ID
	DisplayName string
}
