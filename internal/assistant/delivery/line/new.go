package line

import (
	"github.com/gin-gonic/gin"

	"line-calendar-bot/internal/assistant"
	pkgLine "line-calendar-bot/pkg/line"
	pkgLog "line-calendar-bot/pkg/log"
)

// Handler is the interface for the LINE webhook delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Registrar receives the user IDs that should get reminder pushes.
// *notifier.Registry satisfies it; nil disables registration.
type Registrar interface {
	Add(userID string)
}

type handler struct {
	l             pkgLog.Logger
	uc            assistant.UseCase
	client        *pkgLine.Client
	channelSecret string
	registrar     Registrar
}

// New creates a new LINE delivery handler.
func New(l pkgLog.Logger, uc assistant.UseCase, client *pkgLine.Client, channelSecret string, registrar Registrar) Handler {
	return &handler{
		l:             l,
		uc:            uc,
		client:        client,
		channelSecret: channelSecret,
		registrar:     registrar,
	}
}
