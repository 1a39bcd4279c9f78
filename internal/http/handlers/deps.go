package handlers

import (
	"time"

	"github.com/geocoder89/mealhub/internal/session"
)

type SessionProvider interface {
	Open() (string, *session.Store)
	Extend(id string, until time.Time)
	Close(id string)
	Len() int
}

type TokenIssuer interface {
	GenerateSessionToken(sessionID, username, role string) (string, time.Time, error)
}

type Metrics interface {
	IncOrderPlaced()
	IncAuthAttempt(action, result string)
	SetActiveSessions(n int)
}

type NoopMetrics struct{}

func (NoopMetrics) IncOrderPlaced()               {}
func (NoopMetrics) IncAuthAttempt(string, string) {}
func (NoopMetrics) SetActiveSessions(int)         {}
