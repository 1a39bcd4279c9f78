package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions SessionProvider
	tokens   TokenIssuer
	metrics  Metrics
	log      *slog.Logger
}

func NewAuthHandler(sessions SessionProvider, tokens TokenIssuer, metrics Metrics, log *slog.Logger) *AuthHandler {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		sessions: sessions,
		tokens:   tokens,
		metrics:  metrics,
		log:      log,
	}
}

type SessionResponse struct {
	AccessToken string          `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	Redirect    string          `json:"redirect,omitempty"`
	Session     session.Session `json:"session"`
	State       session.State   `json:"state"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	sid, st, opened := h.sessionFor(ctx)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := st.Register(cctx, req)
	if err != nil {
		if opened {
			h.sessions.Close(sid)
		}

		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			h.metrics.IncAuthAttempt("signup", "rejected")
			RespondConflict(ctx, "username_taken", "Username is already registered.")
		case errors.Is(err, user.ErrInvalidProfile):
			h.metrics.IncAuthAttempt("signup", "rejected")
			RespondBadRequest(ctx, "Invalid sign-up details", gin.H{"reason": err.Error()})
		default:
			h.metrics.IncAuthAttempt("signup", "error")
			h.log.ErrorContext(ctx.Request.Context(), "sign-up failed", "err", err)
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	h.metrics.IncAuthAttempt("signup", "ok")
	h.respondSession(ctx, http.StatusCreated, sid, st, out)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.Credentials

	if !BindJSON(ctx, &req) {
		return
	}

	sid, st, opened := h.sessionFor(ctx)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	out, err := st.Login(cctx, req)
	if err != nil {
		if opened {
			h.sessions.Close(sid)
		}

		if errors.Is(err, session.ErrInvalidCredentials) {
			h.metrics.IncAuthAttempt("login", "rejected")
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials. Please try again.")
			return
		}

		h.metrics.IncAuthAttempt("login", "error")
		h.log.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
		RespondInternal(ctx, "Could not sign in")
		return
	}

	h.metrics.IncAuthAttempt("login", "ok")
	h.respondSession(ctx, http.StatusOK, sid, st, out)
}

// Logout ends the session. It always succeeds, signed in or not.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if sid, ok := middlewares.SessionIDFromContext(ctx); ok {
		h.sessions.Close(sid)
		h.metrics.SetActiveSessions(h.sessions.Len())
	}
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(ctx *gin.Context) {
	snap := middlewares.SnapshotFromContext(ctx)
	ctx.JSON(http.StatusOK, SessionResponse{Session: snap, State: snap.State()})
}

// sessionFor reuses the caller's session or opens a new one.
func (h *AuthHandler) sessionFor(ctx *gin.Context) (string, *session.Store, bool) {
	if st, ok := middlewares.StoreFromContext(ctx); ok {
		if sid, ok := middlewares.SessionIDFromContext(ctx); ok {
			return sid, st, false
		}
	}

	sid, st := h.sessions.Open()
	return sid, st, true
}

func (h *AuthHandler) respondSession(ctx *gin.Context, status int, sid string, st *session.Store, out session.Outcome) {
	snap := st.Snapshot()

	var username, role string
	if snap.User != nil {
		username, role = snap.User.Username, string(snap.User.Role)
	}

	token, expiresAt, err := h.tokens.GenerateSessionToken(sid, username, role)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "issue session token", "err", err)
		RespondInternal(ctx, "Could not create session")
		return
	}

	// the session lives exactly as long as its token
	h.sessions.Extend(sid, expiresAt)
	h.metrics.SetActiveSessions(h.sessions.Len())

	ctx.JSON(status, SessionResponse{
		AccessToken: token,
		ExpiresAt:   &expiresAt,
		Redirect:    out.Redirect,
		Session:     snap,
		State:       snap.State(),
	})
}
