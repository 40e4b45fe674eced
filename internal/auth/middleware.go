package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"bdf-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerScheme = "bearer"

// TokenVerifier is the slice of Manager the gate needs.
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (Claims, error)
}

// RejectionRecorder is notified of tokens the gate turns away. Calls happen off the
// request path; when the queue is full the notification is dropped.
type RejectionRecorder interface {
	TokenRejected(ctx context.Context, cause error)
}

// rejectionQueueSize bounds pending recorder notifications.
const rejectionQueueSize = 256

type rejection struct {
	ctx   context.Context
	cause error
}

// ClaimsHandlerFunc is a handler that only ever runs with verified claims.
type ClaimsHandlerFunc func(c *gin.Context, claims Claims)

// Gate runs ahead of every protected handler. It never waits on the recorder.
type Gate struct {
	verifier TokenVerifier
	recorder RejectionRecorder
	now      func() time.Time

	queue     chan rejection
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewGate starts one background worker when r is non-nil. Call Close once the
// server has stopped handling requests.
func NewGate(v TokenVerifier, r RejectionRecorder) *Gate {
	g := &Gate{verifier: v, recorder: r, now: time.Now}
	if r != nil {
		g.queue = make(chan rejection, rejectionQueueSize)
		g.done = make(chan struct{})
		g.wg.Add(1)
		go g.drainRejections()
	}
	return g
}

// Close stops the worker after delivering every queued notification.
func (g *Gate) Close() {
	if g.done == nil {
		return
	}
	g.closeOnce.Do(func() { close(g.done) })
	g.wg.Wait()
}

// RequireToken verifies the bearer token and injects claims into the request context.
// Use it on route groups; handlers read claims via ClaimsFromGin.
func (g *Gate) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// Protect wraps h so it receives claims as an argument. There is no path into h without them.
func (g *Gate) Protect(h ClaimsHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.authenticate(c)
		if !ok {
			return
		}
		h(c, claims)
	}
}

func (g *Gate) authenticate(c *gin.Context) (Claims, bool) {
	tok, err := bearerToken(c.GetHeader(authorizationHeader))
	if err == nil {
		var claims Claims
		claims, err = g.verifier.Verify(tok, g.now())
		if err == nil {
			attachClaims(c, claims)
			return claims, true
		}
	}

	log := logger.FromGin(c)
	log.Debug("token rejected", "err", err)
	if !g.enqueue(rejection{ctx: context.WithoutCancel(c.Request.Context()), cause: err}) {
		log.Warn("token rejection dropped before recording")
	}
	WriteError(c, err)
	return Claims{}, false
}

// enqueue never blocks. It reports false only when a notification was dropped.
func (g *Gate) enqueue(r rejection) bool {
	if g.queue == nil {
		return true
	}
	select {
	case <-g.done:
		return false
	default:
	}
	select {
	case g.queue <- r:
		return true
	default:
		return false
	}
}

func (g *Gate) drainRejections() {
	defer g.wg.Done()
	for {
		select {
		case r := <-g.queue:
			g.recorder.TokenRejected(r.ctx, r.cause)
		case <-g.done:
			for {
				select {
				case r := <-g.queue:
					g.recorder.TokenRejected(r.ctx, r.cause)
				default:
					return
				}
			}
		}
	}
}

// bearerToken parses "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, error) {
	raw := strings.TrimSpace(header)
	scheme, tok, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrInvalidToken
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrInvalidToken
	}
	return tok, nil
}
