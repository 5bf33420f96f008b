// Package auth carries the authenticated actor identity through request
// handling.
package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const actorContextKey = "Actor-Context"

// ActorContext identifies the authenticated dashboard actor for a request.
// Handlers receive it explicitly instead of reading global request state.
type ActorContext struct {
	ID   uuid.UUID
	Role string
}

// SetActor attaches the actor to the gin context. Called by the JWT
// middleware once the token is validated.
func SetActor(c *gin.Context, actor ActorContext) {
	c.Set(actorContextKey, actor)
}

// ActorFromContext returns the authenticated actor, if the request passed the
// JWT middleware.
func ActorFromContext(c *gin.Context) (ActorContext, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return ActorContext{}, false
	}
	actor, ok := v.(ActorContext)
	return actor, ok
}
