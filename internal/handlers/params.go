package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/middleware"
)

// actor is the authenticated caller; routes without AuthMiddleware get a
// zero identity.
func actor(c *gin.Context) auth.Identity {
	if id := middleware.CurrentIdentity(c); id != nil {
		return *id
	}
	return auth.Identity{}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric filter; a bad value aborts the request.
func queryUint(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+key, key+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}
