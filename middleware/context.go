package middleware

import (
	"github.com/gin-gonic/gin"

	usermodel "DevConnect/module/user/model"
	toolsec "DevConnect/tools/security"
)

const (
	ctxUserKey    = "currentUser"
	ctxSessionKey = "currentSession"
)

// SetIdentity is called by the auth middleware once the session checks out.
func SetIdentity(c *gin.Context, u *usermodel.User, sess *toolsec.Session) {
	c.Set(ctxUserKey, u)
	c.Set(ctxSessionKey, sess)
}

// CurrentUser returns the authenticated account, or nil on unauthenticated
// routes.
func CurrentUser(c *gin.Context) *usermodel.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*usermodel.User); ok {
			return u
		}
	}
	return nil
}

func CurrentSession(c *gin.Context) *toolsec.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(*toolsec.Session); ok {
			return s
		}
	}
	return nil
}
