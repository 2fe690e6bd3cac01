package security

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/middleware"
	"DevConnect/module/user"
	"DevConnect/service/storage"
	"DevConnect/tools/errs"
	toolsec "DevConnect/tools/security"
)

// CookieName is where the session token lives; an Authorization bearer header
// is accepted as a fallback for non-browser clients.
const CookieName = "token"

type Options struct {
	JWT      toolsec.Options
	Sessions storage.SessionStore
	Users    user.Store
}

// Middleware authenticates the request before any handler touches a store:
// token present, signature valid, not revoked, account still there. The
// loaded user is placed on the context for handlers to pick up.
func Middleware(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieName)
		if token == "" {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}
		if token == "" {
			middleware.Fail(c, errs.Unauthenticated("not authorized, no token"))
			return
		}

		sess, err := toolsec.Verify(opts.JWT, token)
		if err != nil {
			middleware.Fail(c, errs.Unauthenticated("token invalid or expired"))
			return
		}
		if sess.TokenID != "" {
			revoked, err := opts.Sessions.IsRevoked(c.Request.Context(), sess.TokenID)
			if err != nil {
				middleware.Fail(c, errs.WrapMsg(err, "check session revocation"))
				return
			}
			if revoked {
				middleware.Fail(c, errs.Unauthenticated("session has been logged out"))
				return
			}
		}

		uid, err := primitive.ObjectIDFromHex(sess.UserID)
		if err != nil {
			middleware.Fail(c, errs.Unauthenticated("token invalid or expired"))
			return
		}
		u, err := opts.Users.GetByID(c.Request.Context(), uid)
		if err != nil {
			middleware.Fail(c, errs.Unauthenticated("account no longer exists"))
			return
		}

		middleware.SetIdentity(c, u, sess)
		c.Next()
	}
}
