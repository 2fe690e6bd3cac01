package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"DevConnect/logger"
	"DevConnect/tools/errs"
)

// Fail writes the structured error reply. Code errors surface their message
// and mapped status; anything else is reported generically and logged, so
// internals never leak to clients.
func Fail(c *gin.Context, err error) {
	if ce, ok := errs.Code(err); ok {
		if ce.Code == errs.CodeInternal {
			logger.Errorf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.AbortWithStatusJSON(ce.HTTPStatus(), gin.H{"message": ce.Msg})
		return
	}
	logger.Errorf("unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

func OK(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, obj)
}

func Created(c *gin.Context, obj any) {
	c.JSON(http.StatusCreated, obj)
}
