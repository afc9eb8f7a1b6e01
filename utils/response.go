package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes the standard success envelope.
func RespondSuccess(c *gin.Context, data interface{}, meta interface{}) {
	resp := gin.H{"code": http.StatusOK, "data": data}
	if meta != nil {
		resp["meta"] = meta
	}
	c.JSON(http.StatusOK, resp)
}

// RespondError writes an error reply with the given HTTP status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "error": message})
}
