package handlers

import (
	"github.com/gin-gonic/gin"
)

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, gin.H{"error": msg})
}
