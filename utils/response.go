package utils

import (
	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Error: msg})
}

func ErrorDetails(c *gin.Context, status int, msg string, details interface{}) {
	c.JSON(status, ErrorBody{Error: msg, Details: details})
}
