package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
)

type HealthcheckHandler struct{}

func NewHealthcheckHandler() *HealthcheckHandler {
  return &HealthcheckHandler{}
}

// GET /healthcheck
func (h *HealthcheckHandler) Check(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
