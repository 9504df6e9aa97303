package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/lessonforge/lessonforge-backend/internal/services"
)

type TemplateHandler struct {
  svc services.TemplateService
}

func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
  return &TemplateHandler{svc: svc}
}

// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"templates": h.svc.List()})
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
  info, known := h.svc.Get(c.Param("id"))
  if !known {
    c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"template": info})
}
