package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/lessonforge/lessonforge-backend/internal/content"
  "github.com/lessonforge/lessonforge-backend/internal/requestdata"
  "github.com/lessonforge/lessonforge-backend/internal/services"
)

type AIHandler struct {
  svc services.GenerationService
}

func NewAIHandler(svc services.GenerationService) *AIHandler {
  return &AIHandler{svc: svc}
}

// POST /api/ai/generate
func (h *AIHandler) Generate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  var req struct {
    Title                  string   `json:"title"`
    Template               string   `json:"template"`
    Grade                  string   `json:"grade"`
    Subject                string   `json:"subject"`
    Curriculum             string   `json:"curriculum"`
    Topics                 []string `json:"topics"`
    AdditionalInstructions string   `json:"additional_instructions"`
    Duration               int      `json:"duration"`
    Sessions               int      `json:"sessions"`
    Difficulty             string   `json:"difficulty"`
    NumQuestions           int      `json:"num_questions"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  creation, err := h.svc.Generate(c.Request.Context(), rd.UserID, rd.Role, services.GenerateInput{
    Title:                  req.Title,
    Template:               req.Template,
    Grade:                  req.Grade,
    Subject:                req.Subject,
    Curriculum:             req.Curriculum,
    Topics:                 req.Topics,
    AdditionalInstructions: req.AdditionalInstructions,
    Duration:               req.Duration,
    Sessions:               req.Sessions,
    Difficulty:             req.Difficulty,
    NumQuestions:           req.NumQuestions,
  })
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusCreated, gin.H{"creation": creation})
}

// POST /api/ai/regenerate
func (h *AIHandler) Regenerate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  var req struct {
    CreationID string `json:"creation_id"`
    SectionKey string `json:"section_key"`
    Tweak      string `json:"tweak"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  creationID, err := uuid.Parse(req.CreationID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creation id"})
    return
  }
  if req.SectionKey == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "section_key is required"})
    return
  }

  out, err := h.svc.Regenerate(c.Request.Context(), rd.UserID, rd.Role, creationID, req.SectionKey, req.Tweak)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "creation": out.Creation,
    "no_op":    out.NoOp,
    "section":  out.Section,
  })
}

// GET /api/ai/creations/:id/sections
func (h *AIHandler) Sections(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  creationID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creation id"})
    return
  }

  sections, err := h.svc.Sections(c.Request.Context(), rd.UserID, creationID)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// GET /api/ai/usage
func (h *AIHandler) Usage(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  usage, err := h.svc.UsageToday(c.Request.Context(), rd.UserID, rd.Role)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }

  c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// GET /api/ai/models
func (h *AIHandler) Models(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"models": h.svc.Models()})
}

func writeGenerationError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, content.ErrSectionNotFound):
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
  case errors.Is(err, services.ErrCreationNotFound):
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
  case errors.Is(err, services.ErrNotOwner):
    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
  case errors.Is(err, services.ErrDailyLimitReached):
    c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
  default:
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
  }
}
