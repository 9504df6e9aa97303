package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/lessonforge/lessonforge-backend/internal/requestdata"
  "github.com/lessonforge/lessonforge-backend/internal/services"
)

type CreationHandler struct {
  svc services.CreationService
}

func NewCreationHandler(svc services.CreationService) *CreationHandler {
  return &CreationHandler{svc: svc}
}

// POST /api/creations
func (h *CreationHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  var req struct {
    Title      string            `json:"title"`
    Template   string            `json:"template"`
    Grade      string            `json:"grade"`
    Subject    string            `json:"subject"`
    Curriculum string            `json:"curriculum"`
    Sections   map[string]string `json:"sections"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  creation, err := h.svc.Create(c.Request.Context(), rd.UserID, services.CreateInput{
    Title:      req.Title,
    Template:   req.Template,
    Grade:      req.Grade,
    Subject:    req.Subject,
    Curriculum: req.Curriculum,
    Sections:   req.Sections,
  })
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }

  c.JSON(http.StatusCreated, gin.H{"creation": creation})
}

// GET /api/creations
func (h *CreationHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return
  }

  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
  offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
  template := c.Query("template")

  var published *bool
  if v := c.Query("published"); v != "" {
    parsed, err := strconv.ParseBool(v)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid published filter"})
      return
    }
    published = &parsed
  }

  page, err := h.svc.List(c.Request.Context(), rd.UserID, template, published, limit, offset)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }

  c.JSON(http.StatusOK, gin.H{"creations": page.Creations, "total": page.Total})
}

// GET /api/creations/:id
func (h *CreationHandler) Get(c *gin.Context) {
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

  creation, err := h.svc.Get(c.Request.Context(), rd.UserID, creationID)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"creation": creation})
}

// PATCH /api/creations/:id
func (h *CreationHandler) Update(c *gin.Context) {
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

  var req struct {
    Title             *string `json:"title"`
    Grade             *string `json:"grade"`
    Subject           *string `json:"subject"`
    Curriculum        *string `json:"curriculum"`
    AdditionalDetails *string `json:"additional_details"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  creation, err := h.svc.Update(c.Request.Context(), rd.UserID, creationID, services.CreationUpdate{
    Title:             req.Title,
    Grade:             req.Grade,
    Subject:           req.Subject,
    Curriculum:        req.Curriculum,
    AdditionalDetails: req.AdditionalDetails,
  })
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"creation": creation})
}

// PUT /api/creations/:id/sections/:key
func (h *CreationHandler) UpdateSection(c *gin.Context) {
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

  var req struct {
    Text string `json:"text"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  creation, err := h.svc.UpdateSection(c.Request.Context(), rd.UserID, creationID, c.Param("key"), req.Text)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"creation": creation})
}

// DELETE /api/creations/:id
func (h *CreationHandler) Delete(c *gin.Context) {
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

  if err := h.svc.Delete(c.Request.Context(), rd.UserID, creationID); err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// POST /api/creations/:id/duplicate
func (h *CreationHandler) Duplicate(c *gin.Context) {
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

  duplicate, err := h.svc.Duplicate(c.Request.Context(), rd.UserID, creationID)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusCreated, gin.H{"creation": duplicate})
}

// PUT /api/creations/:id/publish
func (h *CreationHandler) SetPublished(c *gin.Context) {
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

  var req struct {
    Published *bool `json:"published" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "published is required"})
    return
  }

  creation, err := h.svc.SetPublished(c.Request.Context(), rd.UserID, creationID, *req.Published)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"creation": creation})
}

// GET /api/creations/:id/versions
func (h *CreationHandler) Versions(c *gin.Context) {
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

  versions, err := h.svc.Versions(c.Request.Context(), rd.UserID, creationID)
  if err != nil {
    writeGenerationError(c, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{"versions": versions})
}
