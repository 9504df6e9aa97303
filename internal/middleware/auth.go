package middleware

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/requestdata"
  "github.com/lessonforge/lessonforge-backend/internal/services"
  "github.com/lessonforge/lessonforge-backend/internal/utils"
)

type AuthMiddleware struct {
  log         *logger.Logger
  permissions services.PermissionService
  jwtSecret   []byte
}

func NewAuthMiddleware(log *logger.Logger, permissions services.PermissionService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  secret := utils.GetEnv("JWT_SECRET", "", log)
  return &AuthMiddleware{
    log:         middlewareLogger,
    permissions: permissions,
    jwtSecret:   []byte(secret),
  }
}

// RequireAuth verifies the bearer token and threads the caller's identity
// through the request context. Token issuance lives upstream; this service
// only validates.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    userID, role, err := am.parseToken(tokenString)
    if err != nil {
      am.log.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
      return
    }

    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
      TokenString: tokenString,
      UserID:      userID,
      Role:        role,
    })
    c.Request = c.Request.WithContext(ctx)

    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

// RequirePermission gates a route on the role capability matrix. Must run
// after RequireAuth.
func (am *AuthMiddleware) RequirePermission(domain, action string) gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    if !am.permissions.Can(rd.Role, domain, action) {
      am.log.Debug("Permission denied", "user_id", rd.UserID.String(), "domain", domain, "action", action)
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (uuid.UUID, string, error) {
  claims := jwt.MapClaims{}
  token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return am.jwtSecret, nil
  })
  if err != nil {
    return uuid.Nil, "", err
  }
  if !token.Valid {
    return uuid.Nil, "", fmt.Errorf("invalid token")
  }

  sub, err := claims.GetSubject()
  if err != nil || sub == "" {
    return uuid.Nil, "", fmt.Errorf("missing subject claim")
  }
  userID, err := uuid.Parse(sub)
  if err != nil {
    return uuid.Nil, "", fmt.Errorf("subject is not a user id: %w", err)
  }

  role, _ := claims["role"].(string)
  if role == "" {
    return uuid.Nil, "", fmt.Errorf("missing role claim")
  }
  return userID, role, nil
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  return ""
}
