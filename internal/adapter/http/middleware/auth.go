package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/NMHx2005/lms-backend-sub006/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "auth_user_id"
	ContextRole   = "auth_role"

	RoleAdmin = "admin"
)

var (
	errMissingToken = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authorization header missing", http.StatusUnauthorized)
	errMalformed    = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Bearer token malformed", http.StatusUnauthorized)
	errInvalidToken = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)
	errForbidden    = pkg.NewDomainErrorSimple("FORBIDDEN", "Access denied", http.StatusForbidden)
)

// Claims are issued by the LMS auth service: sub is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth validates an HS256 bearer token and stores the caller identity in
// the gin context.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, errMissingToken)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header || strings.TrimSpace(raw) == "" {
			abort(c, errMalformed)
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
			if len(key) == 0 {
				return nil, errors.New("jwt secret not configured")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			abort(c, errInvalidToken)
			return
		}
		sub, err := claims.GetSubject()
		if err != nil || strings.TrimSpace(sub) == "" {
			abort(c, errInvalidToken)
			return
		}

		c.Set(ContextUserID, sub)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			abort(c, errForbidden)
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == RoleAdmin
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
