package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/utils"
)

// DB is injected from main before the router starts serving.
var DB *gorm.DB

// UploadFolder is where restaurant and item pictures land; main overrides it
// from config.
var UploadFolder = "static/uploads"

// UserClaimsKey is the gin context key under which AuthMiddleware stores the
// validated token claims.
const UserClaimsKey = "user_claims"

// currentClaims pulls the authenticated principal's claims out of the gin
// context. Aborts with 401 when the middleware never ran.
func currentClaims(c *gin.Context) (*utils.Claims, bool) {
	claimsInterface, exists := c.Get(UserClaimsKey)
	if !exists || claimsInterface == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User authentication details not found"})
		return nil, false
	}
	return claimsInterface.(*utils.Claims), true
}
