package chat

import (
	"strings"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	apperrors "github.com/fannypil/MovieSquad/pkg/errors"
	"github.com/fannypil/MovieSquad/pkg/utils"
	"gorm.io/gorm"
)

// VerifyIdentity resolves the bearer credential presented at connection
// time to a user record. It runs once per connection attempt, before any
// room operation is permitted.
func VerifyIdentity(db *gorm.DB, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	if database.IsTokenBlacklisted(claims.GetJTI()) {
		return nil, apperrors.Unauthorized("Token has been revoked")
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, apperrors.Unauthorized("User not found")
	}
	return &user, nil
}
