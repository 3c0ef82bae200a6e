package transport

import (
	"net/http"

	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/middleware"

	"github.com/google/uuid"
)

// currentUserID reads the authenticated user's ID placed in the request
// context by the auth middleware.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func toUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:         user.ID.String(),
		Email:      user.Email,
		Username:   user.Username,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}
}
