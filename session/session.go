package session

import (
	"context"
	"net/http"
	"time"

	"nwitter_api/types"

	"cloud.google.com/go/logging"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
)

// Provider is the session provider: it owns sign-in/sign-up against the
// Identity Toolkit REST API and profile updates through the Admin SDK.
// Per-request identity snapshots come from the auth middleware, which
// verifies the ID token and stores a types.SessionUser in the context.
type Provider struct {
	auth       *auth.Client
	logger     *logging.Logger
	apiKey     string
	httpClient *http.Client
}

func NewProvider(authClient *auth.Client, logger *logging.Logger, apiKey string) *Provider {
	return &Provider{
		auth:       authClient,
		logger:     logger,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FromToken maps a verified ID token to the session identity snapshot.
// "name" and "picture" are the standard Firebase profile claims; both are
// optional.
func FromToken(token *auth.Token) types.SessionUser {
	user := types.SessionUser{Id: token.UID}

	if name, ok := token.Claims["name"].(string); ok {
		user.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		user.AvatarUrl = picture
	}

	return user
}

// CurrentUser is the synchronous per-request session read. The second
// return is false when the request never went through the auth middleware.
func CurrentUser(c *gin.Context) (types.SessionUser, bool) {
	value, exists := c.Get(types.CONTEXT_SESSION_USER)
	if !exists {
		return types.SessionUser{}, false
	}

	user, ok := value.(types.SessionUser)
	if !ok {
		return types.SessionUser{}, false
	}

	return user, true
}

// UpdateProfile persists display name and/or avatar URL on the identity
// record. Empty arguments leave the corresponding field untouched.
// Tweets keep the username snapshot taken at their creation; renames are
// deliberately not propagated.
func (p *Provider) UpdateProfile(ctx context.Context, uid, displayName, avatarUrl string) error {
	update := &auth.UserToUpdate{}
	if displayName != "" {
		update = update.DisplayName(displayName)
	}
	if avatarUrl != "" {
		update = update.PhotoURL(avatarUrl)
	}

	_, err := p.auth.UpdateUser(ctx, uid, update)
	if err != nil {
		p.logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error updating user profile",
			Labels:   map[string]string{"error": err.Error(), "uid": uid},
		})
	}

	return err
}
