package session

import (
	"net/http/httptest"
	"testing"

	"nwitter_api/types"

	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
)

func TestFromToken(t *testing.T) {
	token := &auth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"name":    "alice",
			"picture": "https://example.com/a.png",
		},
	}

	user := FromToken(token)

	if user.Id != "uid-1" {
		t.Errorf("Id = %q, want uid-1", user.Id)
	}
	if user.DisplayName != "alice" {
		t.Errorf("DisplayName = %q, want alice", user.DisplayName)
	}
	if user.AvatarUrl != "https://example.com/a.png" {
		t.Errorf("AvatarUrl = %q", user.AvatarUrl)
	}
}

func TestFromTokenWithoutProfileClaims(t *testing.T) {
	user := FromToken(&auth.Token{UID: "uid-2", Claims: map[string]interface{}{}})

	if user.Id != "uid-2" {
		t.Errorf("Id = %q, want uid-2", user.Id)
	}
	if user.DisplayName != "" || user.AvatarUrl != "" {
		t.Errorf("expected empty profile, got %+v", user)
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := CurrentUser(c); ok {
		t.Error("expected no session on a fresh context")
	}

	c.Set(types.CONTEXT_SESSION_USER, types.SessionUser{Id: "uid-3"})

	user, ok := CurrentUser(c)
	if !ok || user.Id != "uid-3" {
		t.Errorf("CurrentUser = %+v, %v", user, ok)
	}
}

func TestCurrentUserWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(types.CONTEXT_SESSION_USER, "not a user")

	if _, ok := CurrentUser(c); ok {
		t.Error("expected CurrentUser to reject a mistyped context value")
	}
}
