package handlers

import (
	"net/http"

	"nwitter_api/session"

	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountHandler registers a new user and signs them in. Missing
// fields make the request a silent no-op; backend rejections come back as
// a 400 carrying the backend's message.
func CreateAccountHandler(logger *logging.Logger, provider *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body createAccountRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.Name == "" || body.Email == "" || body.Password == "" {
			c.Status(http.StatusNoContent)
			return
		}

		creds, err := provider.CreateAccount(c.Request.Context(), body.Email, body.Password, body.Name)
		if err != nil {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Account creation failed: " + err.Error(),
			})
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, creds)
	}
}

// LoginHandler signs an existing user in with email and password.
func LoginHandler(logger *logging.Logger, provider *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.Email == "" || body.Password == "" {
			c.Status(http.StatusNoContent)
			return
		}

		creds, err := provider.SignIn(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Sign-in failed: " + err.Error(),
			})
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, creds)
	}
}
