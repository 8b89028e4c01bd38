package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/logging"
)

const identityToolkitUrl = "https://identitytoolkit.googleapis.com/v1/accounts:"

// Credentials is what a successful sign-in or sign-up hands back to the
// client. The ID token is what every authenticated request must carry.
type Credentials struct {
	UserId       string `json:"userId"`
	Email        string `json:"email"`
	IdToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type identityToolkitResponse struct {
	LocalId      string `json:"localId"`
	Email        string `json:"email"`
	IdToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// The Admin SDK cannot check passwords, so sign-in and sign-up go through
// the same Identity Toolkit REST endpoints the browser SDK uses. The
// backend's error message is returned verbatim; the auth endpoints are the
// one place where backend errors are shown to the user.
func (p *Provider) callIdentityToolkit(ctx context.Context, endpoint string, payload map[string]interface{}) (*Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := identityToolkitUrl + endpoint + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error calling Identity Toolkit",
			Labels:   map[string]string{"error": err.Error(), "endpoint": endpoint},
		})
		return nil, err
	}
	defer resp.Body.Close()

	var decoded identityToolkitResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	if decoded.Error != nil {
		return nil, errors.New(decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity toolkit returned status %d", resp.StatusCode)
	}

	return &Credentials{
		UserId:       decoded.LocalId,
		Email:        decoded.Email,
		IdToken:      decoded.IdToken,
		RefreshToken: decoded.RefreshToken,
		ExpiresIn:    decoded.ExpiresIn,
	}, nil
}

// SignIn verifies the email/password pair and returns fresh credentials.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	return p.callIdentityToolkit(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// CreateAccount registers the user and sets the display name on the new
// identity record. A failed name update is logged but does not fail the
// registration; the account already exists at that point.
func (p *Provider) CreateAccount(ctx context.Context, email, password, name string) (*Credentials, error) {
	creds, err := p.callIdentityToolkit(ctx, "signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	if name != "" {
		if err := p.UpdateProfile(ctx, creds.UserId, name, ""); err != nil {
			p.logger.Log(logging.Entry{
				Severity: logging.Warning,
				Payload:  "Account created but display name was not set",
				Labels:   map[string]string{"error": err.Error(), "uid": creds.UserId},
			})
		}
	}

	return creds, nil
}
