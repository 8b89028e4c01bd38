package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nwitter_api/types"

	"github.com/gin-gonic/gin"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginWithEmptyFieldsIsNoOp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, body := range []string{
		`{}`,
		`{"email":"a@b.c"}`,
		`{"password":"secret"}`,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(http.MethodPost, "/api/auth/login", body)

		LoginHandler(nil, nil)(c)
		c.Writer.WriteHeaderNow()

		if w.Code != http.StatusNoContent {
			t.Errorf("body %s: status = %d, want 204", body, w.Code)
		}
	}
}

func TestLoginWithMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/auth/login", "{not json")

	LoginHandler(nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateAccountWithEmptyFieldsIsNoOp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/auth/createAccount", `{"email":"a@b.c","password":"secret"}`)

	CreateAccountHandler(nil, nil)(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 when the name is missing", w.Code)
	}
}

func TestUpdateDisplayNameEmptyBufferIsNoOp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/profile/name", `{"name":""}`)
	c.Set(types.CONTEXT_SESSION_USER, types.SessionUser{Id: "uid-1"})

	UpdateDisplayNameHandler(nil, nil)(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
