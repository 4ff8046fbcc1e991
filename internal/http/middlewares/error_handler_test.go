package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error APIError `json:"error"`
}

func serve(r http.Handler, path string) (*httptest.ResponseRecorder, errorResponse) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func newErrorRouter(exposeStack bool) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(ErrorHandler(discardLogger(), exposeStack))
	r.Use(Recovery())

	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(apperr.BadRequest("user_exists", "User already exists"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("something broke"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestErrorHandlerUsesAppErrorStatus(t *testing.T) {
	w, resp := serve(newErrorRouter(true), "/bad")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
	if resp.Error.Code != "user_exists" || resp.Error.Message != "User already exists" {
		t.Fatalf("unexpected error body: %+v", resp.Error)
	}
	if resp.Error.RequestID == "" || resp.Error.RequestID != w.Header().Get("X-Request-Id") {
		t.Fatalf("request id mismatch: body=%q header=%q", resp.Error.RequestID, w.Header().Get("X-Request-Id"))
	}
	if len(resp.Error.Stack) == 0 {
		t.Fatal("stack should be exposed outside production")
	}
}

func TestErrorHandlerDefaultsTo500AndHidesStack(t *testing.T) {
	w, resp := serve(newErrorRouter(false), "/plain")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", w.Code)
	}
	if resp.Error.Code != "internal_error" {
		t.Fatalf("code: got %q", resp.Error.Code)
	}
	if len(resp.Error.Stack) != 0 {
		t.Fatal("stack must be hidden in production")
	}
}

func TestRecoveryRendersPanicAs500(t *testing.T) {
	w, resp := serve(newErrorRouter(false), "/panic")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", w.Code)
	}
	if resp.Error.Code != "internal_error" {
		t.Fatalf("code: got %q", resp.Error.Code)
	}
}

func TestErrorHandlerLeavesSuccessAlone(t *testing.T) {
	w, _ := serve(newErrorRouter(true), "/ok")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
}
