package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeNotFound struct{}

func (fakeNotFound) Error() string   { return "record 9 not found" }
func (fakeNotFound) StatusCode() int { return http.StatusNotFound }

type fakeStorage struct{}

func (fakeStorage) Error() string   { return "insert record: disk I/O error" }
func (fakeStorage) StatusCode() int { return http.StatusInternalServerError }

type fakeConflict struct{}

func (fakeConflict) Error() string     { return "already checked in on 2024-01-01" }
func (fakeConflict) StatusCode() int   { return http.StatusBadRequest }
func (fakeConflict) BusinessCode() int { return CodeConflict }

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestSuccess_FlattensFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, Response{"id": 7, "message": "ok"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	body := decode(t, w)
	if body["success"] != true || body["id"] != float64(7) || body["message"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		err      error
		fallback int
		want     int
		wantCode int
	}{
		{"typed not found", fmt.Errorf("get: %w", fakeNotFound{}), http.StatusInternalServerError, http.StatusNotFound, CodeNotFound},
		{"storage on read", fakeStorage{}, http.StatusInternalServerError, http.StatusInternalServerError, CodeServerErr},
		{"storage on write", fakeStorage{}, http.StatusBadRequest, http.StatusBadRequest, CodeInvalidParam},
		{"plain error", errors.New("boom"), http.StatusBadRequest, http.StatusBadRequest, CodeInvalidParam},
		{"conflict keeps its code", fmt.Errorf("create: %w", fakeConflict{}), http.StatusBadRequest, http.StatusBadRequest, CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			ErrorFrom(c, tt.err, tt.fallback)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			body := decode(t, w)
			if body["success"] != false || body["error"] != tt.err.Error() {
				t.Errorf("body = %v", body)
			}
			if body["code"] != float64(tt.wantCode) {
				t.Errorf("code = %v, want %d", body["code"], tt.wantCode)
			}
		})
	}
}
