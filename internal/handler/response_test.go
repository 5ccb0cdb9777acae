package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestWriteErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: text required", service.ErrValidation), http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: livery", service.ErrNotFound), http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: cdn timeout", service.ErrUpstream), http.StatusBadGateway},
		{service.ErrDisabled, http.StatusServiceUnavailable},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, zaptest.NewLogger(t), tt.err)
			assert.Equal(t, tt.want, w.Code)
			switch tt.want {
			case http.StatusInternalServerError:
				assert.JSONEq(t, `{"msg":"internal server error"}`, w.Body.String())
			case http.StatusBadGateway:
				assert.JSONEq(t, `{"msg":"upstream service failed"}`, w.Body.String())
				assert.NotContains(t, w.Body.String(), "cdn timeout")
			}
		})
	}
}

func TestOptionalID(t *testing.T) {
	assert.Equal(t, uint64(0), optionalID(""))
	assert.Equal(t, uint64(0), optionalID("undefined"))
	assert.Equal(t, uint64(0), optionalID("-4"))
	assert.Equal(t, uint64(12), optionalID(" 12 "))
}

func TestFormList(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want []string
	}{
		{"json array", url.Values{"tags": {`["a","b"]`}}, []string{"a", "b"}},
		{"comma separated", url.Values{"tags": {"a, b"}}, []string{"a", " b"}},
		{"repeated", url.Values{"tags": {"a", "b"}}, []string{"a", "b"}},
		{"broken json falls back to commas", url.Values{"tags": {`["a",`}}, []string{`["a"`, ""}},
		{"absent", url.Values{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.form.Encode()))
			c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			assert.Equal(t, tt.want, formList(c, "tags"))
		})
	}
}

func TestFormBool(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("exclusive=TRUE&draft=yes"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.True(t, formBool(c, "exclusive"))
	assert.False(t, formBool(c, "draft"))
	assert.False(t, formBool(c, "missing"))
}
