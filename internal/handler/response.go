package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/middleware"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrUpstream, http.StatusBadGateway},
	{service.ErrDisabled, http.StatusServiceUnavailable},
}

// writeError answers with the status of the first matching service error.
// Upstream failures and unknown errors are logged; their details stay out of the response.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			if m.status == http.StatusBadGateway {
				logger.Warn("upstream failure", zap.String("path", c.FullPath()), zap.Error(err))
				c.JSON(m.status, gin.H{"msg": service.ErrUpstream.Error()})
				return
			}
			c.JSON(m.status, gin.H{"msg": err.Error()})
			return
		}
	}
	logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

// parseID reads a positive numeric path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalID treats empty, "undefined" and non-numeric values as no id.
func optionalID(raw string) uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func mustActor(c *gin.Context) model.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

// formList accepts repeated fields, a JSON array, or a comma separated string.
func formList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.PostFormArray(key) {
		raw = strings.TrimSpace(raw)
		if strings.HasPrefix(raw, "[") {
			var arr []string
			if json.Unmarshal([]byte(raw), &arr) == nil {
				out = append(out, arr...)
				continue
			}
		}
		out = append(out, strings.Split(raw, ",")...)
	}
	return out
}

func formBool(c *gin.Context, key string) bool {
	return strings.EqualFold(strings.TrimSpace(c.PostForm(key)), "true")
}

// openFiles opens the uploaded files. The returned closer must be called.
func openFiles(headers []*multipart.FileHeader) ([]media.File, func(), error) {
	files := make([]media.File, 0, len(headers))
	var opened []multipart.File
	closeAll := func() {
		lo.ForEach(opened, func(f multipart.File, _ int) { _ = f.Close() })
	}
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		files = append(files, media.File{Name: h.Filename, Reader: f})
	}
	return files, closeAll, nil
}

func formImages(c *gin.Context, field string) ([]media.File, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, err
	}
	return openFiles(form.File[field])
}
