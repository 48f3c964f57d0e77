package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"studiohub/internal/logger"
)

func gzipped(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipRequestDecompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"body": string(body), "encoding": c.GetHeader("Content-Encoding")})
	})

	tests := []struct {
		name     string
		body     func(t *testing.T) io.Reader
		encoding string
		want     struct {
			statusCode int
			body       string
		}
	}{
		{
			name:     "plain body",
			body:     func(*testing.T) io.Reader { return strings.NewReader("Hello, studio") },
			encoding: "",
			want: struct {
				statusCode int
				body       string
			}{http.StatusOK, `"body":"Hello, studio"`},
		},
		{
			name:     "gzip body",
			body:     func(t *testing.T) io.Reader { return gzipped(t, "Hello, studio") },
			encoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{http.StatusOK, `"body":"Hello, studio","encoding":""`},
		},
		{
			name:     "broken gzip body",
			body:     func(*testing.T) io.Reader { return strings.NewReader("not gzip at all") },
			encoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{http.StatusBadRequest, "invalid gzip request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", tt.body(t))
			if tt.encoding != "" {
				req.Header.Set("Content-Encoding", tt.encoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want.body)
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	large := strings.Repeat("craftsman ", 200)

	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/large", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": large})
	})
	router.GET("/binary", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte(large))
	})
	router.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		want           struct {
			statusCode int
			gzip       bool
		}
	}{
		{"small json is sent as is", "/small", "gzip", struct {
			statusCode int
			gzip       bool
		}{http.StatusOK, false}},
		{"large json is compressed", "/large", "gzip, deflate", struct {
			statusCode int
			gzip       bool
		}{http.StatusCreated, true}},
		{"client without gzip", "/large", "", struct {
			statusCode int
			gzip       bool
		}{http.StatusCreated, false}},
		{"binary content", "/binary", "gzip", struct {
			statusCode int
			gzip       bool
		}{http.StatusOK, false}},
		{"no content", "/empty", "gzip", struct {
			statusCode int
			gzip       bool
		}{http.StatusNoContent, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			if !tt.want.gzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				return
			}
			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			assert.Contains(t, w.Header().Get("Vary"), "Accept-Encoding")

			gz, err := gzip.NewReader(w.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(gz)
			require.NoError(t, err)
			assert.Contains(t, string(body), large)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		status int
		level  zapcore.Level
	}{
		{"generated id", "", http.StatusOK, zap.InfoLevel},
		{"propagated id", "corr-123", http.StatusNotFound, zap.WarnLevel},
		{"server error", "corr-500", http.StatusInternalServerError, zap.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			router := gin.New()
			router.Use(RequestLogger(zap.New(core)))
			router.GET("/ping", func(c *gin.Context) {
				requestLog(c, zap.NewNop()).Debug("inside handler")
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set(CorrelationIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			corrID := w.Header().Get(CorrelationIDHeader)
			require.NotEmpty(t, corrID)
			if tt.header != "" {
				assert.Equal(t, tt.header, corrID)
			}

			entries := logs.All()
			require.Len(t, entries, 2)
			assert.Equal(t, "inside handler", entries[0].Message)
			assert.Equal(t, corrID, entries[0].ContextMap()[logger.CorrelationIDField])

			access := entries[1]
			assert.Equal(t, tt.level, access.Level)
			fields := access.ContextMap()
			assert.Equal(t, corrID, fields[logger.CorrelationIDField])
			assert.Equal(t, "GET", fields["method"])
			assert.Equal(t, "/ping", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"allowed origin", []string{"https://studio.example"}, "https://studio.example", "https://studio.example"},
		{"foreign origin", []string{"https://studio.example"}, "https://evil.example", ""},
		{"wildcard", []string{"*"}, "https://anyone.example", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins))
			router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
