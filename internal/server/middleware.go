package server

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
	"studiohub/internal/logger"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "corr_id"
	requestLoggerKey    = "logger"
)

// RequestLogger tags every request with a correlation id, taken from the
// X-Correlation-ID header or generated, and writes one access log line
// once the handler chain is done.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		corrID := ctx.GetHeader(CorrelationIDHeader)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		ctx.Writer.Header().Set(CorrelationIDHeader, corrID)

		reqLog := logger.WithCorrID(log, corrID)
		ctx.Set(correlationIDKey, corrID)
		ctx.Set(requestLoggerKey, reqLog)

		ctx.Next()

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Int("size", ctx.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", ctx.Request.UserAgent()),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		switch status := ctx.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			reqLog.Error("Request handled", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("Request handled", fields...)
		default:
			reqLog.Info("Request handled", fields...)
		}
	}
}

// requestLog returns the request-scoped logger set by RequestLogger, or
// fallback when the middleware is not installed.
func requestLog(ctx *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := ctx.Get(requestLoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}

// CORS allows the configured origins. A "*" entry allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", CorrelationIDHeader)
	config.ExposeHeaders = []string{CorrelationIDHeader}
	config.AllowCredentials = true

	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			config.AllowCredentials = false
			break
		}
	}
	if !config.AllowAllOrigins {
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		config.AllowOrigins = origins
	}
	return cors.New(config)
}

type gzipBody struct {
	io.Reader
	gz   *gzip.Reader
	body io.Closer
}

func (b *gzipBody) Close() error {
	gzErr := b.gz.Close()
	if err := b.body.Close(); err != nil {
		return err
	}
	return gzErr
}

// GzipRequestDecompress transparently inflates request bodies sent with
// Content-Encoding: gzip.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}
		gz, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidGzipRequest.Error()})
			return
		}
		ctx.Request.Body = &gzipBody{Reader: gz, gz: gz, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

// minCompressSize is the smallest body worth compressing.
const minCompressSize = 1024

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

var compressibleTypes = []string{
	"application/json",
	"application/problem+json",
	"application/xml",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"text/xml",
	"text/javascript",
}

func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// gzipWriter buffers the first minCompressSize bytes of a response and
// only switches to gzip once the body is known to be large enough.
type gzipWriter struct {
	gin.ResponseWriter
	gz     *gzip.Writer
	buf    bytes.Buffer
	status int
}

func (w *gzipWriter) WriteHeader(code int) {
	w.status = code
}

func (w *gzipWriter) WriteHeaderNow() {}

func (w *gzipWriter) Status() int {
	if w.status != 0 {
		return w.status
	}
	return w.ResponseWriter.Status()
}

func (w *gzipWriter) Written() bool {
	return w.buf.Len() > 0 || w.gz != nil || w.ResponseWriter.Written()
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if w.gz != nil {
		n, err := w.gz.Write(data)
		if err != nil {
			return n, errors.ErrGzipCompressionFailed
		}
		return n, nil
	}
	w.buf.Write(data)
	if w.buf.Len() >= minCompressSize && w.mayCompress() {
		if err := w.startGzip(); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

func (w *gzipWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

func (w *gzipWriter) mayCompress() bool {
	switch w.Status() {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return false
	}
	h := w.Header()
	return h.Get("Content-Encoding") == "" && compressible(h.Get("Content-Type"))
}

func (w *gzipWriter) startGzip() error {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	w.writeStatus()

	gz := gzipWriters.Get().(*gzip.Writer)
	gz.Reset(w.ResponseWriter)
	w.gz = gz
	if _, err := gz.Write(w.buf.Bytes()); err != nil {
		return errors.ErrGzipCompressionFailed
	}
	w.buf.Reset()
	return nil
}

func (w *gzipWriter) writeStatus() {
	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
}

// finish flushes whatever is still buffered, compressed or not.
func (w *gzipWriter) finish() error {
	if w.gz != nil {
		err := w.gz.Close()
		gzipWriters.Put(w.gz)
		w.gz = nil
		if err != nil {
			return errors.ErrGzipCompressionFailed
		}
		return nil
	}
	w.writeStatus()
	if w.buf.Len() == 0 {
		w.ResponseWriter.WriteHeaderNow()
		return nil
	}
	_, err := w.ResponseWriter.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *gzipWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	} else {
		w.writeStatus()
		if w.buf.Len() > 0 {
			_, _ = w.ResponseWriter.Write(w.buf.Bytes())
			w.buf.Reset()
		}
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

func addVary(h http.Header, value string) {
	vary := h.Get("Vary")
	switch {
	case vary == "":
		h.Set("Vary", value)
	case !strings.Contains(vary, value):
		h.Set("Vary", vary+", "+value)
	}
}

// GzipResponseCompress compresses compressible responses of at least
// minCompressSize bytes for clients that accept gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead ||
			!strings.Contains(strings.ToLower(ctx.GetHeader("Accept-Encoding")), "gzip") {
			ctx.Next()
			return
		}
		addVary(ctx.Writer.Header(), "Accept-Encoding")

		gw := &gzipWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = gw
		defer func() { ctx.Writer = gw.ResponseWriter }()

		ctx.Next()

		if err := gw.finish(); err != nil {
			_ = ctx.Error(err)
		}
	}
}
