// 包 logger：HTTP 访问日志中间件（方法、路径、状态、耗时、字节数、远端地址、是否携带会话）
package logger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SlowRequest：超过该耗时的请求以 Warn 级别记录
var SlowRequest = 500 * time.Millisecond

// quietPrefixes：静态资源与指标抓取不记访问日志
var quietPrefixes = []string{"/static/", "/favicon.ico"}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func quiet(path string) bool {
	if strings.HasSuffix(path, "/metrics") {
		return true
	}
	for _, p := range quietPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AccessMiddleware：生成访问日志中间件
// 约束：不读取请求体；只记录会话 cookie 是否存在，不记录其值
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quiet(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)
			_, err := r.Cookie("statemap_sid")
			level := slog.LevelDebug
			if dur >= SlowRequest || sw.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "http_access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", dur.Milliseconds(),
				"ip", r.RemoteAddr,
				"session", err == nil,
			)
		})
	}
}
