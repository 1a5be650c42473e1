package api

import (
	"encoding/json"
	"net/http"

	"statemap/internal/interaction"
	"statemap/internal/logger"
)

type pageData struct {
	Loaded bool
	View   interaction.View
}

// handlePage：服务端先渲染侧栏；数据未就绪时仍返回仅含底图的页面
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if cat, ok := s.Holder.Get(); ok {
		data.Loaded = true
		data.View = s.controllerFor(w, r, cat).View()
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	if err := pageTmpl.Execute(w, data); err != nil {
		logger.L().Warn("render_template_error", "err", err)
	}
}

// NOTE: 向前端暴露 API 基础路径与底图参数，避免硬编码
func (s *Server) handleConfigJS(w http.ResponseWriter, r *http.Request) {
	c := s.Config
	cfg := map[string]any{
		"apiBase": c.APIBase,
		"tileURL": c.TileURL,
		"center":  [2]float64{c.CenterLat, c.CenterLon},
		"zoom":    c.Zoom,
	}
	b, _ := json.Marshal(cfg)
	w.Header().Set("content-type", "application/javascript; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write([]byte("window.__STATEMAP__=" + string(b) + ";\n"))
	_, _ = w.Write([]byte("window.__API_BASE__=" + jsString(c.APIBase) + ";\n"))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
