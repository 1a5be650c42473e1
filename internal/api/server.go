// 包 api：集中注册 HTTP 路由（页面、配置脚本、会话交互接口）以解耦主入口
package api

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"statemap/internal/config"
	"statemap/internal/interaction"
	"statemap/internal/logger"
	"statemap/internal/metrics"
	"statemap/internal/regions"
	"statemap/internal/render"
	"statemap/internal/session"
	"statemap/internal/sidebar"
	"statemap/internal/store"
)

// CookieName：会话标识 cookie
const CookieName = "statemap_sid"

//go:embed web
var webFS embed.FS

var pageTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

// Deps：路由依赖
// 约束：Stats 为 nil 表示未启用统计；Reload 为 nil 表示未启用重载
type Deps struct {
	Config   config.Config
	Holder   *regions.Holder
	Sessions *session.Store
	Stats    *store.Store
	Reload   func(ctx context.Context) error
}

// Server：持有依赖与序列化缓存
type Server struct {
	Deps

	mu      sync.Mutex
	lastCat *regions.Catalog
	lastDoc []byte
}

func New(d Deps) *Server {
	if d.Holder == nil {
		d.Holder = &regions.Holder{}
	}
	if d.Sessions == nil {
		d.Sessions = session.NewStore(d.Config.SessionCapacity, d.Config.SessionTTL)
	}
	if d.Config.APIBase == "" {
		d.Config.APIBase = "/api"
	}
	return &Server{Deps: d}
}

// BuildRoutes：构建 API 路由；独立 ServeMux 便于在主入口挂载到 API 前缀
func (s *Server) BuildRoutes() *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /regions", s.timed("regions", s.handleRegions))
	apiMux.HandleFunc("GET /view", s.timed("view", s.handleView))
	apiMux.HandleFunc("POST /search", s.timed("search", s.handleSearch))
	apiMux.HandleFunc("POST /click", s.timed("click", s.handleClick))
	apiMux.HandleFunc("POST /hover", s.timed("hover", s.handleHover))
	apiMux.HandleFunc("POST /sample", s.timed("sample", s.handleResample))
	apiMux.HandleFunc("POST /sample/click", s.timed("sample_click", s.handleSampleClick))
	apiMux.HandleFunc("GET /stats", s.timed("stats", s.handleStats))
	apiMux.HandleFunc("POST /reload", s.timed("reload", s.handleReload))
	return apiMux
}

// Handler：完整站点路由（页面、静态资源、配置脚本、API、指标）
func (s *Server) Handler() http.Handler {
	base := s.Config.APIBase
	mux := http.NewServeMux()
	mux.Handle(base+"/", http.StripPrefix(base, s.BuildRoutes()))
	mux.Handle(base+"/metrics", metrics.Handler())
	static, _ := fs.Sub(webFS, "web")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /config.js", s.handleConfigJS)
	mux.HandleFunc("GET /{$}", s.timed("page", s.handlePage))
	return mux
}

func (s *Server) timed(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// controller：按 cookie 取回会话控制器；未加载行政区数据时返回 503
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*interaction.Controller, bool) {
	cat, ok := s.Holder.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "regions_not_loaded")
		return nil, false
	}
	return s.controllerFor(w, r, cat), true
}

func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request, cat *regions.Catalog) *interaction.Controller {
	var id string
	if ck, err := r.Cookie(CookieName); err == nil && session.ValidID(ck.Value) {
		if c, ok := s.Sessions.Get(ck.Value); ok && c.Catalog() == cat {
			return c
		}
		id = ck.Value
	} else {
		id = session.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	c := interaction.New(cat, render.NewScene(), sidebar.New(nil), interaction.Options{
		NameKey:    s.Config.GeoJSONNameKey,
		SampleSize: s.Config.SampleSize,
	})
	s.Sessions.Put(id, c)
	logger.L().Debug("session_created", "sid", id)
	return c
}

// regionsDocument：标注后的要素集合按目录缓存序列化结果
func (s *Server) regionsDocument(cat *regions.Catalog) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCat == cat && s.lastDoc != nil {
		return s.lastDoc, nil
	}
	b, err := cat.Features.MarshalJSON()
	if err != nil {
		return nil, err
	}
	s.lastCat, s.lastDoc = cat, b
	return b, nil
}
