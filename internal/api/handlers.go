package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"statemap/internal/interaction"
	"statemap/internal/logger"
	"statemap/internal/regions"
)

const maxBody = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return false
	}
	return true
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.Holder.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "regions_not_loaded")
		return
	}
	b, err := s.regionsDocument(cat)
	if err != nil {
		logger.L().Error("regions_encode_error", "err", err)
		writeError(w, http.StatusInternalServerError, "encode_failed")
		return
	}
	w.Header().Set("content-type", "application/geo+json")
	w.Header().Set("last-modified", cat.LoadedAt.UTC().Format(http.TimeFormat))
	_, _ = w.Write(b)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.View())
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Outcome interaction.Outcome `json:"outcome"`
	View    interaction.View    `json:"view"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	out, _ := c.SearchSubmit(req.Query)
	s.recordSearch(r.Context(), req.Query, out)
	writeJSON(w, http.StatusOK, searchResponse{Outcome: out, View: c.View()})
}

// recordSearch：统计失败只记录日志，不影响检索结果
func (s *Server) recordSearch(ctx context.Context, q string, out interaction.Outcome) {
	if s.Stats == nil || out == interaction.OutcomeNoop {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Stats.RecordSearch(ctx, regions.Normalize(q), out == interaction.OutcomeHit); err != nil {
		logger.L().Error("stats_record_error", "err", err)
	}
}

// clickRequest：按 Key、要素序号或经纬度之一定位
type clickRequest struct {
	Key     string   `json:"key,omitempty"`
	Feature *int     `json:"feature,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type clickResponse struct {
	Hit  bool             `json:"hit"`
	View interaction.View `json:"view"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Key == "" && req.Feature == nil && (req.Lat == nil || req.Lon == nil) {
		writeError(w, http.StatusBadRequest, "missing_target")
		return
	}
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var hit bool
	switch {
	case req.Feature != nil:
		hit = c.ClickFeature(*req.Feature)
	case req.Key != "":
		_, hit = c.SampleClick(req.Key)
	default:
		_, hit = c.ClickAt(*req.Lat, *req.Lon)
	}
	writeJSON(w, http.StatusOK, clickResponse{Hit: hit, View: c.View()})
}

type hoverRequest struct {
	Feature int  `json:"feature"`
	Enter   bool `json:"enter"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	if req.Enter {
		c.HoverEnter(req.Feature)
	} else {
		c.HoverExit(req.Feature)
	}
	writeJSON(w, http.StatusOK, c.View())
}

type sampleClickRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSampleClick(w http.ResponseWriter, r *http.Request) {
	var req sampleClickRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	if _, hit := c.SampleClick(req.Key); !hit {
		writeError(w, http.StatusNotFound, "region_not_found")
		return
	}
	writeJSON(w, http.StatusOK, c.View())
}

func (s *Server) handleResample(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	c.Resample()
	writeJSON(w, http.StatusOK, c.View())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	t, err := s.Stats.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("stats_totals_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats_unavailable")
		return
	}
	top, err := s.Stats.TopMisses(r.Context(), limit)
	if err != nil {
		logger.L().Error("stats_top_misses_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": true, "totals": t, "topMisses": top})
}

// handleReload：重新加载数据源并重新生成人口；成功后清空全部会话
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t := r.Header.Get("x-admin-token")
	if s.Reload == nil || s.Config.AdminToken == "" || t != s.Config.AdminToken {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeError(w, http.StatusBadGateway, "reload_failed")
		return
	}
	s.Sessions.Purge()
	logger.L().Info("regions_reloaded")
	w.WriteHeader(http.StatusNoContent)
}
