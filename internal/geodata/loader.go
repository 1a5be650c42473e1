// 包 geodata：加载行政区多边形集合（GeoJSON FeatureCollection），来源可为本地文件或 http(s) 地址
package geodata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"statemap/internal/logger"
	"statemap/internal/metrics"

	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
)

// 单个文档上限，避免异常来源撑爆内存
const maxPayload = 64 << 20

// Loader：文档加载器
// 约束：Redis 仅缓存远程来源的原始字节；缓存读写失败只记录日志，不影响加载结果
type Loader struct {
	Client   *http.Client
	Redis    *redis.Client
	CacheTTL time.Duration
}

// NewLoader：rc 可为 nil（禁用缓存）
func NewLoader(rc *redis.Client, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Loader{Client: &http.Client{Timeout: 15 * time.Second}, Redis: rc, CacheTTL: ttl}
}

// Load：获取并解析文档，要素顺序与文档一致
// 返回：失败时为 *LoadError
func (l *Loader) Load(ctx context.Context, src string) (*geojson.FeatureCollection, error) {
	t0 := time.Now()
	b, err := l.fetch(ctx, src)
	if err != nil {
		metrics.GeoLoadsTotal.WithLabelValues("fetch_error").Inc()
		return nil, &LoadError{Source: src, Stage: "fetch", Err: err}
	}
	fc, err := Parse(b)
	if err != nil {
		metrics.GeoLoadsTotal.WithLabelValues("parse_error").Inc()
		return nil, &LoadError{Source: src, Stage: "parse", Err: err}
	}
	metrics.GeoLoadsTotal.WithLabelValues("ok").Inc()
	metrics.GeoLoadDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	logger.L().Debug("geodata_parsed", "source", src, "features", len(fc.Features), "bytes", len(b))
	return fc, nil
}

// Parse：解析 FeatureCollection；顶层类型不符视为格式错误
func Parse(b []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, fmt.Errorf("unexpected document type %q", fc.Type)
	}
	for i, f := range fc.Features {
		if f == nil {
			return nil, fmt.Errorf("feature %d is null", i)
		}
	}
	return fc, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("empty source")
	}
	if !isRemote(src) {
		return os.ReadFile(src)
	}
	key := cacheKey(src)
	if l.Redis != nil {
		if b, err := l.Redis.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			logger.L().Debug("geodata_cache_hit", "source", src)
			metrics.GeoCacheTotal.WithLabelValues("hit").Inc()
			return b, nil
		} else if err != nil && !errors.Is(err, redis.Nil) {
			logger.L().Warn("geodata_cache_get_error", "err", err)
		}
		metrics.GeoCacheTotal.WithLabelValues("miss").Inc()
	}
	b, err := l.get(ctx, src)
	if err != nil {
		return nil, err
	}
	if l.Redis != nil {
		if err := l.Redis.Set(ctx, key, b, l.CacheTTL).Err(); err != nil {
			logger.L().Warn("geodata_cache_set_error", "err", err)
		}
	}
	return b, nil
}

func (l *Loader) get(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxPayload {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxPayload)
	}
	return b, nil
}

func isRemote(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func cacheKey(src string) string {
	h := sha1.Sum([]byte(src))
	return "geodata:src:" + hex.EncodeToString(h[:])
}
