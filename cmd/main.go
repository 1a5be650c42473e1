// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statemap/internal/api"
	"statemap/internal/catalog"
	"statemap/internal/config"
	"statemap/internal/geodata"
	"statemap/internal/logger"
	"statemap/internal/middleware"
	"statemap/internal/migrate"
	"statemap/internal/population"
	"statemap/internal/regions"
	"statemap/internal/session"
	"statemap/internal/store"
	"statemap/internal/utils"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	l.Debug("config_api_base", "base", cfg.APIBase)
	l.Debug("config_geojson_source", "source", cfg.GeoJSONSource, "name_key", cfg.GeoJSONNameKey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rc *redis.Client
	if cfg.RedisEnable {
		rc = utils.OpenRedisFromEnv(ctx)
	}
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		defer rc.Close()
	}

	// 检索统计为可选项；数据库不可用时仅关闭统计，不影响地图服务
	var st *store.Store
	if cfg.PGEnable {
		if db, err := utils.OpenPostgresFromEnv(ctx); err != nil {
			l.Error("db_open_error", "err", err)
		} else if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			_ = db.Close()
		} else {
			l.Info("db_open_ok")
			st = store.AttachDB(db)
			defer st.Close()
		}
	}

	var holder regions.Holder
	builder := &catalog.Builder{
		Loader:  geodata.NewLoader(rc, cfg.GeoJSONCacheTTL),
		Source:  cfg.GeoJSONSource,
		NameKey: cfg.GeoJSONNameKey,
		Range:   population.Range{Min: cfg.PopulationMin, Max: cfg.PopulationMax},
	}
	// 背景：数据源可能是远程地址，后台加载；加载完成前页面仅显示底图
	go func() {
		lctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err := builder.LoadInto(lctx, &holder); err == nil {
			l.Info("regions_ready")
		}
	}()

	srv := api.New(api.Deps{
		Config:   cfg,
		Holder:   &holder,
		Sessions: session.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
		Stats:    st,
		Reload: func(rctx context.Context) error {
			return builder.LoadInto(rctx, &holder)
		},
	})

	handler := logger.AccessMiddleware(l)(srv.Handler())
	handler = middleware.Wrap(handler, cfg.RateLimitEnabled, cfg.RateLimitQPS)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_ok")
}
