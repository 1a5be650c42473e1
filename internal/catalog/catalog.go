// 包 catalog：加载 -> 人口标注 -> 建索引 的启动流水线
package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"statemap/internal/geodata"
	"statemap/internal/logger"
	"statemap/internal/metrics"
	"statemap/internal/population"
	"statemap/internal/regions"

	"github.com/paulmach/orb/geojson"
)

type loader interface {
	Load(ctx context.Context, src string) (*geojson.FeatureCollection, error)
}

// Builder：一次完整构建所需参数
type Builder struct {
	Loader  loader
	Source  string
	NameKey string
	Range   population.Range
	Rand    *rand.Rand
}

// Build：任一步失败即返回错误，不产出部分结果；索引告警只记录日志
func (b *Builder) Build(ctx context.Context) (*regions.Catalog, error) {
	if err := b.Range.Validate(); err != nil {
		return nil, err
	}
	fc, err := b.Loader.Load(ctx, b.Source)
	if err != nil {
		return nil, err
	}
	if err := population.Annotate(fc.Features, b.Rand, b.Range); err != nil {
		return nil, err
	}
	idx, warns := regions.Build(fc.Features, b.NameKey)
	l := logger.L()
	for _, w := range warns {
		metrics.IndexWarningsTotal.WithLabelValues(w.Kind()).Inc()
		l.Warn("region_index_warning", "kind", w.Kind(), "detail", w.Error())
	}
	metrics.RegionsLoaded.Set(float64(idx.Len()))
	l.Info("region_index_ready", "features", len(fc.Features), "regions", idx.Len(), "warnings", len(warns))
	return &regions.Catalog{Features: fc, Index: idx, LoadedAt: time.Now()}, nil
}

// LoadInto：构建成功后发布到 holder；失败时记录日志并保持 holder 原状（仅底图）
func (b *Builder) LoadInto(ctx context.Context, h *regions.Holder) error {
	cat, err := b.Build(ctx)
	if err != nil {
		var le *geodata.LoadError
		if errors.As(err, &le) {
			logger.L().Error("geodata_load_error", "source", le.Source, "stage", le.Stage, "err", le.Err)
		} else {
			logger.L().Error("catalog_build_error", "err", err)
		}
		return err
	}
	h.Set(cat)
	return nil
}
