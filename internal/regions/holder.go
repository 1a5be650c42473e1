package regions

import (
	"sync/atomic"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Catalog：一次成功加载的结果（要素集合 + 索引），发布后只读
type Catalog struct {
	Features *geojson.FeatureCollection
	Index    *Index
	LoadedAt time.Time
}

// Holder：加载完成前为空（仅底图状态）；通过原子指针发布，读路径不加锁
type Holder struct{ p atomic.Pointer[Catalog] }

func (h *Holder) Get() (*Catalog, bool) {
	c := h.p.Load()
	return c, c != nil
}

// Set：发布新目录；c 为 nil 等价于回到未加载状态
func (h *Holder) Set(c *Catalog) { h.p.Store(c) }
