// 包 regions：行政区索引（归一化名称 -> 行政区），检索的唯一依据
package regions

import (
	"strings"

	"statemap/internal/population"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Region：一个行政区
// 约束：Key 由 Name 经 Normalize 得到；Feature 为要素在文档中的序号，会话侧据此查找渲染句柄
type Region struct {
	Name       string
	Key        string
	Population int
	Feature    int
	Geometry   orb.Geometry
	Bound      orb.Bound
}

// Index：构建后只读，可被所有会话并发读取
type Index struct {
	byKey   map[string]*Region
	ordered []*Region
}

// Normalize：去首尾空白并转小写
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Build：按文档顺序登记每个具名要素
// 约束：名称缺失的要素跳过并返回 MissingAttributeWarning；键冲突时后者覆盖前者并返回 KeyCollisionWarning
func Build(features []*geojson.Feature, nameKey string) (*Index, []Warning) {
	idx := &Index{byKey: make(map[string]*Region, len(features))}
	var warns []Warning
	for i, f := range features {
		name, _ := f.Properties[nameKey].(string)
		key := Normalize(name)
		if key == "" {
			warns = append(warns, MissingAttributeWarning{Feature: i, Attribute: nameKey})
			continue
		}
		r := &Region{Name: name, Key: key, Feature: i, Geometry: f.Geometry}
		r.Population, _ = population.Of(f)
		if f.Geometry != nil {
			r.Bound = f.Geometry.Bound()
		}
		if prev, ok := idx.byKey[key]; ok {
			warns = append(warns, KeyCollisionWarning{Key: key, Previous: prev.Feature, Feature: i})
		}
		idx.byKey[key] = r
	}
	for i, f := range features {
		name, _ := f.Properties[nameKey].(string)
		if r, ok := idx.byKey[Normalize(name)]; ok && r.Feature == i {
			idx.ordered = append(idx.ordered, r)
		}
	}
	return idx, warns
}

// Lookup：大小写不敏感的精确匹配；入参先归一化
func (x *Index) Lookup(q string) (*Region, bool) {
	if x == nil {
		return nil, false
	}
	r, ok := x.byKey[Normalize(q)]
	return r, ok
}

// Regions：按文档顺序返回已登记行政区（返回副本切片）
func (x *Index) Regions() []*Region {
	if x == nil {
		return nil
	}
	return append([]*Region(nil), x.ordered...)
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.ordered)
}

// Locate：坐标所在行政区（包围盒预过滤，再做精确点入多边形判定）
// 约束：仅支持 Polygon / MultiPolygon；重叠时按文档顺序取第一个
func (x *Index) Locate(lat, lon float64) (*Region, bool) {
	if x == nil {
		return nil, false
	}
	pt := orb.Point{lon, lat}
	for _, r := range x.ordered {
		if r.Geometry == nil || !r.Bound.Contains(pt) {
			continue
		}
		switch g := r.Geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return r, true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return r, true
			}
		}
	}
	return nil, false
}
