// 包 interaction：单会话交互状态机（悬停、点击、检索），驱动地图渲染与侧栏
package interaction

import (
	"fmt"
	"html"
	"sync"

	"statemap/internal/logger"
	"statemap/internal/metrics"
	"statemap/internal/population"
	"statemap/internal/regions"
	"statemap/internal/render"
	"statemap/internal/sidebar"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// State：Idle 或 Highlighted；无终止状态
type State int

const (
	Idle State = iota
	Highlighted
)

func (s State) String() string {
	if s == Highlighted {
		return "highlighted"
	}
	return "idle"
}

// Outcome：一次检索提交的结果
type Outcome string

const (
	OutcomeNoop Outcome = "noop"
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
)

// Options：控制器参数
type Options struct {
	NameKey    string
	SampleSize int
	Padding    render.FitOptions
}

func (o Options) withDefaults() Options {
	if o.NameKey == "" {
		o.NameKey = "NAME_1"
	}
	if o.SampleSize <= 0 {
		o.SampleSize = 5
	}
	if o.Padding == (render.FitOptions{}) {
		o.Padding = render.DefaultPadding
	}
	return o
}

// Controller：持有当前高亮状态；所有事件在互斥锁内同步执行完毕，事件之间不会交错
type Controller struct {
	mu        sync.Mutex
	opts      Options
	cat       *regions.Catalog
	idx       *regions.Index
	r         render.Renderer
	side      *sidebar.Presenter
	handles   []render.Handle
	byFeature map[int]*regions.Region
	current   *regions.Region
}

// New：渲染全部要素、绑定弹窗、视野适配全部范围，并展示总数与随机抽样
func New(cat *regions.Catalog, r render.Renderer, side *sidebar.Presenter, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{opts: opts, cat: cat, idx: cat.Index, r: r, side: side, byFeature: make(map[int]*regions.Region)}
	for _, rg := range cat.Index.Regions() {
		c.byFeature[rg.Feature] = rg
	}
	var features []*geojson.Feature
	if cat.Features != nil {
		features = cat.Features.Features
	}
	c.handles = make([]render.Handle, len(features))
	r.Render(features, render.DefaultStyle, func(i int, f *geojson.Feature, h render.Handle) {
		c.handles[i] = h
		name, _ := f.Properties[opts.NameKey].(string)
		if regions.Normalize(name) == "" {
			return
		}
		pop, _ := population.Of(f)
		h.BindPopup(fmt.Sprintf("<b>%s</b><br>Population: %s", html.EscapeString(name), side.Group(pop)))
	})
	if b, ok := unionBounds(c.handles); ok {
		r.FitBounds(b, render.FitOptions{})
	}
	side.ShowTotalCount(len(features))
	side.ShowRandomSample(cat.Index.Regions(), opts.SampleSize)
	return c
}

// Catalog：控制器构建时所基于的目录；句柄表按其要素顺序建立
func (c *Controller) Catalog() *regions.Catalog { return c.cat }

func unionBounds(hs []render.Handle) (orb.Bound, bool) {
	var out orb.Bound
	ok := false
	for _, h := range hs {
		b := h.Bounds()
		if b.IsZero() {
			continue
		}
		if !ok {
			out, ok = b, true
		} else {
			out = out.Union(b)
		}
	}
	return out, ok
}

func (c *Controller) handle(rg *regions.Region) render.Handle {
	if rg == nil || rg.Feature < 0 || rg.Feature >= len(c.handles) {
		return nil
	}
	return c.handles[rg.Feature]
}

// State：当前状态与高亮行政区（Idle 时为 nil）
func (c *Controller) State() (State, *regions.Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Idle, nil
	}
	return Highlighted, c.current
}

// HoverEnter：临时悬停样式，不改变高亮状态
func (c *Controller) HoverEnter(feature int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if feature < 0 || feature >= len(c.handles) {
		return
	}
	metrics.InteractionsTotal.WithLabelValues("hover").Inc()
	c.handles[feature].SetStyle(render.HoverStyle)
}

// HoverExit：恢复悬停前的样式（高亮行政区恢复为高亮样式）
func (c *Controller) HoverExit(feature int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if feature < 0 || feature >= len(c.handles) {
		return
	}
	h := c.handles[feature]
	c.r.ResetStyle(h)
	if c.current != nil && c.current.Feature == feature {
		h.SetStyle(render.HighlightStyle)
	}
}

// Click：无条件切换到 Highlighted(rg)
func (c *Controller) Click(rg *regions.Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.InteractionsTotal.WithLabelValues("click").Inc()
	c.click(rg)
}

// ClickFeature：按要素序号点击；未进入索引的要素（无名称或被同名覆盖）忽略
func (c *Controller) ClickFeature(feature int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	rg, ok := c.byFeature[feature]
	if !ok {
		return false
	}
	metrics.InteractionsTotal.WithLabelValues("click").Inc()
	c.click(rg)
	return true
}

// ClickAt：按坐标定位行政区后点击；未命中任何行政区时不做处理
func (c *Controller) ClickAt(lat, lon float64) (*regions.Region, bool) {
	rg, ok := c.idx.Locate(lat, lon)
	if !ok {
		return nil, false
	}
	c.Click(rg)
	return rg, true
}

// SampleClick：抽样列表项点击，等同于在地图上点击该行政区
func (c *Controller) SampleClick(key string) (*regions.Region, bool) {
	rg, ok := c.idx.Lookup(key)
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.InteractionsTotal.WithLabelValues("sample_click").Inc()
	c.click(rg)
	return rg, true
}

func (c *Controller) click(rg *regions.Region) {
	h := c.handle(rg)
	if h == nil {
		return
	}
	c.r.ResetStyle()
	if prev := c.handle(c.current); prev != nil {
		prev.ClosePopup()
	}
	c.current = rg
	h.SetStyle(render.HighlightStyle)
	h.OpenPopup()
	c.r.FitBounds(h.Bounds(), c.opts.Padding)
	c.side.ShowInfoPanel(rg)
	logger.L().Debug("region_click", "key", rg.Key, "feature", rg.Feature)
}

// SearchSubmit：
// 1. 归一化为空时不做任何处理；
// 2. 若已有高亮，先恢复其默认样式并关闭弹窗；
// 3. 在索引中精确查找；
// 4. 命中：高亮、打开弹窗、视野适配、面板展示名称与人口；
// 5. 未命中：回到 Idle，面板显示未找到，视野不变。
func (c *Controller) SearchSubmit(raw string) (Outcome, *regions.Region) {
	q := regions.Normalize(raw)
	if q == "" {
		metrics.SearchTotal.WithLabelValues(string(OutcomeNoop)).Inc()
		return OutcomeNoop, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev := c.handle(c.current); prev != nil {
		c.r.ResetStyle(prev)
		prev.ClosePopup()
	}
	c.current = nil
	rg, ok := c.idx.Lookup(q)
	if !ok {
		c.side.ShowNotFound()
		metrics.SearchTotal.WithLabelValues(string(OutcomeMiss)).Inc()
		logger.L().Debug("search_miss", "query", q)
		return OutcomeMiss, nil
	}
	h := c.handle(rg)
	c.current = rg
	h.SetStyle(render.HighlightStyle)
	h.OpenPopup()
	c.r.FitBounds(h.Bounds(), c.opts.Padding)
	c.side.ShowInfoPanel(rg)
	metrics.SearchTotal.WithLabelValues(string(OutcomeHit)).Inc()
	logger.L().Debug("search_hit", "query", q, "key", rg.Key)
	return OutcomeHit, rg
}

// Resample：重新抽取侧栏随机列表
func (c *Controller) Resample() []sidebar.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.side.ShowRandomSample(c.idx.Regions(), c.opts.SampleSize)
}

// View：会话对外视图
type View struct {
	State       string           `json:"state"`
	Highlighted string           `json:"highlighted,omitempty"`
	Scene       *render.Snapshot `json:"scene,omitempty"`
	Sidebar     sidebar.Snapshot `json:"sidebar"`
}

type snapshotter interface{ Snapshot() render.Snapshot }

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{State: Idle.String(), Sidebar: c.side.Snapshot()}
	if c.current != nil {
		v.State = Highlighted.String()
		v.Highlighted = c.current.Key
	}
	if s, ok := c.r.(snapshotter); ok {
		snap := s.Snapshot()
		v.Scene = &snap
	}
	return v
}
