package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Scene：Renderer 的内存实现，一个会话一份
// 约束：非并发安全，由持有者（交互控制器）串行调用；同一时刻至多一个弹窗处于打开状态
type Scene struct {
	base    Style
	shapes  []*Shape
	open    *Shape
	view    *View
	version uint64
}

func NewScene() *Scene { return &Scene{base: DefaultStyle} }

// Shape：Scene 内的形状句柄
type Shape struct {
	scene *Scene
	id    int
	style Style
	bound orb.Bound
	popup string
}

// View：最近一次 FitBounds 的结果
type View struct {
	South   float64 `json:"south"`
	West    float64 `json:"west"`
	North   float64 `json:"north"`
	East    float64 `json:"east"`
	Padding [2]int  `json:"padding"`
}

func (s *Scene) Render(features []*geojson.Feature, style Style, each func(i int, f *geojson.Feature, h Handle)) {
	s.base = style
	s.shapes = make([]*Shape, len(features))
	s.open = nil
	for i, f := range features {
		sh := &Shape{scene: s, id: i, style: style}
		if f.Geometry != nil {
			sh.bound = f.Geometry.Bound()
		}
		s.shapes[i] = sh
		if each != nil {
			each(i, f, sh)
		}
	}
	s.version++
}

func (s *Scene) ResetStyle(hs ...Handle) {
	if len(hs) == 0 {
		for _, sh := range s.shapes {
			sh.style = s.base
		}
	} else {
		for _, h := range hs {
			if sh, ok := h.(*Shape); ok && sh.scene == s {
				sh.style = s.base
			}
		}
	}
	s.version++
}

func (s *Scene) FitBounds(b orb.Bound, opts FitOptions) {
	s.view = &View{South: b.Min.Lat(), West: b.Min.Lon(), North: b.Max.Lat(), East: b.Max.Lon(), Padding: opts.Padding}
	s.version++
}

// Shape 返回第 i 个要素的句柄；越界返回 nil
func (s *Scene) Shape(i int) *Shape {
	if i < 0 || i >= len(s.shapes) {
		return nil
	}
	return s.shapes[i]
}

// Bounds：全部形状包围盒的并集；无形状时 ok 为 false
func (s *Scene) Bounds() (orb.Bound, bool) {
	var b orb.Bound
	ok := false
	for _, sh := range s.shapes {
		if sh.bound.IsZero() {
			continue
		}
		if !ok {
			b, ok = sh.bound, true
			continue
		}
		b = b.Union(sh.bound)
	}
	return b, ok
}

func (sh *Shape) SetStyle(st Style) {
	sh.style = sh.style.Merge(st)
	sh.scene.version++
}

func (sh *Shape) Bounds() orb.Bound { return sh.bound }

func (sh *Shape) BindPopup(html string) {
	sh.popup = html
	sh.scene.version++
}

func (sh *Shape) OpenPopup() {
	if sh.popup == "" {
		return
	}
	sh.scene.open = sh
	sh.scene.version++
}

func (sh *Shape) ClosePopup() {
	if sh.scene.open == sh {
		sh.scene.open = nil
		sh.scene.version++
	}
}

// Style：当前样式
func (sh *Shape) Style() Style { return sh.style }

func (sh *Shape) PopupOpen() bool { return sh.scene.open == sh }

// ShapeState：单个形状的对外快照
type ShapeState struct {
	ID        int    `json:"id"`
	Style     Style  `json:"style"`
	Popup     string `json:"popup,omitempty"`
	PopupOpen bool   `json:"popupOpen,omitempty"`
}

// Snapshot：浏览器据此还原图层样式、弹窗与视野
type Snapshot struct {
	Version uint64       `json:"version"`
	Shapes  []ShapeState `json:"shapes"`
	View    *View        `json:"view,omitempty"`
}

func (s *Scene) Snapshot() Snapshot {
	out := Snapshot{Version: s.version, Shapes: make([]ShapeState, len(s.shapes))}
	for i, sh := range s.shapes {
		out.Shapes[i] = ShapeState{ID: sh.id, Style: sh.style, Popup: sh.popup, PopupOpen: s.open == sh}
	}
	if s.view != nil {
		v := *s.view
		out.View = &v
	}
	return out
}
