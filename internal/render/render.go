// 包 render：地图渲染协作方的契约，以及记录样式/弹窗/视野的内存实现（浏览器按快照还原到 Leaflet）
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Style：与 Leaflet Path 选项同名；零值字段表示"不修改"
type Style struct {
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// Merge：over 中的非零字段覆盖 s，语义同 Leaflet setStyle
func (s Style) Merge(over Style) Style {
	if over.FillColor != "" {
		s.FillColor = over.FillColor
	}
	if over.FillOpacity != 0 {
		s.FillOpacity = over.FillOpacity
	}
	if over.Weight != 0 {
		s.Weight = over.Weight
	}
	if over.Opacity != 0 {
		s.Opacity = over.Opacity
	}
	if over.Color != "" {
		s.Color = over.Color
	}
	return s
}

var (
	DefaultStyle   = Style{FillColor: "blue", Weight: 1, Opacity: 1, Color: "white", FillOpacity: 0.3}
	HoverStyle     = Style{FillColor: "green", FillOpacity: 0.7, Weight: 2}
	HighlightStyle = Style{FillColor: "red", FillOpacity: 0.7, Weight: 2, Color: "red"}
)

// FitOptions：视野适配参数，Padding 单位为像素
type FitOptions struct {
	Padding [2]int
}

// DefaultPadding：定位到单个行政区时的留白
var DefaultPadding = FitOptions{Padding: [2]int{50, 50}}

// Handle：单个已渲染形状
type Handle interface {
	SetStyle(Style)
	Bounds() orb.Bound
	BindPopup(html string)
	OpenPopup()
	ClosePopup()
}

// Renderer：图层 + 地图视野
// 约束：ResetStyle 不传参时重置全部形状；each 按要素顺序回调，i 为要素序号
type Renderer interface {
	Render(features []*geojson.Feature, style Style, each func(i int, f *geojson.Feature, h Handle))
	ResetStyle(hs ...Handle)
	FitBounds(b orb.Bound, opts FitOptions)
}
