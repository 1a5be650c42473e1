// 包 sidebar：侧栏呈现（总数、随机抽样列表、信息面板）；只维护展示状态，不持有地图
package sidebar

import (
	"math/rand/v2"

	"statemap/internal/regions"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotFoundText：检索未命中时面板显示的固定文案
const NotFoundText = "State not found!"

type PanelKind string

const (
	PanelEmpty    PanelKind = ""
	PanelInfo     PanelKind = "info"
	PanelNotFound PanelKind = "not_found"
)

// Panel：信息面板；Text 为纯文本渲染结果
type Panel struct {
	Kind       PanelKind `json:"kind"`
	Key        string    `json:"key,omitempty"`
	Name       string    `json:"name,omitempty"`
	Population string    `json:"population,omitempty"`
	Text       string    `json:"text"`
}

// Entry：随机抽样列表项；点击时按 Key 回到交互控制器
type Entry struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Snapshot struct {
	Total  int     `json:"total"`
	Sample []Entry `json:"sample"`
	Panel  Panel   `json:"panel"`
}

// Presenter：非并发安全，由交互控制器串行调用
type Presenter struct {
	p     *message.Printer
	rng   *rand.Rand
	total int
	items []Entry
	panel Panel
}

// New：rng 为 nil 时使用随机种子
func New(rng *rand.Rand) *Presenter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Presenter{p: message.NewPrinter(language.English), rng: rng}
}

// Group：千分位分组，如 12345678 -> "12,345,678"
func (s *Presenter) Group(n int) string { return s.p.Sprintf("%d", n) }

func (s *Presenter) ShowTotalCount(n int) { s.total = n }

// ShowRandomSample：无放回均匀抽取 k 个（k 超过总数时取全部），每次调用重新抽取
func (s *Presenter) ShowRandomSample(rs []*regions.Region, k int) []Entry {
	picked := Sample(s.rng, rs, k)
	s.items = make([]Entry, len(picked))
	for i, r := range picked {
		s.items[i] = Entry{Key: r.Key, Name: r.Name, Label: r.Name + " – Pop. " + s.Group(r.Population)}
	}
	return append([]Entry(nil), s.items...)
}

func (s *Presenter) ShowInfoPanel(r *regions.Region) {
	pop := s.Group(r.Population)
	s.panel = Panel{Kind: PanelInfo, Key: r.Key, Name: r.Name, Population: pop, Text: r.Name + "\nPopulation: " + pop}
}

func (s *Presenter) ShowNotFound() {
	s.panel = Panel{Kind: PanelNotFound, Text: NotFoundText}
}

func (s *Presenter) Panel() Panel { return s.panel }

func (s *Presenter) Snapshot() Snapshot {
	return Snapshot{Total: s.total, Sample: append([]Entry{}, s.items...), Panel: s.panel}
}

// Sample：部分 Fisher-Yates 洗牌，不修改入参
func Sample(rng *rand.Rand, rs []*regions.Region, k int) []*regions.Region {
	if k <= 0 || len(rs) == 0 {
		return nil
	}
	if k > len(rs) {
		k = len(rs)
	}
	buf := append([]*regions.Region(nil), rs...)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k]
}
