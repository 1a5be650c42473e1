// 包 population：为每个行政区要素附加合成人口数（非真实数据）
package population

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/paulmach/orb/geojson"
)

// Property：写入要素属性的字段名
const Property = "population"

var ErrInvalidRange = errors.New("invalid population range")

// Range：闭区间 [Min, Max]
type Range struct {
	Min int
	Max int
}

// Default：与页面一致的 100 万 ~ 1 亿
var Default = Range{Min: 1_000_000, Max: 100_000_000}

func (r Range) Validate() error {
	if r.Min < 0 || r.Max < r.Min || r.Max-r.Min == math.MaxInt {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Draw：区间内均匀取整
func (r Range) Draw(rng *rand.Rand) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// Annotate：为每个要素写入 population 属性（原地修改）
// 约束：不保证跨进程可复现；rng 为 nil 时使用全局随机源
func Annotate(features []*geojson.Feature, rng *rand.Rand, r Range) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for _, f := range features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties[Property] = r.Draw(rng)
	}
	return nil
}

// Of：读取要素人口数；JSON 回读后数值为 float64，两种形态都接受
func Of(f *geojson.Feature) (int, bool) {
	switch v := f.Properties[Property].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
