// 命令行工具：离线校验行政区多边形文档（缺失名称、键冲突、行政区数量、随机抽样）
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"statemap/internal/config"
	"statemap/internal/geodata"
	"statemap/internal/logger"
	"statemap/internal/population"
	"statemap/internal/regions"
	"statemap/internal/sidebar"
)

func main() {
	cfg := config.Load()
	logger.Setup()
	src := flag.String("src", cfg.GeoJSONSource, "polygon document path or http(s) URL")
	nameKey := flag.String("name-key", cfg.GeoJSONNameKey, "feature property holding the region name")
	sample := flag.Int("sample", cfg.SampleSize, "number of regions to sample")
	seed := flag.Uint64("seed", 0, "population seed (0 = random)")
	strict := flag.Bool("strict", false, "exit non-zero when any warning is reported")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	fc, err := geodata.NewLoader(nil, 0).Load(ctx, *src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	r := population.Range{Min: cfg.PopulationMin, Max: cfg.PopulationMax}
	if err := population.Annotate(fc.Features, rng, r); err != nil {
		fmt.Fprintln(os.Stderr, "population:", err)
		os.Exit(1)
	}
	idx, warns := regions.Build(fc.Features, *nameKey)
	for _, w := range warns {
		fmt.Printf("warning [%s] %s\n", w.Kind(), w.Error())
	}
	fmt.Printf("features: %d\nregions: %d\nwarnings: %d\n", len(fc.Features), idx.Len(), len(warns))

	side := sidebar.New(rng)
	for _, e := range side.ShowRandomSample(idx.Regions(), *sample) {
		fmt.Println("  " + e.Label)
	}
	if *strict && len(warns) > 0 {
		os.Exit(2)
	}
}
