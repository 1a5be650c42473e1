// 包 config：集中读取环境变量配置；入口与命令行工具共用同一套默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config：服务运行参数
// 约束：所有字段均有默认值；解析失败的数值项静默回退默认值，与既有环境变量约定保持一致
type Config struct {
	Addr    string
	APIBase string

	GeoJSONSource   string
	GeoJSONNameKey  string
	GeoJSONCacheTTL time.Duration

	PopulationMin int
	PopulationMax int
	SampleSize    int

	SessionTTL      time.Duration
	SessionCapacity int

	RedisEnable bool
	PGEnable    bool

	RateLimitEnabled bool
	RateLimitQPS     int

	TileURL   string
	CenterLat float64
	CenterLon float64
	Zoom      int

	// AdminToken 为空时禁用重载接口
	AdminToken string
}

// LoadDotenv：依次加载 .env 与 data/env/.env；文件缺失不视为错误，已存在的环境变量不被覆盖
func LoadDotenv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// Load：加载 dotenv 后读取环境变量
func Load() Config {
	LoadDotenv()
	return FromEnv()
}

// FromEnv：仅读取当前进程环境变量
func FromEnv() Config {
	c := Config{
		Addr:             str("ADDR", ":8080"),
		APIBase:          strings.TrimRight(str("API_BASE", "/api"), "/"),
		GeoJSONSource:    str("GEOJSON_SOURCE", filepath.Join("data", "india_states.geojson")),
		GeoJSONNameKey:   str("GEOJSON_NAME_KEY", "NAME_1"),
		GeoJSONCacheTTL:  time.Duration(posInt("GEOJSON_CACHE_TTL_S", 86400)) * time.Second,
		PopulationMin:    posInt("POPULATION_MIN", 1_000_000),
		PopulationMax:    posInt("POPULATION_MAX", 100_000_000),
		SampleSize:       posInt("SAMPLE_SIZE", 5),
		SessionTTL:       time.Duration(posInt("SESSION_TTL_S", 3600)) * time.Second,
		SessionCapacity:  posInt("SESSION_CAPACITY", 4096),
		RedisEnable:      os.Getenv("REDIS_ENABLE") == "true",
		PGEnable:         os.Getenv("PG_ENABLE") == "true",
		RateLimitEnabled: os.Getenv("RATE_LIMIT_ENABLED") == "true",
		RateLimitQPS:     posInt("RATE_LIMIT_QPS", 200),
		TileURL:          str("TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
		CenterLat:        float("MAP_CENTER_LAT", 20.5937),
		CenterLon:        float("MAP_CENTER_LON", 78.9629),
		Zoom:             posInt("MAP_ZOOM", 5),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
	}
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	return c
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func posInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func float(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}
