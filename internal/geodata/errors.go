package geodata

import "fmt"

// LoadError：多边形集合文档获取或解析失败
// 背景：加载失败不致命，调用方记录日志后保持"仅底图"状态；不重试、不做部分渲染
type LoadError struct {
	Source string
	Stage  string // fetch | parse
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("geodata %s %s: %v", e.Stage, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
