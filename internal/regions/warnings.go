package regions

import "fmt"

// Warning：索引构建告警；均为非致命，调用方记录日志即可
type Warning interface {
	error
	Kind() string
}

// MissingAttributeWarning：要素缺少名称属性，不进入索引但仍参与渲染
type MissingAttributeWarning struct {
	Feature   int
	Attribute string
}

func (w MissingAttributeWarning) Error() string {
	return fmt.Sprintf("feature %d: missing %q attribute", w.Feature, w.Attribute)
}

func (w MissingAttributeWarning) Kind() string { return "missing_attribute" }

// KeyCollisionWarning：不同要素归一化后键相同，后者覆盖前者
type KeyCollisionWarning struct {
	Key      string
	Previous int
	Feature  int
}

func (w KeyCollisionWarning) Error() string {
	return fmt.Sprintf("feature %d: key %q overwrites feature %d", w.Feature, w.Key, w.Previous)
}

func (w KeyCollisionWarning) Kind() string { return "key_collision" }
