// 包 session：按会话保存交互控制器（进程内 LRU + TTL）；不做跨进程持久化
package session

import (
	"container/list"
	"sync"
	"time"

	"statemap/internal/interaction"
	"statemap/internal/metrics"

	"github.com/google/uuid"
)

// 文档注释：会话存储
// 背景：每个浏览器会话持有独立的高亮状态与地图样式；闲置超过 TTL 或超出容量时淘汰最久未访问者。
// 约束：Get 命中即续期；过期项在访问或写入时惰性清理。
type Store struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
}

type entry struct {
	id  string
	c   *interaction.Controller
	exp time.Time
}

func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = 4096
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element), now: time.Now}
}

// NewID：生成会话标识
func NewID() string { return uuid.NewString() }

// ValidID：仅接受 UUID 形式的会话标识，避免任意 cookie 值进入存储
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) Get(id string) (*interaction.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.dict[id]
	if !ok {
		return nil, false
	}
	it := e.Value.(*entry)
	if !s.now().Before(it.exp) {
		s.remove(e)
		return nil, false
	}
	it.exp = s.now().Add(s.ttl)
	s.lst.MoveToFront(e)
	return it.c, true
}

func (s *Store) Put(id string, c *interaction.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.dict[id]; ok {
		it := e.Value.(*entry)
		it.c = c
		it.exp = s.now().Add(s.ttl)
		s.lst.MoveToFront(e)
		return
	}
	s.dict[id] = s.lst.PushFront(&entry{id: id, c: c, exp: s.now().Add(s.ttl)})
	for s.lst.Len() > s.cap {
		s.remove(s.lst.Back())
	}
	metrics.SessionsActive.Set(float64(s.lst.Len()))
}

// Purge：丢弃全部会话（重新加载行政区数据后旧会话的句柄表失效）
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lst.Init()
	s.dict = make(map[string]*list.Element)
	metrics.SessionsActive.Set(0)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lst.Len()
}

func (s *Store) remove(e *list.Element) {
	it := e.Value.(*entry)
	delete(s.dict, it.id)
	s.lst.Remove(e)
	metrics.SessionsActive.Set(float64(s.lst.Len()))
}
