package store

import (
	"sort"
	"sync"
)

// Listener 状态变更监听器，收到的是变更后的状态副本和变更字段
type Listener func(state State, fields []string)

// Store 进程内唯一的应用状态
type Store struct {
	mu    sync.RWMutex
	state State
	seq   uint64 // 已提交的变更序号

	// 通知按提交顺序逐个投递
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	delivered   uint64

	listenerMu sync.RWMutex
	listeners  map[uint64]Listener
	nextID     uint64
}

// New 创建状态容器
func New() *Store {
	s := &Store{
		state:     Initial(),
		listeners: make(map[uint64]Listener),
	}
	s.deliverCond = sync.NewCond(&s.deliverMu)
	return s
}

// Get 读取当前状态副本
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Set 合并局部状态，单次调用是原子的
func (s *Store) Set(p Patch) {
	s.Update(func(State) Patch { return p })
}

// Update 基于当前状态计算补丁并合并，读取与写入在同一把锁内完成
func (s *Store) Update(fn func(current State) Patch) {
	s.mu.Lock()
	p := fn(s.state.Clone())
	if p.Empty() {
		s.mu.Unlock()
		return
	}
	p.Apply(&s.state)
	s.seq++
	seq := s.seq
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(seq, snapshot, p.Fields())
}

// Subscribe 订阅状态变更，返回取消函数
// 监听器按提交顺序串行调用，监听器内不能再修改状态
func (s *Store) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// notify 等前一次变更投递完成后再投递，监听器最后收到的总是最新状态
func (s *Store) notify(seq uint64, state State, fields []string) {
	s.deliverMu.Lock()
	for s.delivered != seq-1 {
		s.deliverCond.Wait()
	}
	s.deliverMu.Unlock()

	defer func() {
		s.deliverMu.Lock()
		s.delivered = seq
		s.deliverCond.Broadcast()
		s.deliverMu.Unlock()
	}()

	s.listenerMu.RLock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(state, fields)
	}
}
