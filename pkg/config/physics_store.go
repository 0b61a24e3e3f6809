package config

import "sync/atomic"

// PhysicsStore 物理参数的原子快照容器
//
// 模拟线程每帧读取，GUI 控制面板等外部线程偶尔整体替换。
// 读取方拿到的是不可变快照指针，替换后所有存活宠物在下一帧
// 自动读到新值，不需要逐个通知。
type PhysicsStore struct {
	current atomic.Pointer[PhysicsConfig]
}

// NewPhysicsStore 创建物理参数容器
//
// 参数:
//   - initial: 初始参数，nil 时使用默认值
func NewPhysicsStore(initial *PhysicsConfig) *PhysicsStore {
	s := &PhysicsStore{}
	if initial == nil {
		initial = DefaultPhysicsConfig()
	}
	s.current.Store(initial)
	return s
}

// Get 返回当前参数快照
//
// 返回的指针指向不可变快照，调用方不得修改其字段。
func (s *PhysicsStore) Get() *PhysicsConfig {
	return s.current.Load()
}

// Replace 整体替换物理参数
//
// 替换前校验，非法参数被拒绝并保留旧值。
//
// 返回:
//   - error: 新参数未通过校验时返回错误
func (s *PhysicsStore) Replace(next *PhysicsConfig) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(next)
	return nil
}
