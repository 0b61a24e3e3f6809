package anim

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teknisee/shimeji/internal/shimeji"
)

// Pack 一个已加载的素材包
type Pack struct {
	// ID 素材包标识（目录名）
	ID string

	// Dir 素材包根目录
	Dir string

	// Actions 解析后的动作表（conf/actions.xml）
	Actions map[string]*shimeji.ActionData

	// Behaviors 解析后的行为频率表（conf/behaviors.xml）
	Behaviors map[string]*shimeji.BehaviorData
}

// Manager 素材包管理器
//
// 按 ID 缓存解析后的素材包定义，并为每只宠物创建独立的
// 动画播放器。XML 每个包只解析一次。
type Manager struct {
	packs map[string]*Pack
}

// NewManager 创建素材包管理器
func NewManager() *Manager {
	return &Manager{
		packs: make(map[string]*Pack),
	}
}

// LoadPack 加载并缓存一个素材包
//
// 目录布局沿用 Shimeji 约定：conf/actions.xml 和
// conf/behaviors.xml，精灵图在包根目录。重复加载同一 ID
// 直接返回缓存。
//
// 参数:
//   - id: 素材包标识
//   - dir: 素材包根目录
//
// 返回:
//   - *Pack: 加载成功的素材包
//   - error: 任一 XML 解析失败时返回错误
func (m *Manager) LoadPack(id, dir string) (*Pack, error) {
	if pack, ok := m.packs[id]; ok {
		return pack, nil
	}

	actions, err := shimeji.ParseActionsFile(filepath.Join(dir, "conf", "actions.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load pack '%s': %w", id, err)
	}

	behaviors, err := shimeji.ParseBehaviorsFile(filepath.Join(dir, "conf", "behaviors.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load pack '%s': %w", id, err)
	}

	pack := &Pack{
		ID:        id,
		Dir:       dir,
		Actions:   actions,
		Behaviors: behaviors,
	}
	m.packs[id] = pack
	log.Printf("[AnimManager] Loaded pack '%s': %d actions, %d behaviors",
		id, len(actions), len(behaviors))
	return pack, nil
}

// Pack 返回已缓存的素材包
func (m *Manager) Pack(id string) (*Pack, bool) {
	pack, ok := m.packs[id]
	return pack, ok
}

// NewPlayer 为一只宠物创建动画播放器
//
// 素材包未加载时降级为 NullPlayer，状态机行为不受影响。
//
// 参数:
//   - id: 素材包标识
//   - lookup: 精灵图查找函数
//   - placeholder: NullPlayer 使用的占位精灵，可为 nil
func (m *Manager) NewPlayer(id string, lookup ImageLookup, placeholder *ebiten.Image) Player {
	pack, ok := m.packs[id]
	if !ok || len(pack.Actions) == 0 {
		log.Printf("[AnimManager] Pack '%s' unavailable, using null player", id)
		return NewNullPlayer(placeholder)
	}
	return NewPackPlayer(pack.Actions, lookup)
}
