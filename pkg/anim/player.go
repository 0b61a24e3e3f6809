package anim

import (
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teknisee/shimeji/internal/shimeji"
)

// Player 动画端口
//
// 宠物状态机对动画系统的全部依赖。实现必须保证：即使素材
// 完全缺失（NullPlayer），状态机的行为也不发生变化。
type Player interface {
	// Play 切换到指定动作
	//
	// 参数:
	//   - action: 动作名（如 "Walk"）
	//   - loop: 是否循环播放
	//
	// 返回:
	//   - bool: 动作是否存在并成功切换
	Play(action string, loop bool) bool

	// Update 推进动画
	//
	// 返回当前帧精灵（可为 nil）和动画驱动速度（像素/秒）。
	// 速度未经朝向修正，由状态机按 facing 取符号。
	Update(dt float64) (*ebiten.Image, float64, float64)

	// IsCompleted 当前非循环动画是否播放完成
	IsCompleted() bool

	// SetFacing 设置朝向（true = 朝右），仅影响渲染翻转
	SetFacing(right bool)

	// Facing 当前朝向
	Facing() bool

	// SetPinchZone 设置拖拽捏取区域（0-6），用于选择被抓住时的
	// 精灵变体
	SetPinchZone(zone int)

	// AvailableActions 返回可播放的动作名列表
	AvailableActions() []string
}

// ImageLookup 按文件名取精灵图，缺失时返回 nil
type ImageLookup func(name string) *ebiten.Image

// PackPlayer 素材包驱动的动画播放器
//
// 由 actions.xml 解析结果构建，每个动作的每个变体预先
// 展开为帧列表。
type PackPlayer struct {
	// actions 动作名 -> 各变体的帧列表
	actions map[string][][]Frame

	current   *Animation
	facing    bool
	pinchZone int
}

// NewPackPlayer 从解析后的动作表构建播放器
//
// 参数:
//   - actions: internal/shimeji 解析得到的动作表
//   - lookup: 精灵图查找函数，缺失的图返回 nil（渲染层兜底）
func NewPackPlayer(actions map[string]*shimeji.ActionData, lookup ImageLookup) *PackPlayer {
	p := &PackPlayer{
		actions: make(map[string][][]Frame, len(actions)),
		facing:  true,
	}
	for name, action := range actions {
		variants := make([][]Frame, 0, len(action.Animations))
		for _, poses := range action.Animations {
			frames := make([]Frame, 0, len(poses))
			for _, pose := range poses {
				frames = append(frames, Frame{
					Image:     lookup(pose.Image),
					AnchorX:   pose.AnchorX,
					AnchorY:   pose.AnchorY,
					VelocityX: pose.VelocityX,
					VelocityY: pose.VelocityY,
					Duration:  pose.Duration,
				})
			}
			if len(frames) > 0 {
				variants = append(variants, frames)
			}
		}
		if len(variants) > 0 {
			p.actions[name] = variants
		}
	}
	return p
}

// Play 切换到指定动作
//
// 已在播放同名循环动作时不重置进度，避免行走动画每次
// 状态刷新都跳回第一帧。
func (p *PackPlayer) Play(action string, loop bool) bool {
	variants, ok := p.actions[action]
	if !ok {
		log.Printf("[AnimPlayer] Unknown action '%s'", action)
		return false
	}

	if p.current != nil && p.current.Name == action && loop {
		return true
	}

	p.current = NewAnimation(action, variants[p.variantIndex(variants)], loop)
	return true
}

// variantIndex 按捏取区域选择变体下标
//
// 单变体动作恒为 0，多变体动作（捏取精灵）按区域选择，
// 越界区域钳制到边上的变体。
func (p *PackPlayer) variantIndex(variants [][]Frame) int {
	if len(variants) <= 1 {
		return 0
	}
	idx := p.pinchZone
	if idx >= len(variants) {
		idx = len(variants) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Update 推进动画并返回当前帧精灵和速度
func (p *PackPlayer) Update(dt float64) (*ebiten.Image, float64, float64) {
	if p.current == nil {
		return nil, 0, 0
	}
	frame := p.current.Update(dt)
	return frame.Image, frame.VelocityX, frame.VelocityY
}

// IsCompleted 当前动画是否播放完成
func (p *PackPlayer) IsCompleted() bool {
	return p.current != nil && p.current.Completed()
}

// SetFacing 设置朝向
func (p *PackPlayer) SetFacing(right bool) {
	p.facing = right
}

// Facing 当前朝向
func (p *PackPlayer) Facing() bool {
	return p.facing
}

// SetPinchZone 设置捏取区域
//
// 正在播放多变体动作时立即切换到对应变体并从头播放，
// 拖拽中光标移动可以实时更换被抓精灵。区域不变时不打断
// 当前播放。
func (p *PackPlayer) SetPinchZone(zone int) {
	if zone == p.pinchZone {
		return
	}
	p.pinchZone = zone

	if p.current == nil {
		return
	}
	variants, ok := p.actions[p.current.Name]
	if !ok || len(variants) <= 1 {
		return
	}
	p.current = NewAnimation(p.current.Name, variants[p.variantIndex(variants)], p.current.loop)
}

// AvailableActions 返回可播放的动作名列表（字典序）
func (p *PackPlayer) AvailableActions() []string {
	names := make([]string, 0, len(p.actions))
	for name := range p.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
