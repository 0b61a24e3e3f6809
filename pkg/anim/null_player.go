package anim

import "github.com/hajimehoshi/ebiten/v2"

// 占位动画节奏
const (
	// nullFrameCadence 占位动画的默认换帧间隔（秒）
	nullFrameCadence = 0.5

	// nullFastCadence 下落/投掷状态的加速换帧间隔（秒）
	nullFastCadence = 0.3

	// nullCompleteAfter 非循环占位动画报告完成的固定时长（秒）
	nullCompleteAfter = 1.0
)

// NullPlayer 无素材时的占位动画实现
//
// 返回固定的占位精灵和零速度，在两个帧序号间按固定节奏
// 切换以提供最低限度的视觉反馈。非循环动作在固定时长后
// 报告完成，使特殊动作状态仍能正常退出。
type NullPlayer struct {
	// placeholder 占位精灵，可为 nil（渲染层画色块兜底）
	placeholder *ebiten.Image

	action     string
	loop       bool
	timer      float64
	frameTimer float64
	frameIndex int
	facing     bool
	pinchZone  int
}

// NewNullPlayer 创建占位播放器
//
// 参数:
//   - placeholder: 占位精灵，可为 nil
func NewNullPlayer(placeholder *ebiten.Image) *NullPlayer {
	return &NullPlayer{
		placeholder: placeholder,
		facing:      true,
	}
}

// Play 记录动作并重置计时，永远成功
func (p *NullPlayer) Play(action string, loop bool) bool {
	if p.action == action && p.loop == loop {
		return true
	}
	p.action = action
	p.loop = loop
	p.timer = 0
	p.frameTimer = 0
	p.frameIndex = 0
	return true
}

// Update 推进占位动画
func (p *NullPlayer) Update(dt float64) (*ebiten.Image, float64, float64) {
	p.timer += dt
	p.frameTimer += dt

	cadence := nullFrameCadence
	switch p.action {
	case "Fall", "Thrown":
		cadence = nullFastCadence
	}
	if p.frameTimer >= cadence {
		p.frameTimer -= cadence
		p.frameIndex = 1 - p.frameIndex
	}

	return p.placeholder, 0, 0
}

// IsCompleted 非循环动作在固定时长后完成
func (p *NullPlayer) IsCompleted() bool {
	return !p.loop && p.timer >= nullCompleteAfter
}

// SetFacing 设置朝向
func (p *NullPlayer) SetFacing(right bool) {
	p.facing = right
}

// Facing 当前朝向
func (p *NullPlayer) Facing() bool {
	return p.facing
}

// SetPinchZone 记录捏取区域（占位实现不使用）
func (p *NullPlayer) SetPinchZone(zone int) {
	p.pinchZone = zone
}

// FrameIndex 当前占位帧序号（0 或 1），供渲染层做闪烁效果
func (p *NullPlayer) FrameIndex() int {
	return p.frameIndex
}

// AvailableActions 占位实现没有真实动作
func (p *NullPlayer) AvailableActions() []string {
	return nil
}
