// Package anim 提供宠物动画播放能力
//
// 状态机通过 Player 接口请求动画：按动作名播放、每帧推进并取得
// 当前精灵和动画驱动速度、查询是否播放完成。存在两个实现：
//   - PackPlayer: 由素材包 actions.xml 解析结果驱动的逐帧动画
//   - NullPlayer: 无素材时的占位实现，保证状态机行为不变
package anim

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Frame 单个动画帧
type Frame struct {
	// Image 帧精灵，素材缺失时可为 nil（由渲染层替换为占位图）
	Image *ebiten.Image

	// AnchorX, AnchorY 精灵锚点（像素）
	AnchorX, AnchorY int

	// VelocityX, VelocityY 帧速度（像素/秒），已从素材包的
	// 每帧像素值换算
	VelocityX, VelocityY float64

	// Duration 帧显示时长（秒）
	Duration float64
}

// Animation 一段有序帧序列的播放状态
type Animation struct {
	// Name 动作名（如 "Walk"）
	Name string

	// Frames 帧列表，至少一帧
	Frames []Frame

	loop       bool
	frameIndex int
	frameTimer float64
	completed  bool
}

// NewAnimation 创建动画播放状态
//
// 参数:
//   - name: 动作名
//   - frames: 帧列表
//   - loop: 是否循环播放；循环动画永远不报告完成
func NewAnimation(name string, frames []Frame, loop bool) *Animation {
	return &Animation{
		Name:   name,
		Frames: frames,
		loop:   loop,
	}
}

// Update 推进动画并返回当前帧
//
// 非循环动画播放到最后一帧结束后停在最后一帧并标记完成。
//
// 参数:
//   - dt: 距上一帧的时间（秒）
func (a *Animation) Update(dt float64) Frame {
	if len(a.Frames) == 0 {
		return Frame{}
	}

	a.frameTimer += dt
	for a.frameTimer >= a.Frames[a.frameIndex].Duration {
		a.frameTimer -= a.Frames[a.frameIndex].Duration
		a.frameIndex++
		if a.frameIndex >= len(a.Frames) {
			if a.loop {
				a.frameIndex = 0
			} else {
				a.frameIndex = len(a.Frames) - 1
				a.completed = true
				a.frameTimer = 0
				break
			}
		}
	}

	return a.Frames[a.frameIndex]
}

// Current 返回当前帧（不推进）
func (a *Animation) Current() Frame {
	if len(a.Frames) == 0 {
		return Frame{}
	}
	return a.Frames[a.frameIndex]
}

// Completed 非循环动画是否已播放完成
func (a *Animation) Completed() bool {
	return a.completed
}

// Reset 回到第一帧重新播放
func (a *Animation) Reset() {
	a.frameIndex = 0
	a.frameTimer = 0
	a.completed = false
}
