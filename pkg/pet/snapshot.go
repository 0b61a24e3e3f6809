package pet

import "log"

// Snapshot 一只宠物的持久化快照
//
// 字段即保存/恢复协议：YAML 编码后由 game.SaveManager 写入
// gdata 存储。恢复时未知的状态标签退回待机并记录日志，
// 单条损坏记录不影响其余宠物。
type Snapshot struct {
	PackID string `yaml:"packId"`

	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`

	TargetX float64 `yaml:"targetX"`
	TargetY float64 `yaml:"targetY"`

	FacingRight    bool   `yaml:"facingRight"`
	OnGround       bool   `yaml:"onGround"`
	WallSide       string `yaml:"wallSide"`
	GravityEnabled bool   `yaml:"gravityEnabled"`

	// State 状态的字符串标签（见 stateTags）
	State string `yaml:"state"`

	// Running 行走状态下是否在奔跑
	Running bool `yaml:"running"`

	StateTimer float64 `yaml:"stateTimer"`

	Stats Stats `yaml:"stats"`
}

// Snapshot 导出当前状态为持久化快照
func (p *Pet) Snapshot() Snapshot {
	return Snapshot{
		PackID:         p.PackID,
		X:              p.X,
		Y:              p.Y,
		VX:             p.VX,
		VY:             p.VY,
		TargetX:        p.TargetX,
		TargetY:        p.TargetY,
		FacingRight:    p.FacingRight,
		OnGround:       p.OnGround,
		WallSide:       p.WallSide.String(),
		GravityEnabled: p.GravityEnabled,
		State:          p.State.String(),
		Running:        p.State == StateRunning,
		StateTimer:     p.StateTimer,
		Stats:          p.Stats,
	}
}

// applySnapshot 从快照恢复状态
//
// 拖拽状态不可恢复（没有对应的鼠标按住事件），退回待机。
func (p *Pet) applySnapshot(s Snapshot) {
	p.X = s.X
	p.Y = s.Y
	p.VX = s.VX
	p.VY = s.VY
	p.TargetX = s.TargetX
	p.TargetY = s.TargetY
	p.FacingRight = s.FacingRight
	p.OnGround = s.OnGround
	p.WallSide = ParseWallSide(s.WallSide)
	p.GravityEnabled = s.GravityEnabled
	p.StateTimer = s.StateTimer
	p.Stats = s.Stats

	state, known := ParseState(s.State)
	if !known {
		log.Printf("[PetRegistry] Unknown state tag '%s', defaulting to idle", s.State)
		state = StateIdle
	}
	if state == StateDragging {
		state = StateIdle
	}
	if state == StateWalking && s.Running {
		state = StateRunning
	}

	p.State = state
	p.PrevState = state
	action, loop := state.ActionName()
	p.player.Play(action, loop)
	p.player.SetFacing(p.FacingRight)
}
