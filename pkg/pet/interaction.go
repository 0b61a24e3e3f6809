package pet

import (
	"log"
	"math"

	"github.com/teknisee/shimeji/pkg/config"
)

// MouseButton 核心关心的鼠标按键
//
// 不直接使用 ebiten 的按键类型，保证状态机可以脱离窗口
// 环境做单元测试。
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

// InteractionResult 一次鼠标按下事件的处理结果
type InteractionResult struct {
	// Hit 事件是否命中宠物
	Hit bool

	// StartedDrag 是否开始拖拽
	StartedDrag bool

	// Kill 右键双击请求删除，由注册表执行标记
	Kill bool

	// ToggledSit 右键单击使宠物坐下
	ToggledSit bool

	// SpecialAction 坐着时右键单击触发了随机特殊动作
	SpecialAction bool
}

// specialActionPool 右键触发的随机特殊动作候选
var specialActionPool = [...]State{
	StatePose, StateEatBerry, StateThrowNeedle, StateWatch,
}

// HitTest 光标是否落在宠物的碰撞矩形内
func (p *Pet) HitTest(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// OnMouseDown 处理鼠标按下
//
// 左键命中开始拖拽；右键单击切换坐下（坐着时改为随机特殊
// 动作），双击窗口内的第二次右键请求删除。
//
// 参数:
//   - x, y: 光标位置
//   - button: 按键
func (p *Pet) OnMouseDown(x, y float64, button MouseButton) InteractionResult {
	if !p.HitTest(x, y) {
		return InteractionResult{}
	}
	result := InteractionResult{Hit: true}

	switch button {
	case MouseLeft:
		p.beginDrag(x, y)
		result.StartedDrag = true

	case MouseRight:
		doubleClickWindow := config.DoubleClickTimeout.Seconds()
		if p.simTime-p.lastRightClickAt <= doubleClickWindow {
			p.lastRightClickAt = math.Inf(-1)
			result.Kill = true
			return result
		}
		p.lastRightClickAt = p.simTime
		p.lastInteractionAt = p.simTime

		if p.State == StateSitting {
			next := specialActionPool[p.rng.Intn(len(specialActionPool))]
			p.transitionTo(next)
			result.SpecialAction = true
		} else {
			p.transitionTo(StateSitting)
			result.ToggledSit = true
		}
	}

	return result
}

// beginDrag 开始拖拽
func (p *Pet) beginDrag(x, y float64) {
	p.dragOffsetX = x - p.X
	p.dragOffsetY = y - p.Y
	p.pinchOffset = x - p.CenterX()
	p.player.SetPinchZone(PinchZoneFor(p.pinchOffset))

	p.Stats.AddHappiness(10)
	p.Stats.TimesPetted++
	p.lastInteractionAt = p.simTime

	p.transitionTo(StateDragging)
}

// OnMouseMotion 处理拖拽中的鼠标移动
//
// 位置跟随光标减去按下时记录的偏移。越过边界时钳制而不是
// 穿越；被钳制在墙上时标记为贴墙，松手后按贴墙逻辑处理。
//
// 参数:
//   - x, y: 光标位置
//   - env: 当前更新环境
func (p *Pet) OnMouseMotion(x, y float64, env Env) {
	if p.State != StateDragging {
		return
	}

	newX := x - p.dragOffsetX
	newY := y - p.dragOffsetY

	if env.BoundariesEnabled {
		b := env.Bounds.Current()
		clampedX, clampedY := b.Clamp(newX, newY, p.Width, p.Height)

		switch {
		case newX < clampedX:
			p.wallStuck = true
			p.WallSide = WallLeft
		case newX > clampedX:
			p.wallStuck = true
			p.WallSide = WallRight
		default:
			p.wallStuck = false
			p.WallSide = WallNone
		}

		newX, newY = clampedX, clampedY
	}

	p.X = newX
	p.Y = newY
	p.pinchOffset = x - p.CenterX()
}

// OnMouseUp 处理鼠标松开
//
// 拖拽中松开左键进入投掷：速度等于记录的鼠标位移乘以投掷
// 倍数。被按在墙上松手时不投掷，直接抓墙（爬墙关闭时照常
// 投掷）。
//
// 参数:
//   - button: 按键
//   - dx, dy: 最近记录的鼠标位移
//   - env: 当前更新环境
func (p *Pet) OnMouseUp(button MouseButton, dx, dy float64, env Env) {
	if button != MouseLeft || p.State != StateDragging {
		return
	}
	p.lastInteractionAt = p.simTime

	if p.wallStuck && p.WallSide != WallNone && env.WallClimbing {
		p.wallStuck = false
		p.Stats.WallClimbs++
		log.Printf("[Pet] #%d released onto %s wall", p.ID, p.WallSide)
		p.transitionTo(StateGrabWall)
		return
	}

	p.wallStuck = false
	p.WallSide = WallNone

	mult := env.Physics.ThrowMultiplier
	p.transitionTo(StateThrown)
	p.VX = dx * mult
	p.VY = dy * mult

	log.Printf("[Pet] #%d thrown with velocity (%.0f, %.0f)", p.ID, p.VX, p.VY)
}
