// Package pet 实现宠物状态机核心
//
// 每只宠物是一个封闭枚举状态机，按固定 30Hz 时间步推进：
// 连续物理（重力、空气阻力、反弹、投掷）与离散的动画驱动
// 运动在同一条固定顺序的更新管线中合成。鼠标交互、行为
// 选择和宠物集合管理也在本包内。
package pet

import "fmt"

// State 宠物状态
//
// 封闭枚举：更新管线对所有状态做穷尽分支，新增状态必须
// 同时扩展 stepState 和动作映射表。
type State int

const (
	// StateIdle 站立待机，初始状态
	StateIdle State = iota

	// StateWalking 步行到目标点
	StateWalking

	// StateRunning 跑向目标点
	StateRunning

	// StateSitting 坐下休息，恢复精力
	StateSitting

	// StateDragging 被鼠标按住拖拽
	StateDragging

	// StateFalling 自由下落
	StateFalling

	// StateThrown 被投掷后的飞行
	StateThrown

	// StateBouncing 落地反弹
	StateBouncing

	// StateGrabWall 抓住墙壁
	StateGrabWall

	// StateClimbWall 沿墙壁向上爬
	StateClimbWall

	// StateGrabCeiling 抓住天花板
	StateGrabCeiling

	// StateClimbCeiling 沿天花板横向爬行
	StateClimbCeiling

	// StatePose 摆姿势（特殊动作）
	StatePose

	// StateEatBerry 吃浆果（特殊动作）
	StateEatBerry

	// StateThrowNeedle 扔飞针（特殊动作）
	StateThrowNeedle

	// StateWatch 张望（特殊动作，不计入特殊动作计数）
	StateWatch
)

// stateTags 状态的持久化标签，保存/恢复时使用
var stateTags = map[State]string{
	StateIdle:         "idle",
	StateWalking:      "walking",
	StateRunning:      "running",
	StateSitting:      "sitting",
	StateDragging:     "dragging",
	StateFalling:      "falling",
	StateThrown:       "thrown",
	StateBouncing:     "bouncing",
	StateGrabWall:     "grab_wall",
	StateClimbWall:    "climb_wall",
	StateGrabCeiling:  "grab_ceiling",
	StateClimbCeiling: "climb_ceiling",
	StatePose:         "pose",
	StateEatBerry:     "eat_berry",
	StateThrowNeedle:  "throw_needle",
	StateWatch:        "watch",
}

// stateActions 状态到素材包动作名的映射，以及是否循环播放
var stateActions = map[State]struct {
	action string
	loop   bool
}{
	StateIdle:         {"Stand", true},
	StateWalking:      {"Walk", true},
	StateRunning:      {"Run", true},
	StateSitting:      {"Sit", true},
	StateDragging:     {"Pinched", true},
	StateFalling:      {"Fall", true},
	StateThrown:       {"Thrown", true},
	StateBouncing:     {"Bounce", true},
	StateGrabWall:     {"GrabWall", true},
	StateClimbWall:    {"ClimbWall", true},
	StateGrabCeiling:  {"GrabCeiling", true},
	StateClimbCeiling: {"ClimbCeiling", true},
	StatePose:         {"Pose", false},
	StateEatBerry:     {"EatBerry", false},
	StateThrowNeedle:  {"ThrowNeedle", false},
	StateWatch:        {"Watch", false},
}

// String 返回状态的持久化标签
func (s State) String() string {
	if tag, ok := stateTags[s]; ok {
		return tag
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState 从持久化标签还原状态
//
// 未知标签返回 StateIdle 和 false，调用方记录日志后继续，
// 单条损坏记录不中断整体恢复。
func ParseState(tag string) (State, bool) {
	for state, t := range stateTags {
		if t == tag {
			return state, true
		}
	}
	return StateIdle, false
}

// ActionName 返回状态对应的素材包动作名和循环标志
func (s State) ActionName() (string, bool) {
	entry := stateActions[s]
	return entry.action, entry.loop
}

// IsSpecialAction 是否为特殊动作状态
func (s State) IsSpecialAction() bool {
	switch s {
	case StatePose, StateEatBerry, StateThrowNeedle, StateWatch:
		return true
	}
	return false
}

// WallSide 宠物贴附的墙壁侧
type WallSide int

const (
	// WallNone 未贴墙
	WallNone WallSide = iota

	// WallLeft 贴左墙
	WallLeft

	// WallRight 贴右墙
	WallRight
)

// wallSideTags 墙壁侧的持久化标签
var wallSideTags = map[WallSide]string{
	WallNone:  "none",
	WallLeft:  "left",
	WallRight: "right",
}

// String 返回墙壁侧的持久化标签
func (w WallSide) String() string {
	if tag, ok := wallSideTags[w]; ok {
		return tag
	}
	return "none"
}

// ParseWallSide 从持久化标签还原墙壁侧，未知标签返回 WallNone
func ParseWallSide(tag string) WallSide {
	for side, t := range wallSideTags {
		if t == tag {
			return side
		}
	}
	return WallNone
}
