package pet

import (
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teknisee/shimeji/pkg/anim"
	"github.com/teknisee/shimeji/pkg/boundary"
	"github.com/teknisee/shimeji/pkg/config"
)

// 状态机时长常量（秒）
const (
	// idleBehaviorDelay 待机多久后才允许自发行为
	idleBehaviorDelay = 3.0

	// sittingDuration 坐下状态的持续时长
	sittingDuration = 5.0

	// grabWallDelay 抓墙多久后开始攀爬
	grabWallDelay = 1.0

	// grabCeilingDelay 抓天花板多久后开始横爬
	grabCeilingDelay = 1.0

	// maxClimbDuration 最长攀爬时长，超时后体力耗尽松手
	maxClimbDuration = 10.0

	// specialActionTimeout 特殊动作的兜底超时
	specialActionTimeout = 3.0
)

// 运动常量
const (
	// climbSpeed 攀爬速度（像素/秒）
	climbSpeed = 25.0

	// ceilingThreshold 距天花板多近时结束攀爬（像素）
	ceilingThreshold = 40.0

	// walkArriveDistance 到达目标的判定距离（像素）
	walkArriveDistance = 10.0

	// walkDampDistance 接近目标开始减速的距离（像素）
	walkDampDistance = 50.0

	// walkDampFactor 减速区内每帧速度衰减
	walkDampFactor = 0.9

	// fallbackWalkSpeed 动画无速度数据时的步行速度（像素/秒）
	fallbackWalkSpeed = 60.0

	// fallbackRunSpeed 动画无速度数据时的奔跑速度（像素/秒）
	fallbackRunSpeed = 120.0

	// minWalkDuration, maxWalkDuration 单次行走的随机时长范围（秒）
	minWalkDuration = 1.0
	maxWalkDuration = 5.0
)

// 转向防抖常量
//
// 墙角处的碰撞每帧都会重新触发，没有冷却和锁定时宠物会
// 以帧率来回翻转朝向。
const (
	// DirectionCooldown 两次翻转朝向之间的最短间隔（秒）
	DirectionCooldown = 0.5

	// DirectionLockDuration 掉头后锁定朝向的时长（秒）
	DirectionLockDuration = 0.7
)

// pinchThresholds 拖拽时光标相对宠物中心的横向偏移阈值，
// 把偏移划分为 7 个捏取区域（选择不同的被抓精灵）
var pinchThresholds = [...]float64{-50, -30, -15, 15, 30, 50}

// PinchZoneFor 根据横向偏移计算捏取区域（0-6）
func PinchZoneFor(offset float64) int {
	zone := 0
	for _, t := range pinchThresholds {
		if offset >= t {
			zone++
		}
	}
	return zone
}

// Env 单帧更新环境
//
// 注册表每帧构造一次，所有宠物共享。物理参数来自
// PhysicsStore 的当前快照，设置开关来自设置管理器，
// 保证运行时修改下一帧即对所有宠物生效。
type Env struct {
	// Physics 当前物理参数快照
	Physics *config.PhysicsConfig

	// Bounds 已按当前屏幕尺寸解析的边界模型
	Bounds *boundary.Model

	// BoundariesEnabled 边界开关
	BoundariesEnabled bool

	// WallClimbing 爬墙开关
	WallClimbing bool
}

// Pet 一只宠物的全部状态
//
// 单个模拟线程独占访问：Update 和鼠标事件处理不得并发
// 调用。删除通过标记完成，在帧边界统一清除。
type Pet struct {
	// ID 注册表分配的唯一句柄
	ID ID

	// PackID 素材包标识
	PackID string

	// X, Y 碰撞矩形左上角（像素）
	X, Y float64

	// VX, VY 速度（像素/秒）
	VX, VY float64

	// TargetX, TargetY 行走/奔跑目标点（中心坐标）
	TargetX, TargetY float64

	// Width, Height 碰撞矩形尺寸
	Width, Height float64

	// FacingRight 朝向（true = 朝右）
	FacingRight bool

	// OnGround 是否站在地面
	OnGround bool

	// WallSide 贴附的墙壁侧
	WallSide WallSide

	// GravityEnabled 重力开关（拖拽和贴墙时关闭）
	GravityEnabled bool

	// State 当前状态
	State State

	// PrevState 上一个状态
	PrevState State

	// StateTimer 进入当前状态以来的时间（秒）
	StateTimer float64

	// Stats 心情数值与互动计数
	Stats Stats

	player   anim.Player
	selector *BehaviorSelector
	rng      *rand.Rand

	// sprite 本帧提交的精灵，渲染层读取
	sprite *ebiten.Image

	simTime           float64
	behaviorTimer     float64
	walkDuration      float64
	walkSpeedScale    float64
	lastFlipAt        float64
	dirLockTimer      float64
	lastInteractionAt float64
	lastRightClickAt  float64

	dragOffsetX float64
	dragOffsetY float64
	pinchOffset float64
	wallStuck   bool

	removed bool
}

// NewPet 创建宠物
//
// 参数:
//   - id: 注册表分配的句柄
//   - packID: 素材包标识
//   - x, y: 初始位置（碰撞矩形左上角）
//   - player: 动画播放器
//   - selector: 行为选择器
//   - rng: 随机源
func NewPet(id ID, packID string, x, y float64, player anim.Player, selector *BehaviorSelector, rng *rand.Rand) *Pet {
	p := &Pet{
		ID:             id,
		PackID:         packID,
		X:              x,
		Y:              y,
		Width:          config.DefaultPetWidth,
		Height:         config.DefaultPetHeight,
		FacingRight:    true,
		GravityEnabled: true,
		State:          StateIdle,
		PrevState:      StateIdle,
		Stats:          NewStats(),
		player:         player,
		selector:       selector,
		rng:            rng,
		// 互动和翻转的时间戳从负无穷开始：新宠物不享受互动
		// 加成，但第一次转向不受冷却限制
		lastInteractionAt: math.Inf(-1),
		lastRightClickAt:  math.Inf(-1),
		lastFlipAt:        math.Inf(-1),
	}
	p.behaviorTimer = selector.NextInterval()
	action, loop := StateIdle.ActionName()
	player.Play(action, loop)
	return p
}

// Rect 返回当前碰撞矩形
func (p *Pet) Rect() (x, y, w, h float64) {
	return p.X, p.Y, p.Width, p.Height
}

// CenterX 返回水平中心坐标
func (p *Pet) CenterX() float64 {
	return p.X + p.Width/2
}

// Sprite 返回本帧提交的精灵（可为 nil，渲染层画占位）
func (p *Pet) Sprite() *ebiten.Image {
	return p.sprite
}

// Player 返回动画播放器（渲染层查询朝向和占位帧）
func (p *Pet) Player() anim.Player {
	return p.player
}

// Removed 是否已被标记删除
func (p *Pet) Removed() bool {
	return p.removed
}

// MarkRemoved 标记删除，帧边界统一清除
func (p *Pet) MarkRemoved() {
	p.removed = true
}

// Update 推进一帧
//
// 固定顺序的八步管线，步骤间存在隐式依赖，不可重排：
// 计时 -> 物理积分 -> 碰撞查询 -> 碰撞解算 -> 状态行为 ->
// 动画速度 -> 数值衰减 -> 提交。
//
// 参数:
//   - dt: 固定时间步长（秒）
//   - env: 本帧更新环境
func (p *Pet) Update(dt float64, env Env) {
	// (1) 计时
	p.simTime += dt
	p.StateTimer += dt
	if p.dirLockTimer > 0 {
		p.dirLockTimer -= dt
	}

	// (2) 物理积分（拖拽中位置由鼠标事件直接控制）
	if p.State != StateDragging {
		p.applyPhysics(dt, env)
	}

	// (3)+(4) 碰撞查询与解算
	p.resolveCollisions(env)

	// (5) 状态行为
	p.stepState(dt, env)

	// (6) 动画推进与动画驱动速度
	p.applyAnimation(dt)

	// (7) 数值衰减
	p.Stats.Decay(dt, p.State, p.simTime-p.lastInteractionAt)

	// (8) 提交：位置即碰撞矩形，Rect() 直接由 X/Y 导出
}

// applyPhysics 重力、空气阻力和速度积分
func (p *Pet) applyPhysics(dt float64, env Env) {
	phys := env.Physics
	if p.GravityEnabled {
		p.VY += phys.Gravity * dt
		decay := 1.0 - phys.AirResistance*dt
		p.VX *= decay
		p.VY *= decay
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// resolveCollisions 边界碰撞解算
//
// 可能改写位置、速度和状态。拖拽中的钳制由鼠标移动事件
// 处理，此处跳过。
func (p *Pet) resolveCollisions(env Env) {
	if !env.BoundariesEnabled || p.State == StateDragging {
		return
	}

	col := env.Bounds.Collides(p.X, p.Y, p.Width, p.Height)
	if !col.Any() {
		return
	}
	b := env.Bounds.Current()
	phys := env.Physics

	// 地面
	if col.Ground && p.VY >= 0 {
		p.Y = b.GroundY - p.Height
		// 严格大于才反弹，恰好等于阈值按落稳处理
		if math.Abs(p.VY) > phys.MinBounceVelocity {
			p.VY = -p.VY * phys.BounceCoefficient
			if p.State != StateBouncing {
				p.transitionTo(StateBouncing)
			}
		} else {
			p.VY = 0
			p.OnGround = true
			switch p.State {
			case StateFalling, StateThrown, StateBouncing:
				p.transitionTo(StateIdle)
			}
		}
	}

	// 天花板（攀爬类状态自行处理与天花板的关系）
	if col.Ceiling && p.VY < 0 && !p.isClimbingState() {
		p.Y = b.CeilingY
		p.VY = 0
	}

	// 墙壁
	if col.Left || col.Right {
		p.resolveWallCollision(col, b, env)
	}
}

// resolveWallCollision 墙壁碰撞：抓墙或反弹掉头
func (p *Pet) resolveWallCollision(col boundary.Collision, b boundary.Bounds, env Env) {
	phys := env.Physics

	var side WallSide
	if col.Left {
		side = WallLeft
		p.X = b.LeftX
	} else {
		side = WallRight
		p.X = b.RightX - p.Width
	}

	// 已经在墙上的状态只需保持钳制
	if p.State == StateGrabWall || p.State == StateClimbWall {
		return
	}

	intoWall := (side == WallLeft && p.VX < 0) || (side == WallRight && p.VX > 0)
	airborne := !p.OnGround

	if airborne && env.WallClimbing && intoWall {
		p.WallSide = side
		p.Stats.WallClimbs++
		log.Printf("[Pet] #%d grabbed %s wall", p.ID, side)
		p.transitionTo(StateGrabWall)
		return
	}

	// 反弹并掉头
	p.VX = -p.VX * phys.BounceCoefficient
	if math.Abs(p.VX) < phys.MinBounceVelocity {
		p.VX = 0
	}
	p.turnAround(side, env)
}

// turnAround 撞墙后翻转朝向
//
// 翻转受冷却和方向锁双重约束，翻转成功后重新锁定方向，
// 并为行走中的宠物选一个背离墙壁的新目标。
func (p *Pet) turnAround(side WallSide, env Env) {
	wantRight := side == WallLeft
	if p.FacingRight == wantRight {
		return
	}
	if !p.canFlip() {
		return
	}

	p.FacingRight = wantRight
	p.lastFlipAt = p.simTime
	p.dirLockTimer = DirectionLockDuration
	p.player.SetFacing(wantRight)

	if p.State == StateWalking || p.State == StateRunning {
		p.pickMoveTarget(env)
	}
}

// canFlip 是否允许翻转朝向（冷却已过且无方向锁）
func (p *Pet) canFlip() bool {
	return p.simTime-p.lastFlipAt >= DirectionCooldown && p.dirLockTimer <= 0
}

// isClimbingState 是否处于攀爬相关状态
func (p *Pet) isClimbingState() bool {
	switch p.State {
	case StateGrabWall, StateClimbWall, StateGrabCeiling, StateClimbCeiling:
		return true
	}
	return false
}

// stepState 状态专属行为，对全部状态穷尽分支
func (p *Pet) stepState(dt float64, env Env) {
	switch p.State {
	case StateIdle:
		p.stepIdle(dt, env)
	case StateWalking, StateRunning:
		p.stepMove(env)
	case StateSitting:
		p.stepSitting(dt)
	case StateDragging:
		p.stepDragging()
	case StateFalling, StateThrown:
		// 防御性重申：下落和投掷中重力必须开启
		p.GravityEnabled = true
	case StateBouncing:
		p.GravityEnabled = true
	case StateGrabWall:
		p.stepGrabWall(env)
	case StateClimbWall:
		p.stepClimbWall(env)
	case StateGrabCeiling:
		p.stepGrabCeiling(env)
	case StateClimbCeiling:
		p.stepClimbCeiling(dt, env)
	case StatePose, StateEatBerry, StateThrowNeedle, StateWatch:
		p.stepSpecialAction()
	}
}

// stepIdle 待机：计时到点后掷一次行为决策
func (p *Pet) stepIdle(dt float64, env Env) {
	p.GravityEnabled = true

	p.behaviorTimer -= dt
	if p.StateTimer <= idleBehaviorDelay || p.behaviorTimer > 0 {
		return
	}
	p.behaviorTimer = p.selector.NextInterval()

	next, ok := p.selector.Pick(&p.Stats)
	if !ok {
		return
	}
	p.applyBehavior(next, env)
}

// applyBehavior 执行行为选择器的决策
func (p *Pet) applyBehavior(next State, env Env) {
	switch next {
	case StateWalking, StateRunning:
		p.startMove(next == StateRunning, env)
	case StateGrabWall:
		// 只有贴着墙且允许爬墙时才能直接抓墙，否则改为散步
		if env.WallClimbing && p.adjacentWall(env) != WallNone {
			p.WallSide = p.adjacentWall(env)
			p.OnGround = false
			p.Stats.WallClimbs++
			p.transitionTo(StateGrabWall)
		} else {
			p.startMove(false, env)
		}
	default:
		p.transitionTo(next)
	}
}

// adjacentWall 返回紧贴的墙壁侧（不贴墙返回 WallNone）
func (p *Pet) adjacentWall(env Env) WallSide {
	b := env.Bounds.Current()
	if p.X-b.LeftX <= walkArriveDistance {
		return WallLeft
	}
	if b.RightX-(p.X+p.Width) <= walkArriveDistance {
		return WallRight
	}
	return WallNone
}

// startMove 开始一次行走或奔跑
//
// 行走时长在 [1, 5] 秒间随机抽取，超时与到达、动画完成
// 一样都会结束本次行走。
func (p *Pet) startMove(run bool, env Env) {
	next := StateWalking
	if run {
		next = StateRunning
	}
	p.transitionTo(next)
	p.walkDuration = minWalkDuration + (maxWalkDuration-minWalkDuration)*p.rng.Float64()
	p.walkSpeedScale = 1.0
	p.pickMoveTarget(env)
}

// pickMoveTarget 在当前朝向一侧选一个随机目标点
func (p *Pet) pickMoveTarget(env Env) {
	b := env.Bounds.Current()
	center := p.CenterX()

	var lo, hi float64
	if p.FacingRight {
		lo, hi = center, b.RightX-p.Width/2
	} else {
		lo, hi = b.LeftX+p.Width/2, center
	}
	if hi <= lo {
		// 已经贴边，朝另一侧走
		if p.canFlip() {
			p.FacingRight = !p.FacingRight
			p.lastFlipAt = p.simTime
			p.player.SetFacing(p.FacingRight)
		}
		if p.FacingRight {
			lo, hi = center, b.RightX-p.Width/2
		} else {
			lo, hi = b.LeftX+p.Width/2, center
		}
		if hi <= lo {
			lo, hi = center, center
		}
	}

	p.TargetX = lo + (hi-lo)*p.rng.Float64()
	p.TargetY = p.Y
}

// stepMove 行走/奔跑：到达、动画完成或超时后回到待机
func (p *Pet) stepMove(env Env) {
	p.GravityEnabled = true

	dist := math.Abs(p.CenterX() - p.TargetX)
	if dist < walkArriveDistance || p.player.IsCompleted() || p.StateTimer >= p.walkDuration {
		p.Stats.WalksTaken++
		p.transitionTo(StateIdle)
		return
	}
	if dist < walkDampDistance {
		p.walkSpeedScale *= walkDampFactor
	}
}

// stepSitting 坐下：恢复精力，超时后起身
func (p *Pet) stepSitting(dt float64) {
	// 防御性重申坐姿不受重力和惯性影响
	p.GravityEnabled = false
	p.OnGround = true
	p.VX = 0
	p.VY = 0

	p.Stats.AddEnergy(sittingEnergyRegenRate * dt)

	if p.StateTimer > sittingDuration {
		p.transitionTo(StateIdle)
	}
}

// stepDragging 拖拽：位置由鼠标控制，这里只维护不变量和捏取区域
func (p *Pet) stepDragging() {
	// 防御性重申：拖拽中不受重力，速度清零
	p.GravityEnabled = false
	p.VX = 0
	p.VY = 0

	p.player.SetPinchZone(PinchZoneFor(p.pinchOffset))
}

// stepGrabWall 抓墙：稳定一段时间后开始攀爬
func (p *Pet) stepGrabWall(env Env) {
	p.GravityEnabled = false
	p.VX = 0
	p.VY = 0

	if p.WallSide == WallNone {
		// 不可能组合，修复后脱落
		log.Printf("[Pet] #%d in GrabWall without wall side, falling", p.ID)
		p.fallOffWall()
		return
	}

	if p.StateTimer > grabWallDelay {
		if env.WallClimbing {
			p.transitionTo(StateClimbWall)
		} else {
			p.fallOffWall()
		}
	}
}

// stepClimbWall 爬墙：固定速度向上，接近天花板/失去接触/爬累了后脱落
func (p *Pet) stepClimbWall(env Env) {
	p.GravityEnabled = false
	p.VX = 0
	p.VY = -climbSpeed

	b := env.Bounds.Current()
	col := env.Bounds.Collides(p.X, p.Y, p.Width, p.Height)
	contact := (p.WallSide == WallLeft && col.Left) || (p.WallSide == WallRight && col.Right)

	switch {
	case p.Y <= b.CeilingY+ceilingThreshold:
		p.fallOffWall()
	case !contact:
		p.fallOffWall()
	case p.StateTimer > maxClimbDuration:
		log.Printf("[Pet] #%d got tired of climbing", p.ID)
		p.fallOffWall()
	}
}

// stepGrabCeiling 抓天花板：稳定一段时间后开始横爬
//
// 天花板状态只能从持久化快照恢复进入（爬墙到顶按规则
// 直接脱落），恢复后的行为仍需完整。
func (p *Pet) stepGrabCeiling(env Env) {
	p.GravityEnabled = false
	p.VX = 0
	p.VY = 0
	p.Y = env.Bounds.Current().CeilingY

	if p.StateTimer > grabCeilingDelay {
		p.transitionTo(StateClimbCeiling)
	}
}

// stepClimbCeiling 沿天花板横爬：撞墙或爬累了后脱落
func (p *Pet) stepClimbCeiling(dt float64, env Env) {
	p.GravityEnabled = false
	p.VY = 0
	p.Y = env.Bounds.Current().CeilingY

	dir := -1.0
	if p.FacingRight {
		dir = 1.0
	}
	p.VX = dir * climbSpeed

	col := env.Bounds.Collides(p.X, p.Y, p.Width, p.Height)
	if col.Left || col.Right || p.StateTimer > maxClimbDuration {
		p.fallOffWall()
	}
}

// fallOffWall 脱离墙壁/天花板进入下落
func (p *Pet) fallOffWall() {
	p.WallSide = WallNone
	p.GravityEnabled = true
	p.VX = 0
	p.VY = 0
	p.transitionTo(StateFalling)
}

// stepSpecialAction 特殊动作：动画完成或超时后回到待机
func (p *Pet) stepSpecialAction() {
	p.GravityEnabled = true
	p.VX = 0
	p.VY = 0

	if p.player.IsCompleted() || p.StateTimer > specialActionTimeout {
		if p.State != StateWatch {
			p.Stats.SpecialActions++
		}
		p.transitionTo(StateIdle)
	}
}

// applyAnimation 推进动画并应用动画驱动速度
//
// 素材包的帧速度按朝左的原始素材记录，朝右时取反。
// 动画速度只在行走/奔跑状态下生效，且不叠加到物理速度上。
func (p *Pet) applyAnimation(dt float64) {
	sprite, avx, avy := p.player.Update(dt)
	p.sprite = sprite

	if p.State != StateWalking && p.State != StateRunning {
		return
	}

	speed := math.Abs(avx)
	if speed == 0 {
		// 无动画速度数据时退回固定步速
		speed = fallbackWalkSpeed
		if p.State == StateRunning {
			speed = fallbackRunSpeed
		}
	}

	dir := -1.0
	if p.FacingRight {
		dir = 1.0
	}
	p.X += dir * speed * p.walkSpeedScale * dt
	p.Y += avy * dt
}

// transitionTo 切换状态并执行进入动作
func (p *Pet) transitionTo(next State) {
	if p.State == next {
		return
	}

	p.PrevState = p.State
	p.State = next
	p.StateTimer = 0

	action, loop := next.ActionName()
	p.player.Play(action, loop)
	p.enterState(next)

	log.Printf("[Pet] #%d %s -> %s", p.ID, p.PrevState, p.State)
}

// enterState 状态进入时的一次性设置
func (p *Pet) enterState(next State) {
	switch next {
	case StateIdle:
		p.GravityEnabled = true
		p.VX = 0
	case StateWalking, StateRunning:
		p.GravityEnabled = true
		p.VX = 0
		p.VY = 0
		p.walkSpeedScale = 1.0
	case StateSitting:
		p.GravityEnabled = false
		p.OnGround = true
		p.VX = 0
		p.VY = 0
	case StateDragging:
		p.GravityEnabled = false
		p.VX = 0
		p.VY = 0
		p.OnGround = false
		p.WallSide = WallNone
	case StateFalling, StateThrown, StateBouncing:
		p.GravityEnabled = true
		p.OnGround = false
	case StateGrabWall:
		p.GravityEnabled = false
		p.OnGround = false
		p.VX = 0
		p.VY = 0
	case StateClimbWall:
		p.GravityEnabled = false
		p.VX = 0
		p.VY = -climbSpeed
	case StateGrabCeiling, StateClimbCeiling:
		p.GravityEnabled = false
		p.OnGround = false
		p.VX = 0
		p.VY = 0
	case StatePose, StateEatBerry, StateThrowNeedle, StateWatch:
		p.VX = 0
		p.VY = 0
	}
}
