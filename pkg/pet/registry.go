package pet

import (
	"log"
	"math/rand"

	"github.com/teknisee/shimeji/internal/shimeji"
	"github.com/teknisee/shimeji/pkg/anim"
	"github.com/teknisee/shimeji/pkg/boundary"
	"github.com/teknisee/shimeji/pkg/config"
)

// ID 宠物句柄
type ID uint64

// PlayerFactory 按素材包创建动画播放器
type PlayerFactory func(packID string) anim.Player

// Info 对外暴露的宠物概要信息
type Info struct {
	ID     ID
	PackID string
	State  string
	X, Y   float64
	Stats  Stats
}

// Registry 宠物集合
//
// 持有全部存活宠物并每帧推进它们。删除采用标记清除：
// 更新迭代中只标记，帧末统一清除，保证更新中途请求删除
// 不会破坏正在迭代的集合。
type Registry struct {
	pets   []*Pet
	nextID ID

	physics   *config.PhysicsStore
	bounds    *boundary.Model
	newPlayer PlayerFactory
	rng       *rand.Rand

	screenW, screenH float64

	weights           map[State]int
	behaviorFrequency int
	boundariesEnabled bool
	wallClimbing      bool

	// draggedID 当前被拖拽的宠物，0 表示没有
	draggedID ID

	// 拖拽位移记录，松手时换算投掷速度
	lastCursorX, lastCursorY float64
	lastDragDX, lastDragDY   float64
}

// NewRegistry 创建宠物注册表
//
// 参数:
//   - physics: 物理参数容器
//   - bounds: 边界模型（注册表负责按屏幕尺寸解析）
//   - newPlayer: 动画播放器工厂
//   - frequency: 行为频率（10-100）
//   - rng: 随机源
func NewRegistry(physics *config.PhysicsStore, bounds *boundary.Model, newPlayer PlayerFactory, frequency int, rng *rand.Rand) *Registry {
	return &Registry{
		pets:              make([]*Pet, 0, 8),
		nextID:            1,
		physics:           physics,
		bounds:            bounds,
		newPlayer:         newPlayer,
		rng:               rng,
		behaviorFrequency: frequency,
		boundariesEnabled: true,
		wallClimbing:      true,
	}
}

// SetScreenSize 更新屏幕尺寸并重新解析边界
//
// 必须在下一次碰撞查询前调用（分辨率变化时由主循环保证）。
func (r *Registry) SetScreenSize(w, h float64) {
	if w == r.screenW && h == r.screenH {
		return
	}
	r.screenW = w
	r.screenH = h
	r.bounds.Resolve(w, h)
}

// SetBoundariesEnabled 切换边界开关
//
// 重新开启时把已越界的宠物钳制回边界内。
func (r *Registry) SetBoundariesEnabled(enabled bool) {
	if enabled && !r.boundariesEnabled {
		for _, p := range r.pets {
			p.X, p.Y = r.bounds.Clamp(p.X, p.Y, p.Width, p.Height)
		}
	}
	r.boundariesEnabled = enabled
}

// SetWallClimbing 切换爬墙开关
func (r *Registry) SetWallClimbing(enabled bool) {
	r.wallClimbing = enabled
}

// SetBehaviorFrequency 更新行为频率（立即对所有宠物生效）
func (r *Registry) SetBehaviorFrequency(frequency int) {
	r.behaviorFrequency = frequency
	for _, p := range r.pets {
		p.selector.SetFrequency(frequency)
	}
}

// SetBoundaryPercents 更新边界百分比并重新解析
func (r *Registry) SetBoundaryPercents(left, right, ground, ceiling float64) {
	r.bounds.LeftPercent = left
	r.bounds.RightPercent = right
	r.bounds.GroundPercent = ground
	r.bounds.CeilingPercent = ceiling
	r.bounds.Resolve(r.screenW, r.screenH)
}

// env 构造本帧更新环境
func (r *Registry) env() Env {
	return Env{
		Physics:           r.physics.Get(),
		Bounds:            r.bounds,
		BoundariesEnabled: r.boundariesEnabled,
		WallClimbing:      r.wallClimbing,
	}
}

// Spawn 生成一只宠物
//
// 坐标可省略：x 省略时居中，y 省略时落在地面上。
//
// 参数:
//   - packID: 素材包标识
//   - x, y: 初始位置，nil 使用默认值
//
// 返回:
//   - ID: 新宠物的句柄
func (r *Registry) Spawn(packID string, x, y *float64) ID {
	b := r.bounds.Current()

	px := (r.screenW - config.DefaultPetWidth) / 2
	if x != nil {
		px = *x
	}
	py := b.GroundY - config.DefaultPetHeight
	if y != nil {
		py = *y
	}

	id := r.nextID
	r.nextID++

	selector := NewBehaviorSelector(r.weights, r.behaviorFrequency, r.rng)
	p := NewPet(id, packID, px, py, r.newPlayer(packID), selector, r.rng)
	if py == b.GroundY-config.DefaultPetHeight {
		p.OnGround = true
	}
	r.pets = append(r.pets, p)

	log.Printf("[PetRegistry] Spawned pet #%d (pack '%s') at (%.0f, %.0f)", id, packID, px, py)
	return id
}

// SetBehaviorWeights 设置新生成宠物的行为权重表
//
// 通常从素材包 behaviors.xml 导出（见 WeightsFromPack）。
func (r *Registry) SetBehaviorWeights(weights map[State]int) {
	r.weights = weights
}

// WeightsFromPack 从素材包行为表导出选择器权重
//
// 行为名与动作名同名约定：Walk/Run/Sit/Pose/EatBerry/
// ThrowNeedle/Watch/GrabWall。隐藏的和零频率的行为跳过，
// 没有任何可用行为时返回 nil（使用默认权重）。
func WeightsFromPack(behaviors map[string]*shimeji.BehaviorData) map[State]int {
	nameToState := map[string]State{
		"Walk":        StateWalking,
		"Run":         StateRunning,
		"Sit":         StateSitting,
		"Pose":        StatePose,
		"EatBerry":    StateEatBerry,
		"ThrowNeedle": StateThrowNeedle,
		"Watch":       StateWatch,
		"GrabWall":    StateGrabWall,
	}

	weights := make(map[State]int)
	for name, b := range behaviors {
		state, ok := nameToState[name]
		if !ok || b.Hidden || b.Frequency <= 0 {
			continue
		}
		weights[state] = b.Frequency
	}
	if len(weights) == 0 {
		return nil
	}
	return weights
}

// Remove 标记删除指定宠物
func (r *Registry) Remove(id ID) bool {
	for _, p := range r.pets {
		if p.ID == id && !p.Removed() {
			p.MarkRemoved()
			return true
		}
	}
	return false
}

// RemoveAll 标记删除全部宠物，返回标记数量
func (r *Registry) RemoveAll() int {
	count := 0
	for _, p := range r.pets {
		if !p.Removed() {
			p.MarkRemoved()
			count++
		}
	}
	return count
}

// Count 当前存活宠物数量
func (r *Registry) Count() int {
	count := 0
	for _, p := range r.pets {
		if !p.Removed() {
			count++
		}
	}
	return count
}

// List 返回全部存活宠物的概要信息
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.pets))
	for _, p := range r.pets {
		if p.Removed() {
			continue
		}
		infos = append(infos, Info{
			ID:     p.ID,
			PackID: p.PackID,
			State:  p.State.String(),
			X:      p.X,
			Y:      p.Y,
			Stats:  p.Stats,
		})
	}
	return infos
}

// Pets 返回存活宠物切片（渲染层按生成顺序绘制）
//
// 调用方不得在迭代期间增删宠物。
func (r *Registry) Pets() []*Pet {
	alive := make([]*Pet, 0, len(r.pets))
	for _, p := range r.pets {
		if !p.Removed() {
			alive = append(alive, p)
		}
	}
	return alive
}

// Update 推进一帧并清除被标记的宠物
//
// 标记在迭代中积累，清除只发生在这里（帧边界）。
func (r *Registry) Update(dt float64) {
	env := r.env()
	for _, p := range r.pets {
		if !p.Removed() {
			p.Update(dt, env)
		}
	}
	r.sweep()
}

// sweep 清除被标记删除的宠物
func (r *Registry) sweep() {
	alive := r.pets[:0]
	for _, p := range r.pets {
		if p.Removed() {
			if p.ID == r.draggedID {
				r.draggedID = 0
			}
			log.Printf("[PetRegistry] Removed pet #%d", p.ID)
			continue
		}
		alive = append(alive, p)
	}
	r.pets = alive
}

// HandleMouseDown 分发鼠标按下事件
//
// 从最后生成的（画在最上层的）宠物开始命中测试，第一个
// 命中者消费事件。双击删除在这里直接标记。
//
// 返回:
//   - ID: 消费事件的宠物，0 表示没有命中
//   - InteractionResult: 处理结果
func (r *Registry) HandleMouseDown(x, y float64, button MouseButton) (ID, InteractionResult) {
	for i := len(r.pets) - 1; i >= 0; i-- {
		p := r.pets[i]
		if p.Removed() {
			continue
		}
		result := p.OnMouseDown(x, y, button)
		if !result.Hit {
			continue
		}
		if result.StartedDrag {
			r.draggedID = p.ID
			r.lastCursorX, r.lastCursorY = x, y
			r.lastDragDX, r.lastDragDY = 0, 0
		}
		if result.Kill {
			p.MarkRemoved()
		}
		return p.ID, result
	}
	return 0, InteractionResult{}
}

// HandleMouseMotion 分发鼠标移动事件到被拖拽的宠物
func (r *Registry) HandleMouseMotion(x, y float64) {
	if r.draggedID == 0 {
		return
	}
	p := r.find(r.draggedID)
	if p == nil {
		r.draggedID = 0
		return
	}

	r.lastDragDX = x - r.lastCursorX
	r.lastDragDY = y - r.lastCursorY
	r.lastCursorX, r.lastCursorY = x, y

	p.OnMouseMotion(x, y, r.env())
}

// HandleMouseUp 分发鼠标松开事件
//
// 投掷速度使用最近一次移动事件记录的位移。
func (r *Registry) HandleMouseUp(button MouseButton) {
	if button != MouseLeft || r.draggedID == 0 {
		return
	}
	p := r.find(r.draggedID)
	r.draggedID = 0
	if p == nil {
		return
	}
	p.OnMouseUp(button, r.lastDragDX, r.lastDragDY, r.env())
}

// SerializeAll 导出全部存活宠物的快照
func (r *Registry) SerializeAll() []Snapshot {
	snapshots := make([]Snapshot, 0, len(r.pets))
	for _, p := range r.pets {
		if !p.Removed() {
			snapshots = append(snapshots, p.Snapshot())
		}
	}
	return snapshots
}

// RestoreAll 从快照恢复宠物
//
// 逐条恢复，单条失败（未知状态等）不影响其余记录。
//
// 返回:
//   - int: 成功恢复的数量
func (r *Registry) RestoreAll(snapshots []Snapshot) int {
	count := 0
	for _, s := range snapshots {
		id := r.Spawn(s.PackID, &s.X, &s.Y)
		p := r.find(id)
		if p == nil {
			continue
		}
		p.applySnapshot(s)
		count++
	}
	log.Printf("[PetRegistry] Restored %d/%d pets", count, len(snapshots))
	return count
}

// find 按句柄查找存活宠物
func (r *Registry) find(id ID) *Pet {
	for _, p := range r.pets {
		if p.ID == id && !p.Removed() {
			return p
		}
	}
	return nil
}
