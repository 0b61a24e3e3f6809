// Package boundary 提供屏幕边界模型
//
// 边界（左墙、右墙、地面、天花板）以屏幕宽高的百分比配置，
// 解析为像素坐标后用于碰撞查询和位置钳制。
package boundary

// Bounds 解析后的边界像素坐标
//
// 由 Model.Resolve 根据百分比和屏幕尺寸计算得到。
// 坐标系以屏幕左上角为原点，Y 轴向下。
type Bounds struct {
	// LeftX 左墙X坐标
	LeftX float64

	// RightX 右墙X坐标
	RightX float64

	// GroundY 地面Y坐标
	GroundY float64

	// CeilingY 天花板Y坐标
	CeilingY float64
}

// Collision 单次碰撞查询的结果
//
// 四个方向相互独立：矩形位于角落时可以同时触发两个方向。
type Collision struct {
	Left    bool
	Right   bool
	Ground  bool
	Ceiling bool
}

// Any 是否至少有一个方向发生碰撞
func (c Collision) Any() bool {
	return c.Left || c.Right || c.Ground || c.Ceiling
}

// Model 百分比边界模型
//
// 保存四个边界百分比（0-100），并缓存最近一次 Resolve 的结果。
// 百分比或屏幕尺寸变化后必须重新调用 Resolve，缓存不会自动失效。
type Model struct {
	// LeftPercent 左墙位置（屏幕宽度百分比）
	LeftPercent float64

	// RightPercent 右墙位置（屏幕宽度百分比）
	RightPercent float64

	// GroundPercent 地面位置（屏幕高度百分比）
	GroundPercent float64

	// CeilingPercent 天花板位置（屏幕高度百分比）
	CeilingPercent float64

	bounds Bounds
}

// NewModel 创建边界模型
//
// 参数:
//   - left, right: 左右墙百分比，要求 left < right
//   - ground, ceiling: 地面和天花板百分比，要求 ceiling < ground
//
// 百分比合法性由配置层的 Validate 保证，此处不重复校验。
func NewModel(left, right, ground, ceiling float64) *Model {
	return &Model{
		LeftPercent:    left,
		RightPercent:   right,
		GroundPercent:  ground,
		CeilingPercent: ceiling,
	}
}

// Resolve 将百分比解析为像素坐标
//
// 纯函数：相同输入产生完全相同的输出。结果同时缓存在模型内，
// 供后续 Collides / Clamp 使用。
//
// 参数:
//   - screenW, screenH: 屏幕宽高（像素）
//
// 返回:
//   - Bounds: 解析后的边界像素坐标
func (m *Model) Resolve(screenW, screenH float64) Bounds {
	m.bounds = Bounds{
		LeftX:    screenW * m.LeftPercent / 100.0,
		RightX:   screenW * m.RightPercent / 100.0,
		GroundY:  screenH * m.GroundPercent / 100.0,
		CeilingY: screenH * m.CeilingPercent / 100.0,
	}
	return m.bounds
}

// Current 返回最近一次 Resolve 的结果
func (m *Model) Current() Bounds {
	return m.bounds
}

// Collides 查询矩形与各边界的碰撞情况
//
// 使用最近一次 Resolve 的边界。恰好位于边界线上视为碰撞
// （比较使用 >= / <=，不是严格不等）。
//
// 参数:
//   - x, y: 矩形左上角坐标
//   - w, h: 矩形宽高
func (m *Model) Collides(x, y, w, h float64) Collision {
	return m.bounds.Collides(x, y, w, h)
}

// Clamp 将矩形钳制到边界内部
//
// 用于边界开关切换后把已越界的宠物拉回范围内。
//
// 返回:
//   - 钳制后的左上角坐标 (x', y')
func (m *Model) Clamp(x, y, w, h float64) (float64, float64) {
	return m.bounds.Clamp(x, y, w, h)
}

// Collides 查询矩形与各边界的碰撞情况
func (b Bounds) Collides(x, y, w, h float64) Collision {
	return Collision{
		Left:    x <= b.LeftX,
		Right:   x+w >= b.RightX,
		Ground:  y+h >= b.GroundY,
		Ceiling: y <= b.CeilingY,
	}
}

// Clamp 将矩形钳制到边界内部
func (b Bounds) Clamp(x, y, w, h float64) (float64, float64) {
	if x < b.LeftX {
		x = b.LeftX
	}
	if x+w > b.RightX {
		x = b.RightX - w
	}
	if y < b.CeilingY {
		y = b.CeilingY
	}
	if y+h > b.GroundY {
		y = b.GroundY - h
	}
	return x, y
}
