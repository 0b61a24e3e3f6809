// Package config 提供宠物模拟的配置结构和全局常量
//
// 配置分为两类：
//   - YAML 文件配置（物理参数、边界百分比），带 Validate 校验
//   - 编译期常量（帧率、交互时间窗口等）
package config

import "time"

// 模拟时序常量
const (
	// TargetFPS 固定模拟帧率
	TargetFPS = 30

	// FixedDeltaTime 每帧固定时间步长（秒）
	FixedDeltaTime = 1.0 / float64(TargetFPS)
)

// 交互常量
const (
	// DoubleClickTimeout 右键双击判定窗口
	DoubleClickTimeout = 500 * time.Millisecond

	// ScreenMargin 生成位置距屏幕边缘的安全边距（像素）
	ScreenMargin = 200
)

// 宠物尺寸常量
const (
	// DefaultPetWidth 默认宠物碰撞矩形宽度（像素）
	DefaultPetWidth = 128

	// DefaultPetHeight 默认宠物碰撞矩形高度（像素）
	DefaultPetHeight = 128
)

// 行为频率范围
//
// 用户配置的行为频率是 10-100 的整数，数值越大
// 空闲宠物自发选择新行为的平均间隔越短。
const (
	MinBehaviorFrequency = 10
	MaxBehaviorFrequency = 100
)
