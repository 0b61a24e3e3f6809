package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PhysicsConfig 宠物物理参数配置
//
// 所有存活的宠物每帧都读取同一份物理参数，运行时修改
// 对所有宠物立即生效（通过 game.PhysicsStore 原子替换）。
//
// 配置文件位置: data/physics.yaml
type PhysicsConfig struct {
	// Gravity 重力加速度（像素/秒²），向下为正
	Gravity float64 `yaml:"gravity"`

	// AirResistance 空气阻力系数（0-1，每秒速度衰减比例）
	AirResistance float64 `yaml:"airResistance"`

	// BounceCoefficient 反弹系数（0-1，碰撞后保留的速度比例）
	BounceCoefficient float64 `yaml:"bounceCoefficient"`

	// MinBounceVelocity 最小反弹速度（像素/秒）
	// 落地速度低于此值时直接落稳，不进入反弹状态
	MinBounceVelocity float64 `yaml:"minBounceVelocity"`

	// ThrowMultiplier 拖拽投掷速度倍数
	// 松手时记录的鼠标位移乘以此系数得到投掷初速度
	ThrowMultiplier float64 `yaml:"throwMultiplier"`
}

// DefaultPhysicsConfig 返回默认物理参数
func DefaultPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{
		Gravity:           800.0,
		AirResistance:     0.02,
		BounceCoefficient: 0.6,
		MinBounceVelocity: 50.0,
		ThrowMultiplier:   6.0,
	}
}

// LoadPhysicsConfig 加载物理参数配置
//
// 从指定路径加载 YAML 格式的物理参数配置文件。
//
// 参数:
//   - path: 配置文件路径（如 "data/physics.yaml"）
//
// 返回:
//   - *PhysicsConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadPhysicsConfig(path string) (*PhysicsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read physics config: %w", err)
	}

	var config PhysicsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse physics config: %w", err)
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics config: %w", err)
	}

	return &config, nil
}

// Validate 验证配置有效性
//
// 检查各参数是否在合理范围内：
//   - 重力必须为正
//   - 空气阻力和反弹系数必须在 [0, 1] 内
//   - 最小反弹速度和投掷倍数不能为负
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *PhysicsConfig) Validate() error {
	if c.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %.1f", c.Gravity)
	}
	if c.AirResistance < 0 || c.AirResistance > 1 {
		return fmt.Errorf("airResistance must be in [0, 1], got %.3f", c.AirResistance)
	}
	if c.BounceCoefficient < 0 || c.BounceCoefficient > 1 {
		return fmt.Errorf("bounceCoefficient must be in [0, 1], got %.3f", c.BounceCoefficient)
	}
	if c.MinBounceVelocity < 0 {
		return fmt.Errorf("minBounceVelocity must be >= 0, got %.1f", c.MinBounceVelocity)
	}
	if c.ThrowMultiplier < 0 {
		return fmt.Errorf("throwMultiplier must be >= 0, got %.1f", c.ThrowMultiplier)
	}
	return nil
}
