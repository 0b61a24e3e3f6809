package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BoundaryConfig 屏幕边界配置
//
// 四个边界以屏幕宽高的百分比表示，由 boundary.Model 解析为
// 像素坐标。校验保证左墙在右墙左侧、天花板在地面上方，
// 宠物核心永远不会收到交叉的边界值。
//
// 配置文件位置: data/boundary.yaml
type BoundaryConfig struct {
	// Enabled 边界开关，关闭时宠物可自由越过屏幕边缘
	Enabled bool `yaml:"enabled"`

	// LeftPercent 左墙位置（屏幕宽度百分比，0-100）
	LeftPercent float64 `yaml:"leftPercent"`

	// RightPercent 右墙位置（屏幕宽度百分比，0-100）
	RightPercent float64 `yaml:"rightPercent"`

	// GroundPercent 地面位置（屏幕高度百分比，0-100）
	GroundPercent float64 `yaml:"groundPercent"`

	// CeilingPercent 天花板位置（屏幕高度百分比，0-100）
	CeilingPercent float64 `yaml:"ceilingPercent"`
}

// DefaultBoundaryConfig 返回默认边界配置
func DefaultBoundaryConfig() *BoundaryConfig {
	return &BoundaryConfig{
		Enabled:        true,
		LeftPercent:    0,
		RightPercent:   100,
		GroundPercent:  100,
		CeilingPercent: 0,
	}
}

// LoadBoundaryConfig 加载边界配置
//
// 参数:
//   - path: 配置文件路径（如 "data/boundary.yaml"）
//
// 返回:
//   - *BoundaryConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadBoundaryConfig(path string) (*BoundaryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary config: %w", err)
	}

	var config BoundaryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse boundary config: %w", err)
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid boundary config: %w", err)
	}

	return &config, nil
}

// Validate 验证配置有效性
//
// 检查各百分比是否在 [0, 100] 内，且边界对不交叉：
//   - LeftPercent < RightPercent
//   - CeilingPercent < GroundPercent
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *BoundaryConfig) Validate() error {
	percents := []struct {
		name  string
		value float64
	}{
		{"leftPercent", c.LeftPercent},
		{"rightPercent", c.RightPercent},
		{"groundPercent", c.GroundPercent},
		{"ceilingPercent", c.CeilingPercent},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%s must be in [0, 100], got %.1f", p.name, p.value)
		}
	}

	if c.LeftPercent >= c.RightPercent {
		return fmt.Errorf("left boundary (%.1f%%) must be left of right boundary (%.1f%%)",
			c.LeftPercent, c.RightPercent)
	}
	if c.CeilingPercent >= c.GroundPercent {
		return fmt.Errorf("ceiling boundary (%.1f%%) must be above ground boundary (%.1f%%)",
			c.CeilingPercent, c.GroundPercent)
	}

	return nil
}
