// Package game 提供应用层管理器
//
// 设置、存档和素材资源的加载保存都在这里，模拟核心
// （pkg/pet）只通过窄接口消费它们。
package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/teknisee/shimeji/pkg/config"
)

// PetSettings 全局宠物设置
// 注意：这些设置是全局的，不绑定到特定素材包
type PetSettings struct {
	// 音频设置
	Volume       float64 `yaml:"volume"`       // 音效音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 行为设置
	BehaviorFrequency   int  `yaml:"behaviorFrequency"`   // 行为频率 10 ~ 100
	WallClimbingEnabled bool `yaml:"wallClimbingEnabled"` // 爬墙开关

	// 边界设置
	ScreenBoundaries bool `yaml:"screenBoundaries"` // 屏幕边界开关

	// 调试设置
	DebugMode bool `yaml:"debugMode"` // 调试叠加层（边界线、状态文本）
	ShowStats bool `yaml:"showStats"` // 显示心情数值和帧率

	// 启动设置
	AutoRestore bool   `yaml:"autoRestore"` // 启动时恢复上次的宠物
	DefaultPack string `yaml:"defaultPack"` // 默认素材包
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PetSettings {
	return &PetSettings{
		Volume:              0.8,
		SoundEnabled:        true,
		BehaviorFrequency:   50,
		WallClimbingEnabled: true,
		ScreenBoundaries:    true,
		DebugMode:           false,
		ShowStats:           false,
		AutoRestore:         true,
		DefaultPack:         "shimeji",
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PetSettings   // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loadedSettings PetSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loadedSettings
	sm.clampLoaded()
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *PetSettings {
	return sm.settings
}

// SetVolume 设置音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetVolume(volume float64) {
	sm.settings.Volume = clampVolume(volume)
}

// SetBehaviorFrequency 设置行为频率
//
// 频率值会被限制在 10 ~ 100 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetBehaviorFrequency(frequency int) {
	sm.settings.BehaviorFrequency = clampFrequency(frequency)
}

// SetWallClimbingEnabled 设置爬墙开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetWallClimbingEnabled(enabled bool) {
	sm.settings.WallClimbingEnabled = enabled
}

// SetScreenBoundaries 设置屏幕边界开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetScreenBoundaries(enabled bool) {
	sm.settings.ScreenBoundaries = enabled
}

// SetDebugMode 设置调试叠加层开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDebugMode(enabled bool) {
	sm.settings.DebugMode = enabled
}

// SetShowStats 设置数值显示开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowStats(enabled bool) {
	sm.settings.ShowStats = enabled
}

// clampLoaded 把加载到的设置值拉回合法范围
func (sm *SettingsManager) clampLoaded() {
	sm.settings.Volume = clampVolume(sm.settings.Volume)
	sm.settings.BehaviorFrequency = clampFrequency(sm.settings.BehaviorFrequency)
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

// clampFrequency 将行为频率限制在 10 ~ 100 范围内
func clampFrequency(frequency int) int {
	if frequency < config.MinBehaviorFrequency {
		return config.MinBehaviorFrequency
	}
	if frequency > config.MaxBehaviorFrequency {
		return config.MaxBehaviorFrequency
	}
	return frequency
}
