package game

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// AudioManager 音效管理器
// 职责：
//   - 播放素材包 sound/ 目录下的互动音效（拎起、投掷、消失）
//   - 实现音量控制（从 SettingsManager 读取设置）
//
// 音效缺失不报错：桌宠照常运行，只是没有声音。
type AudioManager struct {
	audioContext    *audio.Context           // 全局音频上下文
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置，可为 nil）
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（路径 -> 播放器）
	failedPaths     map[string]bool          // 已记录过加载失败的路径
}

// NewAudioManager 创建新的音效管理器
//
// 参数：
//   - audioContext: 全局音频上下文
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(audioContext *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		audioContext:    audioContext,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
		failedPaths:     make(map[string]bool),
	}
}

// PlaySound 播放指定路径的音效
//
// 音效关闭或文件缺失时静默返回 false。
func (am *AudioManager) PlaySound(path string) bool {
	if am.settingsManager != nil {
		settings := am.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false
		}
	}

	player := am.getSoundPlayer(path)
	if player == nil {
		return false
	}

	player.SetVolume(am.getVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", path, err)
	}
	player.Play()
	return true
}

// PlayPackSound 播放素材包 sound/ 目录下的音效
func (am *AudioManager) PlayPackSound(packDir, file string) bool {
	return am.PlaySound(filepath.Join(packDir, "sound", file))
}

// SetVolume 设置音效音量并立即应用到缓存的播放器
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(clampVolume(volume))
	}
}

// getSoundPlayer 获取或加载音效播放器
//
// 加载失败只记录一次日志，后续调用静默返回 nil。
func (am *AudioManager) getSoundPlayer(path string) *audio.Player {
	if player, exists := am.soundPlayers[path]; exists {
		return player
	}
	if am.failedPaths[path] {
		return nil
	}

	player, err := am.loadSound(path)
	if err != nil {
		am.failedPaths[path] = true
		log.Printf("[AudioManager] Warning: Failed to load sound %s: %v", path, err)
		return nil
	}

	am.soundPlayers[path] = player
	return player
}

// loadSound 按扩展名解码音效文件
func (am *AudioManager) loadSound(path string) (*audio.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file: %w", err)
	}
	reader := bytes.NewReader(data)

	var stream io.ReadSeeker
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err = wav.DecodeWithoutResampling(reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithoutResampling(reader)
	case ".mp3":
		stream, err = mp3.DecodeWithoutResampling(reader)
	default:
		return nil, fmt.Errorf("unsupported sound format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}

	player, err := am.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	return player, nil
}

// getVolume 获取音效音量设置
func (am *AudioManager) getVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().Volume
	}
	return 0.8 // 默认值
}
