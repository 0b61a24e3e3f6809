package pet

import (
	"math/rand"

	"github.com/teknisee/shimeji/pkg/config"
)

// 心情对行为权重的调整
const (
	lowEnergyThreshold   = 30.0
	tiredEnergyThreshold = 50.0
	happyThreshold       = 70.0

	lowEnergyMoveFactor = 0.5
	tiredSittingFactor  = 1.5
	happyShowoffFactor  = 1.3
)

// DefaultBehaviorWeights 默认行为基础权重
//
// 键是行为对应的目标状态，值是正整数权重。权重为 0 或
// 负数的行为不会被选中。
func DefaultBehaviorWeights() map[State]int {
	return map[State]int{
		StateWalking:     30,
		StateRunning:     10,
		StateSitting:     20,
		StatePose:        10,
		StateEatBerry:    10,
		StateThrowNeedle: 5,
		StateWatch:       10,
		StateGrabWall:    5,
	}
}

// BehaviorSelector 空闲行为加权随机选择器
//
// 待机宠物按配置的行为频率周期性地掷一次加权随机，
// 决定下一个自发行为。心情数值以乘法方式调整基础权重：
// 精力低的宠物更少走动、更爱坐下，快乐的宠物更常表演。
type BehaviorSelector struct {
	weights   map[State]int
	frequency int
	rng       *rand.Rand
}

// NewBehaviorSelector 创建行为选择器
//
// 参数:
//   - weights: 基础权重表，nil 时使用默认权重
//   - frequency: 行为频率（10-100），越界值被钳制
//   - rng: 随机源
func NewBehaviorSelector(weights map[State]int, frequency int, rng *rand.Rand) *BehaviorSelector {
	if weights == nil {
		weights = DefaultBehaviorWeights()
	}
	return &BehaviorSelector{
		weights:   weights,
		frequency: clampFrequency(frequency),
		rng:       rng,
	}
}

// SetFrequency 更新行为频率（对下一次 NextInterval 生效）
func (s *BehaviorSelector) SetFrequency(frequency int) {
	s.frequency = clampFrequency(frequency)
}

// SetWeights 替换基础权重表
func (s *BehaviorSelector) SetWeights(weights map[State]int) {
	s.weights = weights
}

// Pick 按心情调整后的权重随机选择一个行为
//
// 参数:
//   - stats: 当前心情数值
//
// 返回:
//   - State: 选中的行为状态
//   - bool: 总权重为零时返回 false（不做任何行为）
func (s *BehaviorSelector) Pick(stats *Stats) (State, bool) {
	type entry struct {
		state  State
		weight float64
	}

	entries := make([]entry, 0, len(s.weights))
	total := 0.0
	for state, base := range s.weights {
		if base <= 0 {
			continue
		}
		w := float64(base) * s.moodFactor(state, stats)
		if w <= 0 {
			continue
		}
		entries = append(entries, entry{state, w})
		total += w
	}
	if total <= 0 {
		return StateIdle, false
	}

	roll := s.rng.Float64() * total
	for _, e := range entries {
		roll -= e.weight
		if roll < 0 {
			return e.state, true
		}
	}
	// 浮点累加误差兜底
	return entries[len(entries)-1].state, true
}

// NextInterval 返回距下一次行为决策的随机间隔（秒）
//
// 基准间隔为 60/频率 秒，实际间隔在 [0.5x, 2x] 基准间
// 均匀分布。频率越高决策越频繁。
func (s *BehaviorSelector) NextInterval() float64 {
	base := 60.0 / float64(s.frequency)
	return base * (0.5 + 1.5*s.rng.Float64())
}

// moodFactor 返回心情对指定行为的权重乘数
func (s *BehaviorSelector) moodFactor(state State, stats *Stats) float64 {
	factor := 1.0
	switch state {
	case StateWalking, StateRunning:
		if stats.Energy < lowEnergyThreshold {
			factor *= lowEnergyMoveFactor
		}
	case StateSitting:
		if stats.Energy < tiredEnergyThreshold {
			factor *= tiredSittingFactor
		}
	case StatePose, StateEatBerry, StateWatch:
		if stats.Happiness > happyThreshold {
			factor *= happyShowoffFactor
		}
	}
	return factor
}

func clampFrequency(frequency int) int {
	if frequency < config.MinBehaviorFrequency {
		return config.MinBehaviorFrequency
	}
	if frequency > config.MaxBehaviorFrequency {
		return config.MaxBehaviorFrequency
	}
	return frequency
}
