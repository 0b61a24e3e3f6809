package pet

// 心情数值衰减与恢复速率（每秒）
const (
	happinessDecayRate = 0.5
	energyDecayRate    = 0.3

	// idleEnergyRegenRate 待机/坐下时的基础精力恢复
	idleEnergyRegenRate = 0.5

	// sittingEnergyRegenRate 坐下时的额外精力恢复
	sittingEnergyRegenRate = 10.0

	// interactionHappinessRate 最近被互动过时的快乐恢复
	interactionHappinessRate = 1.0

	// interactionAfterglow 互动后快乐持续恢复的时长（秒）
	interactionAfterglow = 10.0
)

// Stats 宠物心情数值与互动计数
type Stats struct {
	// Health 健康值 0-100
	Health float64 `yaml:"health"`

	// Happiness 快乐值 0-100，随时间缓慢下降
	Happiness float64 `yaml:"happiness"`

	// Energy 精力值 0-100，随时间缓慢下降，休息时恢复
	Energy float64 `yaml:"energy"`

	// WalksTaken 完成的行走次数
	WalksTaken int `yaml:"walksTaken"`

	// TimesPetted 被抚摸（拖拽）次数
	TimesPetted int `yaml:"timesPetted"`

	// SpecialActions 完成的特殊动作次数（不含张望）
	SpecialActions int `yaml:"specialActions"`

	// WallClimbs 爬墙次数
	WallClimbs int `yaml:"wallClimbs"`
}

// NewStats 返回满值的初始心情数值
func NewStats() Stats {
	return Stats{
		Health:    100,
		Happiness: 100,
		Energy:    100,
	}
}

// Decay 按时间推进心情数值
//
// 快乐与精力随时间下降；待机和坐下时精力缓慢恢复；
// 互动余温期内快乐额外恢复。所有数值钳制在 [0, 100]。
//
// 参数:
//   - dt: 时间步长（秒）
//   - state: 当前状态
//   - sinceInteraction: 距最近一次互动的时间（秒）
func (s *Stats) Decay(dt float64, state State, sinceInteraction float64) {
	s.Happiness -= happinessDecayRate * dt
	s.Energy -= energyDecayRate * dt

	if state == StateIdle || state == StateSitting {
		s.Energy += idleEnergyRegenRate * dt
	}
	if sinceInteraction < interactionAfterglow {
		s.Happiness += interactionHappinessRate * dt
	}

	s.Health = clampStat(s.Health)
	s.Happiness = clampStat(s.Happiness)
	s.Energy = clampStat(s.Energy)
}

// AddHappiness 增加快乐值（钳制到 100）
func (s *Stats) AddHappiness(amount float64) {
	s.Happiness = clampStat(s.Happiness + amount)
}

// AddEnergy 增加精力值（钳制到 100）
func (s *Stats) AddEnergy(amount float64) {
	s.Energy = clampStat(s.Energy + amount)
}

func clampStat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
