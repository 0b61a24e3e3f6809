// Package app 提供桌宠应用的核心包装器
//
// 该包把初始化和主循环从 main 包提取出来：main 只负责窗口参数
// 和命令行解析，App 实现 ebiten.Game 接口并串起各个管理器。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/teknisee/shimeji/pkg/anim"
	"github.com/teknisee/shimeji/pkg/boundary"
	"github.com/teknisee/shimeji/pkg/config"
	"github.com/teknisee/shimeji/pkg/game"
	"github.com/teknisee/shimeji/pkg/pet"
	"github.com/teknisee/shimeji/pkg/telemetry"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// PacksDir 素材包根目录
	PacksDir string
	// Pack 启动时使用的素材包，为空则用设置里的默认包
	Pack string
	// PhysicsConfigPath 物理参数配置文件，为空或缺失时用默认值
	PhysicsConfigPath string
	// BoundaryConfigPath 边界配置文件，为空或缺失时用默认值
	BoundaryConfigPath string
	// StatsDir 会话统计输出目录，为空则不输出
	StatsDir string
}

// App 是桌宠应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	settings  *game.SettingsManager
	saves     *game.SaveManager
	resources *game.ResourceManager
	sounds    *game.AudioManager
	anims     *anim.Manager
	physics   *config.PhysicsStore
	bounds    *boundary.Model
	registry  *pet.Registry
	stats     *telemetry.OutputManager

	packsDir    string
	defaultPack string
	startedAt   time.Time

	screenW, screenH int

	// autoSpawn 首帧在没有恢复到存档时生成一只默认宠物
	autoSpawn bool
	booted    bool
}

// NewApp 创建并初始化桌宠应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// gdata 打开失败进入降级模式，宠物照常运行但不持久化
	gdataManager, err := gdata.Open(gdata.Config{AppName: "shimeji"})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v (degraded mode)", err)
		gdataManager = nil
	}

	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("初始化设置管理器失败: %w", err)
	}
	saves := game.NewSaveManager(gdataManager)

	physicsConfig := loadPhysicsConfig(cfg.PhysicsConfigPath)
	boundaryConfig := loadBoundaryConfig(cfg.BoundaryConfigPath)

	physics := config.NewPhysicsStore(physicsConfig)
	bounds := boundary.NewModel(
		boundaryConfig.LeftPercent, boundaryConfig.RightPercent,
		boundaryConfig.GroundPercent, boundaryConfig.CeilingPercent,
	)

	resources := game.NewResourceManager()
	anims := anim.NewManager()

	audioContext := audio.NewContext(48000)
	sounds := game.NewAudioManager(audioContext, settings)

	a := &App{
		settings:  settings,
		saves:     saves,
		resources: resources,
		sounds:    sounds,
		anims:     anims,
		physics:   physics,
		bounds:    bounds,
		packsDir:  cfg.PacksDir,
		startedAt: time.Now(),
	}

	a.defaultPack = cfg.Pack
	if a.defaultPack == "" {
		a.defaultPack = settings.GetSettings().DefaultPack
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	a.registry = pet.NewRegistry(physics, bounds, a.newPlayer,
		settings.GetSettings().BehaviorFrequency, rng)
	a.registry.SetBoundariesEnabled(settings.GetSettings().ScreenBoundaries && boundaryConfig.Enabled)
	a.registry.SetWallClimbing(settings.GetSettings().WallClimbingEnabled)

	// 素材包行为表里的频率作为行为权重
	if pack := a.loadPack(a.defaultPack); pack != nil {
		if weights := pet.WeightsFromPack(pack.Behaviors); weights != nil {
			a.registry.SetBehaviorWeights(weights)
		}
	}

	// 会话统计输出（可禁用）
	stats, err := telemetry.NewOutputManager(cfg.StatsDir)
	if err != nil {
		log.Printf("[App] Warning: stats output disabled: %v", err)
	}
	a.stats = stats

	return a, nil
}

// loadPack 加载素材包，失败时返回 nil（宠物退回占位渲染）
func (a *App) loadPack(id string) *anim.Pack {
	dir := filepath.Join(a.packsDir, id)
	pack, err := a.anims.LoadPack(id, dir)
	if err != nil {
		log.Printf("[App] Warning: failed to load pack %q: %v", id, err)
		return nil
	}
	return pack
}

// newPlayer 为新宠物构建动画播放器，素材缺失时退回占位播放器
func (a *App) newPlayer(packID string) anim.Player {
	a.loadPack(packID)
	packDir := filepath.Join(a.packsDir, packID)
	return a.anims.NewPlayer(packID, a.resources.ImageLookup(packDir), a.resources.Placeholder())
}

// Update 每个 tick 调用一次（每秒 30 次，见 SetTPS）
func (a *App) Update() error {
	a.bootstrap()
	a.handleKeys()
	a.handleMouse()
	a.registry.Update(config.FixedDeltaTime)
	return nil
}

// bootstrap 主循环首帧的一次性初始化
//
// 恢复存档和默认出生点（屏幕居中、落在地面上）都依赖已
// 解析的边界，而屏幕尺寸要等 Layout 第一次回调才可用，
// 因此推迟到第一次 Update 执行。
func (a *App) bootstrap() {
	if a.booted {
		return
	}
	a.booted = true

	if a.settings.GetSettings().AutoRestore {
		snapshots, err := a.saves.LoadPets()
		if err != nil {
			log.Printf("[App] Warning: failed to load saved pets: %v", err)
		} else if len(snapshots) > 0 {
			restored := a.registry.RestoreAll(snapshots)
			log.Printf("[App] Restored %d pets from previous session", restored)
		}
	}

	if a.autoSpawn && a.registry.Count() == 0 {
		id := a.registry.Spawn(a.defaultPack, nil, nil)
		log.Printf("[App] Spawned initial pet #%d (%s)", id, a.defaultPack)
	}
}

// handleKeys 处理全局快捷键
func (a *App) handleKeys() {
	s := a.settings.GetSettings()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.settings.SetDebugMode(!s.DebugMode)
		log.Printf("[App] Debug overlay: %v", a.settings.GetSettings().DebugMode)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		a.settings.SetShowStats(!s.ShowStats)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		id := a.registry.Spawn(a.defaultPack, nil, nil)
		log.Printf("[App] Spawned pet #%d (%s)", id, a.defaultPack)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		enabled := !a.settings.GetSettings().ScreenBoundaries
		a.settings.SetScreenBoundaries(enabled)
		a.registry.SetBoundariesEnabled(enabled)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		enabled := !a.settings.GetSettings().WallClimbingEnabled
		a.settings.SetWallClimbingEnabled(enabled)
		a.registry.SetWallClimbing(enabled)
	}
}

// handleMouse 把鼠标事件路由到注册表
func (a *App) handleMouse() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		_, result := a.registry.HandleMouseDown(x, y, pet.MouseLeft)
		if result.StartedDrag {
			a.playPackSound("pinched.wav")
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		_, result := a.registry.HandleMouseDown(x, y, pet.MouseRight)
		if result.Kill {
			a.playPackSound("poof.wav")
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		a.registry.HandleMouseMotion(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.registry.HandleMouseUp(pet.MouseLeft)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		a.registry.HandleMouseUp(pet.MouseRight)
	}
}

// playPackSound 播放默认素材包的互动音效
func (a *App) playPackSound(file string) {
	a.sounds.PlayPackSound(filepath.Join(a.packsDir, a.defaultPack), file)
}

// Draw 绘制所有宠物和调试叠加层
func (a *App) Draw(screen *ebiten.Image) {
	for _, p := range a.registry.Pets() {
		a.drawPet(screen, p)
	}

	s := a.settings.GetSettings()
	if s.DebugMode {
		a.drawBoundaryDebug(screen)
	}
	if s.DebugMode || s.ShowStats {
		a.drawStats(screen, s.DebugMode)
	}
}

// drawPet 绘制单个宠物
//
// 素材坐标系朝左，朝右时水平翻转。精灵缺失时画占位图。
func (a *App) drawPet(screen *ebiten.Image, p *pet.Pet) {
	sprite := p.Sprite()
	if sprite == nil {
		sprite = a.resources.Placeholder()
	}

	bounds := sprite.Bounds()
	sw, sh := float64(bounds.Dx()), float64(bounds.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	if p.FacingRight {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(sw, 0)
	}
	op.GeoM.Scale(p.Width/sw, p.Height/sh)
	op.GeoM.Translate(p.X, p.Y)
	screen.DrawImage(sprite, op)
}

// drawBoundaryDebug 绘制边界线
func (a *App) drawBoundaryDebug(screen *ebiten.Image) {
	b := a.bounds.Current()
	lineColor := color.RGBA{R: 255, G: 255, B: 0, A: 128}

	w, h := float64(a.screenW), float64(a.screenH)
	ebitenutil.DrawLine(screen, b.LeftX, 0, b.LeftX, h, lineColor)
	ebitenutil.DrawLine(screen, b.RightX, 0, b.RightX, h, lineColor)
	ebitenutil.DrawLine(screen, 0, b.GroundY, w, b.GroundY, lineColor)
	ebitenutil.DrawLine(screen, 0, b.CeilingY, w, b.CeilingY, lineColor)
}

// drawStats 绘制帧率和每只宠物的状态信息
func (a *App) drawStats(screen *ebiten.Image, debug bool) {
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("FPS: %.1f  TPS: %.1f  Pets: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), a.registry.Count()),
		10, 10)

	for _, p := range a.registry.Pets() {
		label := fmt.Sprintf("H:%.0f E:%.0f", p.Stats.Happiness, p.Stats.Energy)
		if debug {
			label = fmt.Sprintf("#%d %s v=(%.0f,%.0f) %s", p.ID, p.State, p.VX, p.VY, label)
		}
		ebitenutil.DebugPrintAt(screen, label, int(p.X), int(p.Y)-14)
	}
}

// Layout 返回逻辑屏幕尺寸并跟踪窗口大小变化
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.screenW || outsideHeight != a.screenH {
		a.screenW, a.screenH = outsideWidth, outsideHeight
		a.registry.SetScreenSize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// SpawnInitial 请求在主循环首帧生成一只默认宠物
//
// 实际生成发生在第一次 Update（见 bootstrap），且只在
// 存档没有恢复出任何宠物时进行。
func (a *App) SpawnInitial() {
	a.autoSpawn = true
}

// Shutdown 保存设置和宠物快照，写出会话统计
func (a *App) Shutdown() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
	if err := a.saves.SavePets(a.registry.SerializeAll()); err != nil {
		log.Printf("[App] Warning: failed to save pets: %v", err)
	}
	if err := a.stats.WritePets(a.registry.Pets(), time.Since(a.startedAt)); err != nil {
		log.Printf("[App] Warning: failed to write session stats: %v", err)
	}
	if err := a.stats.Close(); err != nil {
		log.Printf("[App] Warning: failed to close stats output: %v", err)
	}
}

// loadPhysicsConfig 加载物理配置，缺失或非法时退回默认值
func loadPhysicsConfig(path string) *config.PhysicsConfig {
	if path == "" {
		return config.DefaultPhysicsConfig()
	}
	if _, err := os.Stat(path); err != nil {
		return config.DefaultPhysicsConfig()
	}
	cfg, err := config.LoadPhysicsConfig(path)
	if err != nil {
		log.Printf("[App] Warning: invalid physics config %s: %v (using defaults)", path, err)
		return config.DefaultPhysicsConfig()
	}
	return cfg
}

// loadBoundaryConfig 加载边界配置，缺失或非法时退回默认值
func loadBoundaryConfig(path string) *config.BoundaryConfig {
	if path == "" {
		return config.DefaultBoundaryConfig()
	}
	if _, err := os.Stat(path); err != nil {
		return config.DefaultBoundaryConfig()
	}
	cfg, err := config.LoadBoundaryConfig(path)
	if err != nil {
		log.Printf("[App] Warning: invalid boundary config %s: %v (using defaults)", path, err)
		return config.DefaultBoundaryConfig()
	}
	return cfg
}
