package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teknisee/shimeji/pkg/app"
	"github.com/teknisee/shimeji/pkg/config"
)

var (
	verbose      = flag.Bool("verbose", false, "显示详细日志")
	packsDir     = flag.String("packs", "packs", "素材包根目录")
	packName     = flag.String("pack", "", "启动时使用的素材包（默认取设置）")
	physicsPath  = flag.String("physics", "configs/physics.yaml", "物理参数配置文件")
	boundaryPath = flag.String("boundary", "configs/boundary.yaml", "边界配置文件")
	statsDir     = flag.String("stats", "", "会话统计输出目录（为空则不输出）")
)

func main() {
	flag.Parse()

	a, err := app.NewApp(app.Config{
		Verbose:            *verbose,
		PacksDir:           *packsDir,
		Pack:               *packName,
		PhysicsConfigPath:  *physicsPath,
		BoundaryConfigPath: *boundaryPath,
		StatsDir:           *statsDir,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer a.Shutdown()

	// 没有恢复到存档时生成一只默认宠物
	a.SpawnInitial()

	// 无边框透明置顶窗口，铺满主屏幕作为桌面叠加层
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowTitle("Shimeji")
	ebiten.SetWindowPosition(0, 0)
	monitorW, monitorH := ebiten.Monitor().Size()
	ebiten.SetWindowSize(monitorW, monitorH)
	ebiten.SetTPS(config.TargetFPS)

	op := &ebiten.RunGameOptions{
		ScreenTransparent: true,
	}
	if err := ebiten.RunGameWithOptions(a, op); err != nil {
		log.Fatal(err)
	}
}
