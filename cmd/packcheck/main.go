// packcheck 校验素材包的完整性
//
// 用法：go run ./cmd/packcheck -pack packs/shimeji
//
// 检查 conf/actions.xml 和 conf/behaviors.xml 可解析、
// 引用的精灵和音效文件存在、行为名能映射到已知状态。
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/teknisee/shimeji/internal/shimeji"
	"github.com/teknisee/shimeji/pkg/pet"
)

var packDir = flag.String("pack", "", "素材包目录（含 conf/ img/ sound/）")

func main() {
	flag.Parse()
	if *packDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	actions, err := shimeji.ParseActionsFile(filepath.Join(*packDir, "conf", "actions.xml"))
	if err != nil {
		log.Fatalf("actions.xml 解析失败: %v", err)
	}
	behaviors, err := shimeji.ParseBehaviorsFile(filepath.Join(*packDir, "conf", "behaviors.xml"))
	if err != nil {
		log.Fatalf("behaviors.xml 解析失败: %v", err)
	}

	fmt.Printf("=== 素材包 %s ===\n\n", *packDir)
	fmt.Printf("动作: %d 个, 行为: %d 个\n\n", len(actions), len(behaviors))

	problems := 0
	problems += checkActions(actions)
	problems += checkBehaviors(behaviors)

	if problems > 0 {
		fmt.Printf("\n共发现 %d 个问题\n", problems)
		os.Exit(1)
	}
	fmt.Println("\n素材包检查通过")
}

// checkActions 校验每个动作引用的精灵和音效文件
func checkActions(actions map[string]*shimeji.ActionData) int {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)

	problems := 0
	for _, name := range names {
		action := actions[name]
		frames := 0
		for _, poses := range action.Animations {
			frames += len(poses)
			for _, pose := range poses {
				if pose.Image != "" && !fileExists(filepath.Join(*packDir, "img", pose.Image)) {
					fmt.Printf("  [缺失] 动作 %s 引用的精灵不存在: img/%s\n", name, pose.Image)
					problems++
				}
				if pose.Sound != "" && !fileExists(filepath.Join(*packDir, "sound", pose.Sound)) {
					fmt.Printf("  [缺失] 动作 %s 引用的音效不存在: sound/%s\n", name, pose.Sound)
					problems++
				}
			}
		}
		fmt.Printf("  动作 %-16s 变体 %d 个, 共 %d 帧\n", name, len(action.Animations), frames)
	}
	return problems
}

// checkBehaviors 校验行为名和频率
func checkBehaviors(behaviors map[string]*shimeji.BehaviorData) int {
	fmt.Println()

	weights := pet.WeightsFromPack(behaviors)

	problems := 0
	mapped := 0
	for name, b := range behaviors {
		status := "已映射"
		if b.Hidden {
			status = "隐藏（跳过）"
		} else if b.Frequency <= 0 {
			status = "零频率（跳过）"
		} else if !knownBehavior(name) {
			status = "未知行为名（忽略）"
		} else {
			mapped++
		}
		fmt.Printf("  行为 %-16s 频率 %-4d %s\n", name, b.Frequency, status)
	}

	if mapped == 0 || len(weights) == 0 {
		fmt.Println("  [警告] 没有任何行为能映射到状态，将使用默认权重")
	}
	return problems
}

// knownBehavior 报告行为名是否映射到某个状态
func knownBehavior(name string) bool {
	switch name {
	case "Walk", "Run", "Sit", "Pose", "EatBerry", "ThrowNeedle", "Watch", "GrabWall":
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
