package pet

import (
	"math/rand"
	"testing"

	"github.com/teknisee/shimeji/internal/shimeji"
	"github.com/teknisee/shimeji/pkg/anim"
	"github.com/teknisee/shimeji/pkg/boundary"
	"github.com/teknisee/shimeji/pkg/config"
)

func newTestRegistry() *Registry {
	physics := config.NewPhysicsStore(nil)
	bounds := boundary.NewModel(5, 95, 90, 5)
	factory := func(string) anim.Player { return anim.NewNullPlayer(nil) }
	r := NewRegistry(physics, bounds, factory, 50, rand.New(rand.NewSource(42)))
	r.SetScreenSize(1000, 800)
	return r
}

// TestSpawnDefaults 测试省略坐标时的默认生成位置
func TestSpawnDefaults(t *testing.T) {
	r := newTestRegistry()

	id := r.Spawn("test", nil, nil)
	p := r.find(id)
	if p == nil {
		t.Fatalf("生成后应能找到宠物")
	}

	// x 省略 -> 屏幕水平居中
	wantX := (1000.0 - config.DefaultPetWidth) / 2
	if p.X != wantX {
		t.Errorf("默认 X = %.1f, want %.1f", p.X, wantX)
	}
	// y 省略 -> 底边落在地面（90% of 800 = 720）
	wantY := 720.0 - config.DefaultPetHeight
	if p.Y != wantY {
		t.Errorf("默认 Y = %.1f, want %.1f", p.Y, wantY)
	}
	if !p.OnGround {
		t.Errorf("落在地面生成的宠物应标记 OnGround")
	}
}

// TestSpawnExplicitPosition 测试显式坐标生成
func TestSpawnExplicitPosition(t *testing.T) {
	r := newTestRegistry()

	x, y := 300.0, 400.0
	id := r.Spawn("test", &x, &y)
	p := r.find(id)

	if p.X != 300 || p.Y != 400 {
		t.Errorf("显式坐标 = (%.0f, %.0f), want (300, 400)", p.X, p.Y)
	}
	if p.OnGround {
		t.Errorf("空中生成的宠物不应标记 OnGround")
	}
}

// TestRemoveMarkAndSweep 测试标记清除的删除语义
func TestRemoveMarkAndSweep(t *testing.T) {
	r := newTestRegistry()
	id1 := r.Spawn("test", nil, nil)
	id2 := r.Spawn("test", nil, nil)

	if !r.Remove(id1) {
		t.Fatalf("删除存活宠物应成功")
	}
	// 标记后立即从对外视图消失
	if r.Count() != 1 {
		t.Errorf("标记后 Count = %d, want 1", r.Count())
	}
	// 重复删除失败
	if r.Remove(id1) {
		t.Errorf("重复删除同一宠物应失败")
	}

	// 清除发生在帧边界
	r.Update(1.0 / 30.0)
	if len(r.pets) != 1 {
		t.Errorf("清除后底层切片长度 = %d, want 1", len(r.pets))
	}
	if r.find(id2) == nil {
		t.Errorf("未删除的宠物应保留")
	}
}

// TestRemoveAll 测试清空
func TestRemoveAll(t *testing.T) {
	r := newTestRegistry()
	r.Spawn("test", nil, nil)
	r.Spawn("test", nil, nil)
	r.Spawn("test", nil, nil)

	if got := r.RemoveAll(); got != 3 {
		t.Errorf("RemoveAll() = %d, want 3", got)
	}
	if r.Count() != 0 {
		t.Errorf("清空后 Count = %d, want 0", r.Count())
	}
}

// TestList 测试概要信息列表
func TestList(t *testing.T) {
	r := newTestRegistry()
	r.Spawn("packA", nil, nil)
	r.Spawn("packB", nil, nil)

	infos := r.List()
	if len(infos) != 2 {
		t.Fatalf("List 长度 = %d, want 2", len(infos))
	}
	if infos[0].PackID != "packA" || infos[1].PackID != "packB" {
		t.Errorf("List 应保持生成顺序: %+v", infos)
	}
	if infos[0].State != "idle" {
		t.Errorf("新宠物状态标签应为 idle, got %s", infos[0].State)
	}
}

// TestSerializeRestoreRoundTrip 测试序列化恢复闭环
func TestSerializeRestoreRoundTrip(t *testing.T) {
	r := newTestRegistry()
	x, y := 300.0, 400.0
	id := r.Spawn("packA", &x, &y)
	p := r.find(id)
	p.Stats.Happiness = 42
	p.Stats.WallClimbs = 3
	p.FacingRight = false
	p.transitionTo(StateSitting)

	snapshots := r.SerializeAll()
	if len(snapshots) != 1 {
		t.Fatalf("应导出 1 条快照")
	}

	r2 := newTestRegistry()
	if got := r2.RestoreAll(snapshots); got != 1 {
		t.Fatalf("RestoreAll() = %d, want 1", got)
	}

	restored := r2.Pets()[0]
	if restored.PackID != "packA" {
		t.Errorf("PackID = %s, want packA", restored.PackID)
	}
	if restored.X != 300 || restored.Y != 400 {
		t.Errorf("位置 = (%.0f, %.0f), want (300, 400)", restored.X, restored.Y)
	}
	if restored.State != StateSitting {
		t.Errorf("状态 = %s, want sitting", restored.State)
	}
	if restored.Stats.Happiness != 42 || restored.Stats.WallClimbs != 3 {
		t.Errorf("心情数值未恢复: %+v", restored.Stats)
	}
	if restored.FacingRight {
		t.Errorf("朝向未恢复")
	}
}

// TestRestore_UnknownStateDefaultsToIdle 测试未知状态标签的部分失败语义
func TestRestore_UnknownStateDefaultsToIdle(t *testing.T) {
	r := newTestRegistry()

	snapshots := []Snapshot{
		{PackID: "packA", X: 100, Y: 100, State: "sitting"},
		{PackID: "packA", X: 200, Y: 100, State: "corrupted_nonsense"},
		{PackID: "packA", X: 300, Y: 100, State: "walking", Running: true},
	}

	if got := r.RestoreAll(snapshots); got != 3 {
		t.Fatalf("未知状态不应中断恢复, RestoreAll() = %d, want 3", got)
	}

	pets := r.Pets()
	if pets[0].State != StateSitting {
		t.Errorf("第 1 条状态 = %s, want sitting", pets[0].State)
	}
	if pets[1].State != StateIdle {
		t.Errorf("未知状态应退回待机, got %s", pets[1].State)
	}
	if pets[2].State != StateRunning {
		t.Errorf("walking + running 应恢复为奔跑, got %s", pets[2].State)
	}
}

// TestRestore_DraggingFallsBack 测试拖拽状态不可恢复
func TestRestore_DraggingFallsBack(t *testing.T) {
	r := newTestRegistry()
	r.RestoreAll([]Snapshot{{PackID: "p", X: 100, Y: 100, State: "dragging"}})
	if got := r.Pets()[0].State; got != StateIdle {
		t.Errorf("拖拽状态应恢复为待机, got %s", got)
	}
}

// TestMouseRouting 测试鼠标事件路由到最上层命中的宠物
func TestMouseRouting(t *testing.T) {
	r := newTestRegistry()
	x := 300.0
	y := 400.0
	r.Spawn("below", &x, &y)
	id2 := r.Spawn("above", &x, &y)

	hitID, result := r.HandleMouseDown(350, 450, MouseLeft)
	if hitID != id2 {
		t.Errorf("重叠时应命中后生成（最上层）的宠物, got #%d", hitID)
	}
	if !result.StartedDrag {
		t.Errorf("左键命中应开始拖拽")
	}

	// 拖拽移动与投掷经注册表路由
	r.HandleMouseMotion(360, 445)
	r.HandleMouseUp(MouseLeft)

	p := r.find(id2)
	if p.State != StateThrown {
		t.Fatalf("松手后应进入投掷, got %s", p.State)
	}
	// 位移 (10, -5) x 默认倍数 6
	if p.VX != 60 || p.VY != -30 {
		t.Errorf("投掷速度 = (%.0f, %.0f), want (60, -30)", p.VX, p.VY)
	}
}

// TestDoubleRightClickKillViaRegistry 测试双击删除经注册表生效
func TestDoubleRightClickKillViaRegistry(t *testing.T) {
	r := newTestRegistry()
	x, y := 300.0, 400.0
	id := r.Spawn("test", &x, &y)

	r.HandleMouseDown(350, 450, MouseRight)
	_, result := r.HandleMouseDown(350, 450, MouseRight)

	if !result.Kill {
		t.Fatalf("快速两次右键应请求删除")
	}
	if r.Count() != 0 {
		t.Errorf("删除后 Count = %d, want 0", r.Count())
	}
	if r.Remove(id) {
		t.Errorf("已标记的宠物不应再次删除成功")
	}
}

// TestSettingsPropagation 测试设置变更对存活宠物立即生效
func TestSettingsPropagation(t *testing.T) {
	r := newTestRegistry()
	r.Spawn("test", nil, nil)

	r.SetBehaviorFrequency(100)
	for _, p := range r.pets {
		if p.selector.frequency != 100 {
			t.Errorf("频率变更应传播到存活宠物")
		}
	}

	// 边界开关重新开启时把越界宠物拉回
	r.SetBoundariesEnabled(false)
	p := r.pets[0]
	p.X = -500
	r.SetBoundariesEnabled(true)
	if p.X != r.bounds.Current().LeftX {
		t.Errorf("重新开启边界应钳制越界宠物, X = %.1f", p.X)
	}
}

// TestWeightsFromPack 测试素材包行为表导出权重
func TestWeightsFromPack(t *testing.T) {
	behaviors := map[string]*shimeji.BehaviorData{
		"Walk":        {Name: "Walk", Frequency: 200},
		"Sit":         {Name: "Sit", Frequency: 100},
		"ChaseMouse":  {Name: "ChaseMouse", Frequency: 50},
		"Hidden":      {Name: "Hidden", Frequency: 80, Hidden: true},
		"ThrowNeedle": {Name: "ThrowNeedle", Frequency: 0},
	}

	weights := WeightsFromPack(behaviors)

	if weights[StateWalking] != 200 || weights[StateSitting] != 100 {
		t.Errorf("已知行为应映射到对应状态: %v", weights)
	}
	if _, ok := weights[StateThrowNeedle]; ok {
		t.Errorf("零频率行为应跳过")
	}
	if len(weights) != 2 {
		t.Errorf("未知和隐藏行为应忽略, got %v", weights)
	}

	if WeightsFromPack(nil) != nil {
		t.Errorf("空行为表应返回 nil（使用默认权重）")
	}
}
