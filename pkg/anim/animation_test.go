package anim

import (
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teknisee/shimeji/internal/shimeji"
)

// nilLookup 测试不解码真实图像，帧逻辑与图像内容无关
func nilLookup(string) *ebiten.Image { return nil }

// TestAnimationUpdate 测试帧推进
func TestAnimationUpdate(t *testing.T) {
	frames := []Frame{
		{Duration: 0.1, VelocityX: 10},
		{Duration: 0.1, VelocityX: 20},
		{Duration: 0.1, VelocityX: 30},
	}

	tests := []struct {
		name     string
		descr    string
		loop     bool
		steps    int
		dt       float64
		wantVelX float64
		wantDone bool
	}{
		{
			name:  "首帧",
			descr: "不足一帧时长时停留在第一帧",
			loop:  true, steps: 1, dt: 0.05,
			wantVelX: 10, wantDone: false,
		},
		{
			name:  "推进到第二帧",
			descr: "超过第一帧时长后进入第二帧",
			loop:  true, steps: 1, dt: 0.15,
			wantVelX: 20, wantDone: false,
		},
		{
			name:  "循环回绕",
			descr: "循环动画播完最后一帧后回到第一帧",
			loop:  true, steps: 1, dt: 0.35,
			wantVelX: 10, wantDone: false,
		},
		{
			name:  "非循环完成",
			descr: "非循环动画停在最后一帧并标记完成",
			loop:  false, steps: 4, dt: 0.1,
			wantVelX: 30, wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnimation("Walk", frames, tt.loop)
			var got Frame
			for i := 0; i < tt.steps; i++ {
				got = a.Update(tt.dt)
			}
			if got.VelocityX != tt.wantVelX {
				t.Errorf("%s: 当前帧 VelocityX = %.0f, want %.0f",
					tt.descr, got.VelocityX, tt.wantVelX)
			}
			if a.Completed() != tt.wantDone {
				t.Errorf("%s: Completed() = %v, want %v",
					tt.descr, a.Completed(), tt.wantDone)
			}
		})
	}
}

// TestAnimationReset 测试重置后从头播放
func TestAnimationReset(t *testing.T) {
	a := NewAnimation("Pose", []Frame{
		{Duration: 0.1, VelocityX: 1},
		{Duration: 0.1, VelocityX: 2},
	}, false)

	a.Update(0.25)
	if !a.Completed() {
		t.Fatalf("动画应已完成")
	}

	a.Reset()
	if a.Completed() {
		t.Errorf("Reset 后不应保持完成标记")
	}
	if a.Current().VelocityX != 1 {
		t.Errorf("Reset 后应回到第一帧")
	}
}

func testActions() map[string]*shimeji.ActionData {
	return map[string]*shimeji.ActionData{
		"Walk": {
			Name: "Walk",
			Animations: [][]shimeji.PoseData{
				{{Image: "w1.png", Duration: 0.2, VelocityX: -60}},
			},
		},
		"Pose": {
			Name: "Pose",
			Animations: [][]shimeji.PoseData{
				{
					{Image: "a.png", Duration: 0.1},
					{Image: "b.png", Duration: 0.1},
				},
			},
		},
		"Pinched": {
			Name: "Pinched",
			Animations: [][]shimeji.PoseData{
				{{Image: "p0.png", Duration: 0.2, VelocityY: 1}},
				{{Image: "p1.png", Duration: 0.2, VelocityY: 2}},
				{{Image: "p2.png", Duration: 0.2, VelocityY: 3}},
			},
		},
	}
}

// TestPackPlayer_Play 测试动作切换
func TestPackPlayer_Play(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)

	if !p.Play("Walk", true) {
		t.Errorf("已知动作应切换成功")
	}
	if p.Play("Nonexistent", true) {
		t.Errorf("未知动作应切换失败")
	}

	_, vx, _ := p.Update(0.01)
	if vx != -60 {
		t.Errorf("Walk 首帧速度应为 -60, got %.0f", vx)
	}
}

// TestPackPlayer_LoopingPlayNoReset 测试重复播放同名循环动作不重置进度
func TestPackPlayer_LoopingPlayNoReset(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	p.Play("Pose", true)
	p.Update(0.15)

	before := p.current.frameIndex
	p.Play("Pose", true)
	if p.current.frameIndex != before {
		t.Errorf("重复 Play 同名循环动作不应回到第一帧")
	}
}

// TestPackPlayer_PinchZoneSelectsVariant 测试捏取区域选择动画变体
func TestPackPlayer_PinchZoneSelectsVariant(t *testing.T) {
	tests := []struct {
		name     string
		descr    string
		zone     int
		wantVelY float64
	}{
		{"区域0", "第一个变体", 0, 1},
		{"区域1", "第二个变体", 1, 2},
		{"越界区域", "超出变体数时钳制到最后一个", 6, 3},
		{"负区域", "负值钳制到第一个", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPackPlayer(testActions(), nilLookup)
			p.SetPinchZone(tt.zone)
			if !p.Play("Pinched", true) {
				t.Fatalf("Pinched 动作应存在")
			}
			_, _, vy := p.Update(0.01)
			if vy != tt.wantVelY {
				t.Errorf("%s: 变体速度 = %.0f, want %.0f", tt.descr, vy, tt.wantVelY)
			}
		})
	}
}

// TestPackPlayer_PinchZoneSwitchesVariantMidPlay 测试播放中更换捏取区域
//
// 多变体动作正在播放时更换区域必须立即切到新变体，不需要
// 重新 Play（拖拽期间不会再次 Play）。
func TestPackPlayer_PinchZoneSwitchesVariantMidPlay(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	if !p.Play("Pinched", true) {
		t.Fatalf("Pinched 动作应存在")
	}

	_, _, vy := p.Update(0.01)
	if vy != 1 {
		t.Fatalf("初始应为第一个变体, got %.0f", vy)
	}

	p.SetPinchZone(1)
	_, _, vy = p.Update(0.01)
	if vy != 2 {
		t.Errorf("更换区域后应切到第二个变体, got %.0f", vy)
	}

	p.SetPinchZone(6)
	_, _, vy = p.Update(0.01)
	if vy != 3 {
		t.Errorf("越界区域应钳制到最后一个变体, got %.0f", vy)
	}
}

// TestPackPlayer_PinchZoneUnchangedKeepsPlayback 测试区域不变时不打断播放
func TestPackPlayer_PinchZoneUnchangedKeepsPlayback(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	p.Play("Pinched", true)
	p.Update(0.1)

	before := p.current
	p.SetPinchZone(0)
	if p.current != before {
		t.Errorf("区域不变时不应重建当前动画")
	}
}

// TestPackPlayer_PinchZoneIgnoredForSingleVariant 测试单变体动作不受区域影响
func TestPackPlayer_PinchZoneIgnoredForSingleVariant(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	p.Play("Walk", true)

	before := p.current
	p.SetPinchZone(4)
	if p.current != before {
		t.Errorf("单变体动作更换区域不应重建动画")
	}
}

// TestPackPlayer_AvailableActions 测试动作列表按字典序返回
func TestPackPlayer_AvailableActions(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	got := p.AvailableActions()
	want := []string{"Pinched", "Pose", "Walk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableActions() = %v, want %v", got, want)
	}
}

// TestPackPlayer_Completion 测试非循环动作完成标记
func TestPackPlayer_Completion(t *testing.T) {
	p := NewPackPlayer(testActions(), nilLookup)
	p.Play("Pose", false)

	p.Update(0.05)
	if p.IsCompleted() {
		t.Errorf("动画未播完不应报告完成")
	}
	p.Update(0.3)
	if !p.IsCompleted() {
		t.Errorf("非循环动画播完后应报告完成")
	}
}
