package shimeji

import (
	"os"
	"path/filepath"
	"testing"
)

// sampleActionsXML is a minimal actions.xml in the Shimeji format.
const sampleActionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Mascot xmlns="http://www.group-finity.com/Mascot">
  <ActionList>
    <Action Name="Stand" Type="Stay" BorderType="Floor">
      <Animation>
        <Pose Image="/shime1.png" ImageAnchor="64,128" Velocity="0,0" Duration="250" />
      </Animation>
    </Action>
    <Action Name="Walk" Type="Move" BorderType="Floor">
      <Animation>
        <Pose Image="/shime2.png" ImageAnchor="64,128" Velocity="-2,0" Duration="6" />
        <Pose Image="/shime3.png" ImageAnchor="64,128" Velocity="-2,0" Duration="6" Sound="/step.wav" Volume="-8" />
      </Animation>
    </Action>
    <Action Name="Broken" Type="Stay">
      <Animation>
        <Pose Image="/bad.png" ImageAnchor="not,numeric" Velocity="0,0" Duration="4" />
        <Pose Image="/ok.png" ImageAnchor="64,128" Velocity="0,0" Duration="4" />
      </Animation>
    </Action>
  </ActionList>
</Mascot>`

// sampleBehaviorsXML exercises both top-level and condition-nested behaviors.
const sampleBehaviorsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Mascot xmlns="http://www.group-finity.com/Mascot">
  <BehaviorList>
    <Behavior Name="SitDown" Frequency="200" />
    <Behavior Name="ChaseMouse" Frequency="0" Hidden="true" />
    <Condition Condition="#{mascot.onFloor}">
      <Behavior Name="WalkAlongWorkAreaFloor" Frequency="200" />
    </Condition>
  </BehaviorList>
</Mascot>`

func writeTempXML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

// TestParseActionsFile_Success tests parsing a well-formed actions.xml
func TestParseActionsFile_Success(t *testing.T) {
	path := writeTempXML(t, "actions.xml", sampleActionsXML)

	actions, err := ParseActionsFile(path)
	if err != nil {
		t.Fatalf("Failed to parse actions.xml: %v", err)
	}

	if len(actions) != 3 {
		t.Errorf("Expected 3 actions, got %d", len(actions))
	}

	stand, ok := actions["Stand"]
	if !ok {
		t.Fatalf("Expected action 'Stand' to be present")
	}
	if stand.Type != "Stay" || stand.BorderType != "Floor" {
		t.Errorf("Stand metadata wrong: Type=%s BorderType=%s", stand.Type, stand.BorderType)
	}
	if len(stand.Animations) != 1 || len(stand.Animations[0]) != 1 {
		t.Fatalf("Stand should have one animation with one pose")
	}
	pose := stand.Animations[0][0]
	if pose.Image != "shime1.png" {
		t.Errorf("Expected leading slash stripped, got image '%s'", pose.Image)
	}
	// 250 frames at 30 fps
	wantDuration := 250.0 / 30.0
	if pose.Duration != wantDuration {
		t.Errorf("Expected duration %.4f, got %.4f", wantDuration, pose.Duration)
	}
}

// TestParseActionsFile_VelocityConversion tests px/frame -> px/s conversion
func TestParseActionsFile_VelocityConversion(t *testing.T) {
	path := writeTempXML(t, "actions.xml", sampleActionsXML)

	actions, err := ParseActionsFile(path)
	if err != nil {
		t.Fatalf("Failed to parse actions.xml: %v", err)
	}

	walk := actions["Walk"]
	if walk == nil || len(walk.Animations) != 1 {
		t.Fatalf("Expected Walk action with one animation")
	}
	poses := walk.Animations[0]
	if len(poses) != 2 {
		t.Fatalf("Expected 2 walk poses, got %d", len(poses))
	}
	// -2 px/frame at 30 fps = -60 px/s
	if poses[0].VelocityX != -60 {
		t.Errorf("Expected VelocityX=-60, got %.1f", poses[0].VelocityX)
	}
	if poses[1].Sound != "step.wav" {
		t.Errorf("Expected sound 'step.wav', got '%s'", poses[1].Sound)
	}
	if poses[1].Volume == nil || *poses[1].Volume != -8 {
		t.Errorf("Expected Volume=-8, got %v", poses[1].Volume)
	}
}

// TestParseActionsFile_MalformedPoseSkipped tests that one bad pose does not
// discard the rest of the animation
func TestParseActionsFile_MalformedPoseSkipped(t *testing.T) {
	path := writeTempXML(t, "actions.xml", sampleActionsXML)

	actions, err := ParseActionsFile(path)
	if err != nil {
		t.Fatalf("Failed to parse actions.xml: %v", err)
	}

	broken := actions["Broken"]
	if broken == nil {
		t.Fatalf("Expected 'Broken' action to survive a malformed pose")
	}
	if len(broken.Animations) != 1 || len(broken.Animations[0]) != 1 {
		t.Fatalf("Expected the single valid pose to be kept, got %v", broken.Animations)
	}
	if broken.Animations[0][0].Image != "ok.png" {
		t.Errorf("Expected the valid pose 'ok.png', got '%s'", broken.Animations[0][0].Image)
	}
}

// TestParseBehaviorsFile_Success tests behavior parsing including nested
// Condition blocks
func TestParseBehaviorsFile_Success(t *testing.T) {
	path := writeTempXML(t, "behaviors.xml", sampleBehaviorsXML)

	behaviors, err := ParseBehaviorsFile(path)
	if err != nil {
		t.Fatalf("Failed to parse behaviors.xml: %v", err)
	}

	if len(behaviors) != 3 {
		t.Errorf("Expected 3 behaviors, got %d", len(behaviors))
	}

	sit := behaviors["SitDown"]
	if sit == nil || sit.Frequency != 200 || sit.Hidden {
		t.Errorf("SitDown parsed wrong: %+v", sit)
	}

	chase := behaviors["ChaseMouse"]
	if chase == nil || !chase.Hidden {
		t.Errorf("Expected ChaseMouse to be hidden: %+v", chase)
	}

	if behaviors["WalkAlongWorkAreaFloor"] == nil {
		t.Errorf("Expected condition-nested behavior to be collected")
	}
}

// TestParseActionsFile_FileMissing tests the error path for a missing file
func TestParseActionsFile_FileMissing(t *testing.T) {
	_, err := ParseActionsFile(filepath.Join(t.TempDir(), "nope.xml"))
	if err == nil {
		t.Errorf("Expected error for missing file, got nil")
	}
}

// TestParsePair tests "x,y" attribute decoding
func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantX   int
		wantY   int
		wantErr bool
	}{
		{"正常值", "64,128", 64, 128, false},
		{"带空格", " 3 , -4 ", 3, -4, false},
		{"空值使用默认", "", 10, 20, false},
		{"缺少分隔符", "64", 0, 0, true},
		{"非数字", "a,b", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := parsePair(tt.input, 10, 20)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePair(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && (x != tt.wantX || y != tt.wantY) {
				t.Errorf("parsePair(%q) = (%d, %d), want (%d, %d)", tt.input, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
