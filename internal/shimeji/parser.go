package shimeji

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// packFrameRate is the frame rate the Shimeji pose format assumes.
// Pose durations are given in frames and velocities in pixels per frame;
// both are converted to seconds / pixels-per-second during parsing.
const packFrameRate = 30.0

// ParseActionsFile parses an actions.xml file and returns all actions keyed
// by name. Pose attributes are decoded into numeric form; a pose with a
// malformed numeric attribute is skipped rather than failing the whole file.
//
// Parameters:
//   - path: path to the file, e.g. "assets/shimeji/conf/actions.xml"
//
// Returns:
//   - map[string]*ActionData: parsed actions keyed by action name
//   - error: read or XML syntax error, nil on success
func ParseActionsFile(path string) (map[string]*ActionData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read actions file '%s': %w", path, err)
	}

	var doc MascotXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse XML from '%s': %w", path, err)
	}

	actions := make(map[string]*ActionData, len(doc.ActionList.Actions))
	for _, a := range doc.ActionList.Actions {
		if a.Name == "" {
			continue
		}
		parsed := &ActionData{
			Name:       a.Name,
			Type:       a.Type,
			BorderType: a.BorderType,
		}
		for _, anim := range a.Animations {
			poses := make([]PoseData, 0, len(anim.Poses))
			for _, p := range anim.Poses {
				pose, err := ParsePose(p)
				if err != nil {
					// Skip malformed poses; the remaining frames still form
					// a usable animation.
					continue
				}
				poses = append(poses, pose)
			}
			if len(poses) > 0 {
				parsed.Animations = append(parsed.Animations, poses)
			}
		}
		actions[a.Name] = parsed
	}

	return actions, nil
}

// ParseBehaviorsFile parses a behaviors.xml file and returns all behavior
// entries keyed by name, including those nested inside Condition blocks.
func ParseBehaviorsFile(path string) (map[string]*BehaviorData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviors file '%s': %w", path, err)
	}

	var doc MascotXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse XML from '%s': %w", path, err)
	}

	behaviors := make(map[string]*BehaviorData)
	collect := func(list []Behavior) {
		for _, b := range list {
			if b.Name == "" {
				continue
			}
			behaviors[b.Name] = &BehaviorData{
				Name:      b.Name,
				Frequency: b.Frequency,
				Hidden:    b.Hidden,
			}
		}
	}
	collect(doc.BehaviorList.Behaviors)
	for _, cond := range doc.BehaviorList.Conditions {
		collect(cond.Behaviors)
	}

	return behaviors, nil
}

// ParsePose decodes the raw attribute strings of a Pose into a PoseData.
// Duration is converted from frames to seconds and velocity from pixels per
// frame to pixels per second, both assuming the format's 30 fps timebase.
func ParsePose(p Pose) (PoseData, error) {
	anchorX, anchorY, err := parsePair(p.ImageAnchor, 64, 128)
	if err != nil {
		return PoseData{}, fmt.Errorf("invalid ImageAnchor '%s': %w", p.ImageAnchor, err)
	}

	velX, velY, err := parsePair(p.Velocity, 0, 0)
	if err != nil {
		return PoseData{}, fmt.Errorf("invalid Velocity '%s': %w", p.Velocity, err)
	}

	duration := p.Duration
	if duration <= 0 {
		duration = 1
	}

	return PoseData{
		Image:     strings.TrimPrefix(p.Image, "/"),
		AnchorX:   anchorX,
		AnchorY:   anchorY,
		VelocityX: float64(velX) * packFrameRate,
		VelocityY: float64(velY) * packFrameRate,
		Duration:  float64(duration) / packFrameRate,
		Sound:     strings.TrimPrefix(p.Sound, "/"),
		Volume:    p.Volume,
	}, nil
}

// parsePair decodes an "x,y" attribute value. An empty value yields the
// provided defaults; anything else must be two comma-separated integers.
func parsePair(s string, defX, defY int) (int, int, error) {
	if s == "" {
		return defX, defY, nil
	}
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated values")
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
