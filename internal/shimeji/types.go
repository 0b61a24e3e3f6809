// Package shimeji provides data structures and parsers for Shimeji sprite-pack
// configuration files. A sprite pack ships two XML documents under its conf/
// directory: actions.xml, which defines named animations frame by frame, and
// behaviors.xml, which assigns spontaneous-behavior frequencies to them.
package shimeji

// MascotXML is the root structure of both Shimeji configuration documents.
// actions.xml populates ActionList, behaviors.xml populates BehaviorList.
type MascotXML struct {
	// ActionList holds all named actions (actions.xml only)
	ActionList ActionList `xml:"ActionList"`

	// BehaviorList holds all behavior frequency entries (behaviors.xml only)
	BehaviorList BehaviorList `xml:"BehaviorList"`
}

// ActionList is the container element for action definitions.
type ActionList struct {
	Actions []Action `xml:"Action"`
}

// Action defines a single named animation, e.g. "Stand", "Walk" or "Pinched".
type Action struct {
	// Name is the action name referenced by the state machine, e.g. "Walk"
	Name string `xml:"Name,attr"`

	// Type is the Shimeji action category ("Stay", "Move", "Animate", ...).
	// The playback layer treats it as opaque metadata.
	Type string `xml:"Type,attr"`

	// BorderType restricts where the action may run ("Floor", "Wall", "Ceiling")
	BorderType string `xml:"BorderType,attr"`

	// Animations is the list of animation variants for this action.
	// Most actions carry exactly one; conditional variants are rare.
	Animations []Animation `xml:"Animation"`
}

// Animation is one variant of an action: an ordered pose sequence.
type Animation struct {
	// Condition is an optional Shimeji script expression selecting this variant
	Condition string `xml:"Condition,attr"`

	Poses []Pose `xml:"Pose"`
}

// Pose is a single animation frame. Numeric pairs (ImageAnchor, Velocity) are
// kept as their raw "x,y" attribute strings here; ParsePose converts them.
type Pose struct {
	// Image is the sprite file for this frame, e.g. "/shime1.png".
	// The leading slash is part of the format and stripped during parsing.
	Image string `xml:"Image,attr"`

	// ImageAnchor is the sprite anchor point as "x,y" in pixels
	ImageAnchor string `xml:"ImageAnchor,attr"`

	// Velocity is the per-frame velocity as "vx,vy" in pixels per frame
	// (the format assumes 30 frames per second)
	Velocity string `xml:"Velocity,attr"`

	// Duration is how long the frame is shown, in animation frames (30 fps)
	Duration int `xml:"Duration,attr"`

	// Sound is an optional sound file triggered when the frame starts
	Sound string `xml:"Sound,attr"`

	// Volume is the optional sound attenuation in dB (usually negative)
	Volume *int `xml:"Volume,attr"`
}

// BehaviorList is the container element for behavior entries. Shimeji packs
// may nest behaviors inside Condition blocks; both levels are collected.
type BehaviorList struct {
	Behaviors  []Behavior       `xml:"Behavior"`
	Conditions []ConditionBlock `xml:"Condition"`
}

// ConditionBlock groups behaviors behind a Shimeji script condition.
type ConditionBlock struct {
	Condition string     `xml:"Condition,attr"`
	Behaviors []Behavior `xml:"Behavior"`
}

// Behavior assigns a spontaneous-selection frequency to an action.
type Behavior struct {
	// Name is the behavior name, e.g. "SitDown" or "WalkAlongWorkAreaFloor"
	Name string `xml:"Name,attr"`

	// Frequency is the relative selection weight; 0 disables spontaneous use
	Frequency int `xml:"Frequency,attr"`

	// Hidden excludes the behavior from spontaneous selection entirely
	Hidden bool `xml:"Hidden,attr"`
}

// PoseData is the parsed form of a Pose with numeric fields decoded.
type PoseData struct {
	// Image is the sprite file name with the leading slash removed
	Image string

	// AnchorX, AnchorY is the sprite anchor point in pixels
	AnchorX, AnchorY int

	// VelocityX, VelocityY is the frame velocity in pixels per second
	// (already converted from the format's pixels-per-frame at 30 fps)
	VelocityX, VelocityY float64

	// Duration is the frame display time in seconds
	Duration float64

	// Sound is the optional sound file with the leading slash removed
	Sound string

	// Volume is the optional sound attenuation in dB
	Volume *int
}

// ActionData is the parsed form of an Action: the pose sequences of all its
// animation variants, flattened to parsed poses.
type ActionData struct {
	Name       string
	Type       string
	BorderType string

	// Animations holds one parsed pose list per animation variant
	Animations [][]PoseData
}

// BehaviorData is the parsed form of a Behavior.
type BehaviorData struct {
	Name      string
	Frequency int
	Hidden    bool
}
