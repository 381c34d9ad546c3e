package view

import (
	"github.com/iburimskiy/particle-wishes/internal/gesture"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
)

const (
	TitleIdle  = "Celestial Wishes"
	TitleFinal = "Celebration!"
	Tagline    = "A Magical Experience For You"
	Blow       = "BLOW!"
	WishLine1  = "Happy Birthday"
	WishLine2  = "Dear Sister"
	WishFooter = "May your life be as bright as these stars..."
	IdleHint   = "Waiting for your magic"
)

// Overlay is the text drawn over the scene.
type Overlay struct {
	Title   string
	Tagline string
	// Message is the centred banner; empty lines are skipped.
	Message []string
	Footer  string
	Status  string
}

// Inputs is what the overlay depends on.
type Inputs struct {
	Stage          sequence.Stage
	Gesture        gesture.Gesture
	GestureEnabled bool
}

// Compose builds the overlay for the current state.
func Compose(in Inputs) Overlay {
	o := Overlay{Title: TitleIdle, Tagline: Tagline, Status: GestureStatus(in)}
	switch in.Stage {
	case sequence.Idle:
		o.Footer = IdleHint
	case sequence.BlowMessage:
		o.Message = []string{Blow}
	case sequence.FinalWish:
		o.Title = TitleFinal
		o.Message = []string{WishLine1, WishLine2}
		o.Footer = WishFooter
	}
	return o
}

// GestureStatus is the camera badge text.
func GestureStatus(in Inputs) string {
	switch {
	case in.Stage != sequence.Idle:
		return "Auto Sequence Active"
	case !in.GestureEnabled:
		return "Camera Off"
	case in.Gesture == gesture.None:
		return "Watching..."
	default:
		return "Found: " + string(in.Gesture)
	}
}
