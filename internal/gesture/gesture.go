// Package gesture turns camera frames into template changes.
//
// Recognition is best effort. A Recognizer never fails: whatever goes wrong
// at the model boundary comes back as the neutral result.
package gesture

import (
	"context"
	"strings"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// Gesture is a hand pose the model is asked to pick from.
type Gesture string

const (
	Heart    Gesture = "heart"
	Peace    Gesture = "peace"
	Fist     Gesture = "fist"
	Open     Gesture = "open"
	Point    Gesture = "point"
	ThumbsUp Gesture = "thumbs up"
	None     Gesture = "none"
)

// Known lists the recognisable gestures, None excluded.
var Known = []Gesture{Heart, Peace, Fist, Open, Point, ThumbsUp}

var templates = map[Gesture]shape.Template{
	Heart:    shape.Heart,
	Peace:    shape.Flower,
	Fist:     shape.Blast,
	Open:     shape.Fireworks,
	Point:    shape.Design,
	ThumbsUp: shape.Spiral,
}

// Parse normalises a model label. Unknown labels map to None.
func Parse(s string) Gesture {
	g := Gesture(strings.Join(strings.Fields(strings.ToLower(s)), " "))
	switch g {
	case "thumbs-up", "thumbs_up", "thumbsup":
		return ThumbsUp
	}
	if _, ok := templates[g]; ok {
		return g
	}
	return None
}

// Template returns the template a gesture selects.
func Template(g Gesture) (shape.Template, bool) {
	t, ok := templates[g]
	return t, ok
}

// Result is one recognition outcome.
type Result struct {
	Gesture    Gesture `json:"gesture"`
	Confidence float64 `json:"confidence"`
}

// Neutral is returned whenever recognition cannot produce an answer.
func Neutral() Result { return Result{Gesture: None} }

// Actionable reports whether r clears threshold and names a mapped gesture.
func (r Result) Actionable(threshold float64) bool {
	if r.Gesture == None || r.Confidence <= threshold {
		return false
	}
	_, ok := templates[r.Gesture]
	return ok
}

// Recognizer classifies a JPEG frame. Implementations must not return
// errors; failures degrade to Neutral.
type Recognizer interface {
	Recognize(ctx context.Context, jpeg []byte) Result
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, jpeg []byte) Result

func (f RecognizerFunc) Recognize(ctx context.Context, jpeg []byte) Result { return f(ctx, jpeg) }
