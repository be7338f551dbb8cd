// Package ease provides the easing curves chart tweens interpolate with.
//
// Every curve maps progress in [0, 1] to an eased fraction with f(0) = 0 and
// f(1) = 1. Some curves overshoot in between.
package ease

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Func is an easing curve.
type Func func(t float64) float64

// ErrUnknownEase is returned by ByName for a name with no curve.
var ErrUnknownEase = errors.New("ease: unknown curve")

// Linear does not ease.
func Linear(t float64) float64 { return t }

// InQuad accelerates from zero velocity.
func InQuad(t float64) float64 { return t * t }

// OutQuad decelerates to zero velocity.
func OutQuad(t float64) float64 { return t * (2 - t) }

// InOutQuad accelerates until halfway, then decelerates.
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}

	return -1 + (4-2*t)*t
}

// InCubic accelerates from zero velocity.
func InCubic(t float64) float64 { return t * t * t }

// OutCubic decelerates to zero velocity.
func OutCubic(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}

// InOutCubic accelerates until halfway, then decelerates.
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}

	u := 2*t - 2

	return 0.5*u*u*u + 1
}

// InSine follows a quarter sine wave.
func InSine(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

// OutSine follows a quarter sine wave.
func OutSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

// InOutSine follows half a cosine wave.
func InOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

// InExpo starts very slow.
func InExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}

	return math.Pow(2, 10*t-10)
}

// OutExpo ends very slow.
func OutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}

	return 1 - math.Pow(2, -10*t)
}

// OutBack overshoots the target and settles back.
func OutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1

	u := t - 1

	return 1 + c3*u*u*u + c1*u*u
}

// OutBounce bounces against the target.
func OutBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Step holds zero until the end.
func Step(t float64) float64 {
	if t >= 1 {
		return 1
	}

	return 0
}

var curves = map[string]Func{
	"linear":     Linear,
	"inquad":     InQuad,
	"outquad":    OutQuad,
	"inoutquad":  InOutQuad,
	"incubic":    InCubic,
	"outcubic":   OutCubic,
	"inoutcubic": InOutCubic,
	"insine":     InSine,
	"outsine":    OutSine,
	"inoutsine":  InOutSine,
	"inexpo":     InExpo,
	"outexpo":    OutExpo,
	"outback":    OutBack,
	"outbounce":  OutBounce,
	"step":       Step,
}

// ByName looks up a curve. Names are case-insensitive and may use dashes or
// underscores, so "outQuad", "out-quad" and "OUT_QUAD" are the same curve. An
// empty name is Linear.
func ByName(name string) (Func, error) {
	if name == "" {
		return Linear, nil
	}

	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "").Replace(key)

	f, ok := curves[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}

	return f, nil
}

// Names lists the canonical curve names.
func Names() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
