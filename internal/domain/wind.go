package domain

import "math"

// WindComponents splits a wind reading into eastward (u) and northward (v)
// components. Direction is where the wind blows from, so a north wind has
// negative v. Calm yields (0, 0); a missing speed or direction yields NaN.
func WindComponents(speed, direction Value) (u, v float64) {
	if speed.IsCalm() || direction.IsCalm() {
		return 0, 0
	}
	if speed.IsMissing() || direction.IsMissing() {
		return math.NaN(), math.NaN()
	}
	rad := direction.Num * math.Pi / 180
	return -speed.Num * math.Sin(rad), -speed.Num * math.Cos(rad)
}
