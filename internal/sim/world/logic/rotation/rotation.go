package rotation

// Step is the rotation increment of a build session, in degrees.
const Step = 90

// Normalize converts a client-provided rotation into a stable quarter-turn
// count in [0,3].
//
// It accepts either quarter-turns (0..3) or degrees (multiples of 90).
func Normalize(r int) int {
	// Treat large multiples of 90 as degrees.
	if r%90 == 0 && (r > 3 || r < -3) {
		r = r / 90
	}
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}

// Degrees maps any accepted rotation value onto {0,90,180,270}.
func Degrees(r int) int { return Normalize(r) * Step }

// Next advances a rotation by one step, wrapping at 360.
func Next(deg int) int { return (Degrees(deg) + Step) % 360 }

// Yaw returns the (pitch, yaw, roll) triple for a placed piece. Pitch and
// roll are always zero.
func Yaw(deg int) [3]float64 { return [3]float64{0, float64(Degrees(deg)), 0} }
