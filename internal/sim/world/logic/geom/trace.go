package geom

import "math"

// SurfaceEpsilon keeps trace end points slightly off the surface they hit.
const SurfaceEpsilon = 0.03125

// TraceResult is the outcome of sweeping a box from one point to another.
// A trace with from == to is a static overlap query.
type TraceResult struct {
	Fraction   float64
	StartSolid bool
	AllSolid   bool
	EndPos     Vec3
}

// Hit reports whether the sweep stopped before reaching its end point.
func (r TraceResult) Hit() bool { return r.Fraction < 1 }

// sweep tests the box (mins,maxs) moving from->to against one solid. Touching
// a solid is not a collision.
func sweep(from, to, mins, maxs Vec3, solid AABB) (enter float64, startSolid, allSolid, hit bool) {
	box := solid.Expand(mins, maxs)
	d := to.Sub(from)
	tEnter, tExit := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if from[i] <= box.Min[i] || from[i] >= box.Max[i] {
				return 0, false, false, false
			}
			continue
		}
		t1 := (box.Min[i] - from[i]) / d[i]
		t2 := (box.Max[i] - from[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tEnter = math.Max(tEnter, t1)
		tExit = math.Min(tExit, t2)
	}
	if tEnter >= tExit || tExit <= 0 {
		return 0, false, false, false
	}
	if tEnter < 0 {
		return 0, true, tExit > 1, true
	}
	if tEnter > 1 {
		return 0, false, false, false
	}
	return tEnter, false, false, true
}

// TraceBoxes sweeps (mins,maxs) from->to against every solid and reports the
// earliest impact.
func TraceBoxes(from, to, mins, maxs Vec3, solids []AABB) TraceResult {
	res := TraceResult{Fraction: 1, EndPos: to}
	length := math.Sqrt(dot(to.Sub(from), to.Sub(from)))
	for _, s := range solids {
		enter, startSolid, allSolid, hit := sweep(from, to, mins, maxs, s)
		if !hit {
			continue
		}
		if startSolid {
			res.StartSolid = true
			if allSolid {
				res.AllSolid = true
			}
			continue
		}
		f := enter
		if length > 0 {
			f = math.Max(0, enter-SurfaceEpsilon/length)
		}
		if f < res.Fraction {
			res.Fraction = f
		}
	}
	if res.AllSolid {
		res.Fraction = 0
	}
	res.EndPos = Lerp(from, to, res.Fraction)
	return res
}

// Merge combines two traces of the same segment into the nearer impact.
func Merge(from, to Vec3, a, b TraceResult) TraceResult {
	out := a
	if b.Fraction < out.Fraction {
		out.Fraction = b.Fraction
	}
	out.StartSolid = a.StartSolid || b.StartSolid
	out.AllSolid = a.AllSolid || b.AllSolid
	if out.AllSolid {
		out.Fraction = 0
	}
	out.EndPos = Lerp(from, to, out.Fraction)
	return out
}

func dot(a, b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
