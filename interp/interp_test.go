package interp

import (
	"math"
	"testing"
)

const muEarth = 1.0

// keplerState returns a circular orbit's position/velocity/acceleration at
// true anomaly theta, for use as Hermite/Granule sample data.
func keplerState(r0, theta float64) (p, v, a [3]float64) {
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	c, s := math.Cos(theta), math.Sin(theta)
	p = [3]float64{r0 * c, r0 * s, 0}
	v = [3]float64{-r0 * omega * s, r0 * omega * c, 0}
	amag := muEarth / (r0 * r0)
	a = [3]float64{-amag * c, -amag * s, 0}
	return p, v, a
}

func TestHermiteReproducesEndpoints(t *testing.T) {
	r0 := 1.3
	dt := 0.05
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	p0, vv0, a0 := keplerState(r0, 0)
	p1, vv1, a1 := keplerState(r0, omega*dt)

	h := NewHermite(dt, p0, vv0, a0, p1, vv1, a1)

	x, dx, err := h.XdX(0)
	if err != nil {
		t.Fatalf("XdX(0): %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(x[i]-p0[i]) > 1e-12 {
			t.Errorf("x[%d] at dt=0 = %v, want %v", i, x[i], p0[i])
		}
		if math.Abs(dx[i]-vv0[i]) > 1e-12 {
			t.Errorf("dx[%d] at dt=0 = %v, want %v", i, dx[i], vv0[i])
		}
	}

	x1, dx1, err := h.XdX(dt)
	if err != nil {
		t.Fatalf("XdX(dt): %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(x1[i]-p1[i]) > 1e-9 {
			t.Errorf("x[%d] at dt=dtMax = %v, want %v", i, x1[i], p1[i])
		}
		if math.Abs(dx1[i]-vv1[i]) > 1e-9 {
			t.Errorf("dx[%d] at dt=dtMax = %v, want %v", i, dx1[i], vv1[i])
		}
	}
}

func TestHermiteMidpointStaysNearCircularRadius(t *testing.T) {
	r0 := 1.3
	dt := 0.05
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	p0, vv0, a0 := keplerState(r0, 0)
	p1, vv1, a1 := keplerState(r0, omega*dt)

	h := NewHermite(dt, p0, vv0, a0, p1, vv1, a1)
	x, _, err := h.XdX(dt / 2)
	if err != nil {
		t.Fatalf("XdX(dt/2): %v", err)
	}
	rmag := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	if math.Abs(rmag-r0) > 1e-6 {
		t.Errorf("midpoint radius = %v, want ~%v", rmag, r0)
	}
}

func TestHermiteOutOfRangeRejected(t *testing.T) {
	p0, v0, a0 := keplerState(1.3, 0)
	p1, v1, a1 := keplerState(1.3, 0.01)
	h := NewHermite(0.05, p0, v0, a0, p1, v1, a1)
	if _, _, err := h.XdX(-0.001); err == nil {
		t.Errorf("expected error for dt < 0")
	}
	if _, _, err := h.XdX(0.06); err == nil {
		t.Errorf("expected error for dt > dtMax")
	}
}

func TestHermite1ReproducesEndpoints(t *testing.T) {
	r0 := 1.3
	dt := 0.05
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	p0, vv0, _ := keplerState(r0, 0)
	p1, vv1, _ := keplerState(r0, omega*dt)

	h1 := NewHermite1(dt, p0, vv0, p1, vv1, 1e-9)

	p, err := h1.Position(0)
	if err != nil {
		t.Fatalf("Position(0): %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(p[i]-p0[i]) > 1e-12 {
			t.Errorf("p[%d] at dt=0 = %v, want %v", i, p[i], p0[i])
		}
	}

	v, err := h1.Velocity(dt)
	if err != nil {
		t.Fatalf("Velocity(dt): %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(v[i]-vv1[i]) > 1e-9 {
			t.Errorf("v[%d] at dt=dtMax = %v, want %v", i, v[i], vv1[i])
		}
	}
}

func TestHermite1ToleranceWidensRange(t *testing.T) {
	p0, v0, _ := keplerState(1.3, 0)
	p1, v1, _ := keplerState(1.3, 0.01)
	h1 := NewHermite1(0.05, p0, v0, p1, v1, 1e-6)
	if _, err := h1.Position(-5e-7); err != nil {
		t.Errorf("Position just inside widened lower bound: %v", err)
	}
	if _, err := h1.Position(-1e-3); err == nil {
		t.Errorf("expected error well outside widened range")
	}
}

func TestGranuleFitsCircularOrbitSamples(t *testing.T) {
	r0 := 1.3
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	jd0 := 2459000.5
	secPerTU := 806.81112382429
	n := 9
	ts := make([]float64, n)
	ps := make([][3]float64, n)
	vs := make([][3]float64, n)
	dtu := 0.01
	for i := 0; i < n; i++ {
		tu := float64(i) * dtu
		ts[i] = jd0 + tu*secPerTU/86400.0
		p, v, _ := keplerState(r0, omega*tu)
		ps[i] = p
		vs[i] = v
	}

	g, err := NewGranule(8, ts, ps, vs)
	if err != nil {
		t.Fatalf("NewGranule: %v", err)
	}

	for i := 0; i < n; i++ {
		p, err := g.Position(ts[i])
		if err != nil {
			t.Fatalf("Position(%v): %v", ts[i], err)
		}
		for k := 0; k < 3; k++ {
			if math.Abs(p[k]-ps[i][k]) > 1e-6 {
				t.Errorf("sample %d Position[%d] = %v, want %v", i, k, p[k], ps[i][k])
			}
		}
	}
}

func TestGranuleRejectsOutOfRangeQuery(t *testing.T) {
	r0 := 1.3
	v0 := math.Sqrt(muEarth / r0)
	omega := v0 / r0
	jd0 := 2459000.5
	secPerTU := 806.81112382429
	n := 9
	ts := make([]float64, n)
	ps := make([][3]float64, n)
	vs := make([][3]float64, n)
	dtu := 0.01
	for i := 0; i < n; i++ {
		tu := float64(i) * dtu
		ts[i] = jd0 + tu*secPerTU/86400.0
		p, v, _ := keplerState(r0, omega*tu)
		ps[i] = p
		vs[i] = v
	}
	g, err := NewGranule(8, ts, ps, vs)
	if err != nil {
		t.Fatalf("NewGranule: %v", err)
	}
	if _, err := g.Position(ts[0] - 1.0); err == nil {
		t.Errorf("expected error for query far before granule span")
	}
}

func TestIndexMapperFindsCoveringBlockEvenSpacing(t *testing.T) {
	blocks := make([]Block, 10)
	for i := range blocks {
		blocks[i] = Block{Lo: float64(i), Hi: float64(i + 1)}
	}
	m, err := NewIndexMapper(blocks)
	if err != nil {
		t.Fatalf("NewIndexMapper: %v", err)
	}
	for i, want := range []struct {
		val float64
		idx int
	}{
		{0.0, 0}, {0.5, 0}, {4.999, 4}, {5.0, 5}, {9.999, 9},
	} {
		got, err := m.GetIndex(want.val)
		if err != nil {
			t.Fatalf("case %d: GetIndex(%v): %v", i, want.val, err)
		}
		if got != want.idx {
			t.Errorf("case %d: GetIndex(%v) = %d, want %d", i, want.val, got, want.idx)
		}
	}
}

func TestIndexMapperFindsCoveringBlockUnevenSpacing(t *testing.T) {
	blocks := []Block{
		{Lo: 0, Hi: 1},
		{Lo: 1, Hi: 1.1},
		{Lo: 1.1, Hi: 1.2},
		{Lo: 1.2, Hi: 5},
		{Lo: 5, Hi: 6},
	}
	m, err := NewIndexMapper(blocks)
	if err != nil {
		t.Fatalf("NewIndexMapper: %v", err)
	}
	got, err := m.GetIndex(1.15)
	if err != nil {
		t.Fatalf("GetIndex(1.15): %v", err)
	}
	if got != 2 {
		t.Errorf("GetIndex(1.15) = %d, want 2", got)
	}
	got, err = m.GetIndex(3.0)
	if err != nil {
		t.Fatalf("GetIndex(3.0): %v", err)
	}
	if got != 3 {
		t.Errorf("GetIndex(3.0) = %d, want 3", got)
	}
}

func TestIndexMapperRejectsOutOfRange(t *testing.T) {
	blocks := []Block{{Lo: 0, Hi: 1}, {Lo: 1, Hi: 2}}
	m, err := NewIndexMapper(blocks)
	if err != nil {
		t.Fatalf("NewIndexMapper: %v", err)
	}
	if _, err := m.GetIndex(5.0); err == nil {
		t.Errorf("expected error for value outside all blocks")
	}
}

func TestIndexMapperRejectsDisjointBlocks(t *testing.T) {
	blocks := []Block{{Lo: 0, Hi: 1}, {Lo: 2, Hi: 3}}
	if _, err := NewIndexMapper(blocks); err == nil {
		t.Errorf("expected error for disjoint blocks")
	}
}
