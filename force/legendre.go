package force

import "math"

// legendreTable holds normalized associated Legendre function values
// P(n,m)(sin phi) for n in [0, nmax] and m in [0, mmax+1], using the
// standard normalized-ALF column recurrence (sectoral seed, then forward
// recursion in n), per original_source/include/mth_legendre_af.h. One
// extra order column (mmax+1) is kept because the latitude partial needs
// P(n, m+1).
type legendreTable struct {
	nmax, mmax int
	p          [][]float64 // p[n][m]
}

func newLegendreTable(nmax, mmax int) *legendreTable {
	t := &legendreTable{nmax: nmax, mmax: mmax}
	t.p = make([][]float64, nmax+1)
	for n := range t.p {
		t.p[n] = make([]float64, mmax+2)
	}
	return t
}

// set populates the table for the given sin(phi)/cos(phi) geometry.
func (t *legendreTable) set(sinPhi, cosPhi float64) {
	maxM := t.mmax + 1
	if maxM > t.nmax {
		maxM = t.nmax
	}

	t.p[0][0] = 1.0
	for m := 1; m <= maxM; m++ {
		t.p[m][m] = cosPhi * math.Sqrt(float64(2*m+1)/float64(2*m)) * t.p[m-1][m-1]
	}
	for m := 0; m <= maxM; m++ {
		for n := m + 1; n <= t.nmax; n++ {
			if n == m+1 {
				// P(m+1,m) has no P(n-2,m) term.
				a := math.Sqrt(float64((2*n-1)*(2*n+1)) / float64((n-m)*(n+m)))
				t.p[n][m] = a * sinPhi * t.p[n-1][m]
				continue
			}
			a := math.Sqrt(float64((2*n-1)*(2*n+1)) / float64((n-m)*(n+m)))
			b := math.Sqrt(float64((2*n+1)*(n+m-1)*(n-m-1)) / float64((2*n-3)*(n-m)*(n+m)))
			t.p[n][m] = a*sinPhi*t.p[n-1][m] - b*t.p[n-2][m]
		}
	}
}

// at returns P(n,m); out-of-range (m>n) is zero.
func (t *legendreTable) at(n, m int) float64 {
	if m > n || n > t.nmax || m < 0 || m > t.mmax+1 {
		return 0
	}
	return t.p[n][m]
}
