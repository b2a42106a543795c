// Package timescale implements Julian date and duration algebra and the
// UTC/TAI/TT/UT1/TDB time scale conversions used throughout eomgo.
package timescale

import (
	"math"
	"time"
)

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = 86400.0

// JD2000 is the Julian date of the J2000.0 epoch (2000-01-01T12:00:00 TT).
const JD2000 = 2451545.0

// DaysPerJulianCentury is the Julian century length in days.
const DaysPerJulianCentury = 36525.0

// TT - TAI is a fixed offset (seconds), per the definition of TT.
const ttMinusTAI = 32.184

// Canonical distance/time units (DU/TU, GLOSSARY): DU is the Earth
// equatorial radius, TU is chosen so that GM_Earth = 1 DU^3/TU^2.
const (
	EarthRadiusKm = 6378.137
	MuEarthKm3S2  = 398600.4418
)

// SecPerTU is the number of SI seconds in one canonical time unit (TU).
var SecPerTU = math.Sqrt(EarthRadiusKm * EarthRadiusKm * EarthRadiusKm / MuEarthKm3S2)

// leapEntry is one row of the TAI-UTC leap second table (IERS bulletin C).
type leapEntry struct {
	jd     float64 // JD (UTC) at 0h on the date the offset takes effect
	offset float64 // TAI - UTC, seconds
}

// leapTable is the published history of whole leap seconds since the start
// of the current TAI-UTC regime in 1972.
var leapTable = []leapEntry{
	{2441317.5, 10},
	{2441499.5, 11},
	{2441683.5, 12},
	{2442048.5, 13},
	{2442413.5, 14},
	{2442778.5, 15},
	{2443144.5, 16},
	{2443509.5, 17},
	{2443874.5, 18},
	{2444239.5, 19},
	{2444786.5, 20},
	{2445151.5, 21},
	{2445516.5, 22},
	{2446247.5, 23},
	{2447161.5, 24},
	{2447892.5, 25},
	{2448257.5, 26},
	{2448804.5, 27},
	{2449169.5, 28},
	{2449534.5, 29},
	{2450083.5, 30},
	{2450630.5, 31},
	{2451179.5, 32},
	{2453736.5, 33},
	{2454832.5, 34},
	{2456109.5, 35},
	{2457204.5, 36},
	{2457754.5, 37},
}

// LeapSecondOffset returns TAI-UTC (whole seconds) in effect at the given
// UTC Julian date. Dates before the 1972 table start clamp to the first
// entry; dates after the last entry clamp to the latest known offset.
func LeapSecondOffset(jdUTC float64) float64 {
	if jdUTC < leapTable[0].jd {
		return leapTable[0].offset
	}
	off := leapTable[0].offset
	for _, e := range leapTable {
		if jdUTC < e.jd {
			break
		}
		off = e.offset
	}
	return off
}

// deltaTEntry is one row of the decadal Delta-T (TT-UT1) history/prediction
// table used by DeltaT.
type deltaTEntry struct {
	year float64
	dt   float64 // seconds
}

var deltaTTable = []deltaTEntry{
	{1800, 18.3670}, {1810, 14.6}, {1820, 11.0}, {1830, 8.2}, {1840, 5.7},
	{1850, 3.5}, {1860, 1.8}, {1870, 0.5}, {1880, -1.0}, {1890, -2.7},
	{1900, -2.8}, {1910, 10.5}, {1920, 21.2}, {1930, 24.0}, {1940, 24.3},
	{1950, 29.1}, {1960, 33.2}, {1970, 40.2}, {1980, 50.5}, {1990, 56.9},
	{2000, 63.829}, {2010, 66.1}, {2020, 69.0}, {2030, 72.0}, {2040, 76.0},
	{2050, 80.0}, {2060, 84.0}, {2070, 89.0}, {2080, 95.0}, {2090, 101.0},
	{2100, 108.0}, {2110, 116.0}, {2120, 124.0}, {2130, 133.0}, {2140, 142.0},
	{2150, 152.0}, {2160, 162.0}, {2170, 173.0}, {2180, 184.0}, {2190, 196.0},
	{2200, 208.0},
}

// DeltaT returns an estimate of TT-UT1 (seconds) for the given decimal
// year, linearly interpolated from a decadal table and clamped at both
// ends.
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].dt
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].dt
	}
	idx := int((year - deltaTTable[0].year) / 10.0)
	if idx >= n-1 {
		idx = n - 2
	}
	t0, t1 := deltaTTable[idx], deltaTTable[idx+1]
	frac := (year - t0.year) / (t1.year - t0.year)
	return t0.dt + frac*(t1.dt-t0.dt)
}

// TimeToJDUTC converts a time.Time (interpreted in UTC) to a UTC Julian
// date, preserving sub-second precision.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	ns := t.Nanosecond()

	a := (14 - int(mo)) / 12
	y2 := y + 4800 - a
	m2 := int(mo) + 12*a - 3
	jdn := d + (153*m2+2)/5 + 365*y2 + y2/4 - y2/100 + y2/400 - 32045

	frac := (float64(h)-12.0)/24.0 + float64(mi)/1440.0 + float64(s)/SecPerDay + float64(ns)/(SecPerDay*1e9)
	return float64(jdn) + frac
}

// UTCToTT converts a UTC Julian date to a TT Julian date:
// TT = UTC + (leap seconds + 32.184) / 86400.
func UTCToTT(jdUTC float64) float64 {
	return jdUTC + (LeapSecondOffset(jdUTC)+ttMinusTAI)/SecPerDay
}

// TTToUT1 converts a TT Julian date to a UT1 Julian date using DeltaT.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-JD2000)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds using the standard Fairhead-Bretagnon
// truncated series (accurate to ~2us, amplitude under 2ms).
func TDBMinusTT(jdTT float64) float64 {
	g := (357.53 + 0.9856003*(jdTT-JD2000)) * math.Pi / 180.0
	return 0.001658*math.Sin(g) + 0.000014*math.Sin(2*g)
}

// JulianCenturiesTT returns the number of Julian centuries of TT elapsed
// since J2000.0.
func JulianCenturiesTT(jdTT float64) float64 {
	return (jdTT - JD2000) / DaysPerJulianCentury
}

// Duration is a signed span of time stored internally in canonical time
// units (TU), per the GLOSSARY.
type Duration struct {
	tu float64
}

// NewDurationTU builds a Duration directly from a TU value.
func NewDurationTU(tu float64) Duration { return Duration{tu: tu} }

// NewDurationDays builds a Duration from a number of days.
func NewDurationDays(days float64) Duration {
	return Duration{tu: days * SecPerDay / SecPerTU}
}

// NewDurationSeconds builds a Duration from a number of seconds.
func NewDurationSeconds(sec float64) Duration {
	return Duration{tu: sec / SecPerTU}
}

// NewDurationMinutes builds a Duration from a number of minutes.
func NewDurationMinutes(min float64) Duration {
	return Duration{tu: min * 60.0 / SecPerTU}
}

// TU returns the duration in canonical time units.
func (d Duration) TU() float64 { return d.tu }

// Days returns the duration in days.
func (d Duration) Days() float64 { return d.tu * SecPerTU / SecPerDay }

// Seconds returns the duration in seconds.
func (d Duration) Seconds() float64 { return d.tu * SecPerTU }

// Minutes returns the duration in minutes.
func (d Duration) Minutes() float64 { return d.Seconds() / 60.0 }

// Add returns the sum of two durations.
func (d Duration) Add(o Duration) Duration { return Duration{tu: d.tu + o.tu} }

// Sub returns the difference of two durations.
func (d Duration) Sub(o Duration) Duration { return Duration{tu: d.tu - o.tu} }

// Neg returns the negation of a duration.
func (d Duration) Neg() Duration { return Duration{tu: -d.tu} }

// Scale returns the duration scaled by a factor.
func (d Duration) Scale(f float64) Duration { return Duration{tu: d.tu * f} }

// JulianDate is a two-component high-precision Julian date: an integer-
// valued "high" part and a fractional "low" part in [0, 1), per spec.md
// section 3. Add accumulates into the low part and folds whole days into
// the high part after every addition, so the low part stays in [0, 1).
type JulianDate struct {
	hi float64
	lo float64
}

func normalizeJD(hi, lo float64) JulianDate {
	whole := math.Floor(lo)
	return JulianDate{hi: hi + whole, lo: lo - whole}
}

// NewJulianDateUTC builds a normalized JulianDate from a UTC calendar date.
func NewJulianDateUTC(year, month, day, hour, minute int, sec float64) JulianDate {
	a := (14 - month) / 12
	y2 := year + 4800 - a
	m2 := month + 12*a - 3
	jdn := day + (153*m2+2)/5 + 365*y2 + y2/4 - y2/100 + y2/400 - 32045
	frac := (float64(hour)-12.0)/24.0 + float64(minute)/1440.0 + sec/SecPerDay
	return normalizeJD(float64(jdn), frac)
}

// NewJulianDateHighLow builds a normalized JulianDate from an explicit
// high/low split (e.g. the output of a propagator step).
func NewJulianDateHighLow(hi, lo float64) JulianDate {
	return normalizeJD(hi, lo)
}

// FromTime builds a JulianDate (UTC) from a time.Time.
func FromTime(t time.Time) JulianDate {
	jd := TimeToJDUTC(t)
	hi := math.Floor(jd)
	return normalizeJD(hi, jd-hi)
}

// JD returns the Julian date as a single float64.
func (j JulianDate) JD() float64 { return j.hi + j.lo }

// HighLow returns the internal high/low split.
func (j JulianDate) HighLow() (hi, lo float64) { return j.hi, j.lo }

// Add returns j shifted by a Duration.
func (j JulianDate) Add(d Duration) JulianDate {
	return normalizeJD(j.hi, j.lo+d.Days())
}

// Sub returns the difference (j - o) in days.
func (j JulianDate) Sub(o JulianDate) float64 {
	return (j.hi - o.hi) + (j.lo - o.lo)
}

// Before reports whether j is chronologically before o.
func (j JulianDate) Before(o JulianDate) bool { return j.JD() < o.JD() }

// After reports whether j is chronologically after o.
func (j JulianDate) After(o JulianDate) bool { return j.JD() > o.JD() }

// JulianCenturiesJ2000 returns Julian centuries elapsed since J2000.0,
// treating j's value as TT.
func (j JulianDate) JulianCenturiesJ2000() float64 {
	return (j.JD() - JD2000) / DaysPerJulianCentury
}

// Calendar decomposes the JulianDate into UTC calendar components,
// distributing the fractional day without rounding-induced 60-second
// overflow.
func (j JulianDate) Calendar() (year, month, day, hour, minute int, sec float64) {
	jd := j.JD() + 0.5
	z := math.Floor(jd)
	f := jd - z

	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	dayFrac := b - d - math.Floor(30.6001*e) + f
	day = int(dayFrac)
	fracDay := dayFrac - float64(day)

	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	totalSec := math.Round(fracDay * SecPerDay * 1e6) / 1e6
	hour = int(totalSec / 3600.0)
	totalSec -= float64(hour) * 3600.0
	minute = int(totalSec / 60.0)
	sec = totalSec - float64(minute)*60.0
	if sec >= 60.0 {
		sec -= 60.0
		minute++
	}
	if minute >= 60 {
		minute -= 60
		hour++
	}
	return
}
