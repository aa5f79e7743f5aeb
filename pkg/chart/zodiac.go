package chart

import "math"

// SignWidth is the arc of one zodiac sign in degrees.
const SignWidth = 30.0

// NakshatraWidth is the arc of one lunar mansion in degrees (13°20').
const NakshatraWidth = 360.0 / 27.0

// Sign describes one zodiac sign.
type Sign struct {
	Index int
	Name  string
	Glyph string
}

// Signs lists the twelve signs from Aries.
var Signs = [12]Sign{
	{0, "Aries", "♈"},
	{1, "Taurus", "♉"},
	{2, "Gemini", "♊"},
	{3, "Cancer", "♋"},
	{4, "Leo", "♌"},
	{5, "Virgo", "♍"},
	{6, "Libra", "♎"},
	{7, "Scorpio", "♏"},
	{8, "Sagittarius", "♐"},
	{9, "Capricorn", "♑"},
	{10, "Aquarius", "♒"},
	{11, "Pisces", "♓"},
}

// Nakshatras lists the twenty-seven lunar mansions from Ashwini.
var Nakshatras = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// Normalize folds deg into [0, 360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod of a tiny negative value plus 360 can round up to 360.
	if d >= 360 {
		d = 0
	}
	return d
}

// NormalizeSigned folds deg into [-180, 180].
func NormalizeSigned(deg float64) float64 {
	d := Normalize(deg)
	if d > 180 {
		d -= 360
	}
	return d
}

// Separation returns the shortest arc between two longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignIndex returns the zero-based sign index (0 = Aries) of lon.
func SignIndex(lon float64) int {
	return int(math.Floor(Normalize(lon)/SignWidth)) % 12
}

// SignDegree returns the degree of lon within its sign, in [0, 30).
func SignDegree(lon float64) float64 {
	return math.Mod(Normalize(lon), SignWidth)
}

// NakshatraIndex returns the zero-based nakshatra index (0 = Ashwini) of lon.
func NakshatraIndex(lon float64) int {
	return int(math.Floor(Normalize(lon)/NakshatraWidth)) % 27
}
