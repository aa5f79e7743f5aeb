package chart

import (
	"strconv"
	"testing"
)

func evenCusps() *HouseData {
	h := &HouseData{Cusps: make(map[string]float64)}
	for i := 1; i <= 12; i++ {
		h.Cusps[strconv.Itoa(i)] = float64(10 + (i-1)*30)
	}
	return h
}

func TestHouseIndex(t *testing.T) {
	houses := evenCusps()

	tests := []struct {
		name string
		lon  float64
		want int
	}{
		{"inside first house", 25, 0},
		{"on first cusp", 10, 0},
		{"before first cusp wraps to twelfth", 5, 11},
		{"after twelfth cusp", 345, 11},
		{"middle", 190, 6},
		{"unnormalized", 385, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HouseIndex(tt.lon, houses)
			if !ok {
				t.Fatalf("HouseIndex(%v) found no house", tt.lon)
			}
			if got != tt.want {
				t.Errorf("HouseIndex(%v) = %d, want %d", tt.lon, got, tt.want)
			}
		})
	}
}

func TestHouseIndexWrapInMiddle(t *testing.T) {
	// Ascendant late in Pisces: cusp 2 crosses 0°.
	h := &HouseData{Cusps: map[string]float64{}}
	for i := 1; i <= 12; i++ {
		h.Cusps[strconv.Itoa(i)] = Normalize(345 + float64(i-1)*30)
	}

	tests := []struct {
		lon  float64
		want int
	}{
		{350, 0},
		{5, 0},
		{15, 1},
		{340, 11},
	}

	for _, tt := range tests {
		got, ok := HouseIndex(tt.lon, h)
		if !ok || got != tt.want {
			t.Errorf("HouseIndex(%v) = %d, %v; want %d", tt.lon, got, ok, tt.want)
		}
	}
}

func TestHouseIndexNoHouses(t *testing.T) {
	if _, ok := HouseIndex(10, nil); ok {
		t.Error("nil house data should yield no house")
	}
	if _, ok := HouseIndex(10, &HouseData{}); ok {
		t.Error("empty cusps should yield no house")
	}
}

func TestCuspListSkipsMalformedKeys(t *testing.T) {
	h := &HouseData{Cusps: map[string]float64{
		"1":   10,
		"2":   40,
		"x":   70,
		"13":  100,
		"0":   130,
		"-1":  160,
		"3":   370,
		"1.5": 5,
	}}

	got := h.CuspList()
	if len(got) != 3 {
		t.Fatalf("CuspList() len = %d, want 3: %+v", len(got), got)
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].Number != want {
			t.Errorf("CuspList()[%d].Number = %d, want %d", i, got[i].Number, want)
		}
	}
	if got[2].Longitude != 10 {
		t.Errorf("cusp 3 longitude = %v, want normalized 10", got[2].Longitude)
	}
}
