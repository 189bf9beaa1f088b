package format

import "testing"

func TestNumber(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     string
	}{
		{1234567.891, 2, "1.234.567,89"},
		{0, 0, "0"},
		{999, 0, "999"},
		{1000, 0, "1.000"},
		{-4501.5, 1, "-4.501,5"},
		{12.3, 1, "12,3"},
	}
	for _, c := range cases {
		if got := Number(c.v, c.decimals); got != c.want {
			t.Errorf("Number(%v, %d) = %q, want %q", c.v, c.decimals, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(66.666); got != "66,7%" {
		t.Errorf("Percent(66.666) = %q", got)
	}
}

func TestMonthIndex(t *testing.T) {
	if MonthIndex("Enero") != 1 {
		t.Error("Enero should be month 1")
	}
	if MonthIndex("diciembre") != 12 {
		t.Error("diciembre should be month 12")
	}
	if MonthIndex("noexiste") != 0 {
		t.Error("unknown month should map to 0")
	}
}

func TestCapitalize(t *testing.T) {
	if got := Capitalize("ENERO"); got != "Enero" {
		t.Errorf("Capitalize(ENERO) = %q", got)
	}
	if got := Capitalize("  marzo "); got != "Marzo" {
		t.Errorf("Capitalize(marzo) = %q", got)
	}
}

func TestTenureBand(t *testing.T) {
	cases := []struct {
		years float64
		want  string
	}{
		{0, "de 0 a 5 años"},
		{4.9, "de 0 a 5 años"},
		{5, "de 5 a 10 años"},
		{6, "de 5 a 10 años"},
		{10, "de 11 a 15 años"},
		{34.9, "de 31 a 35 años"},
		{35, "más de 35 años"},
		{50, "más de 35 años"},
	}
	for _, c := range cases {
		if got := TenureBand(c.years); got != c.want {
			t.Errorf("TenureBand(%v) = %q, want %q", c.years, got, c.want)
		}
	}
}

func TestAgeBand(t *testing.T) {
	cases := []struct {
		years float64
		want  string
	}{
		{18, "de 0 a 19 años"},
		{19, "de 19 a 25 años"},
		{40, "de 35 a 45 años"},
		{65, "más de 65 años"},
	}
	for _, c := range cases {
		if got := AgeBand(c.years); got != c.want {
			t.Errorf("AgeBand(%v) = %q, want %q", c.years, got, c.want)
		}
	}
}

func TestBandIndex(t *testing.T) {
	if got := BandIndex("de 5 a 10 años", TenureBands); got != 1 {
		t.Errorf("BandIndex = %d, want 1", got)
	}
	if got := BandIndex("DE 0 A 19 AÑOS", AgeBands); got != 0 {
		t.Errorf("case-insensitive BandIndex = %d, want 0", got)
	}
	if got := BandIndex("otra cosa", AgeBands); got != -1 {
		t.Errorf("unknown band index = %d, want -1", got)
	}
}
