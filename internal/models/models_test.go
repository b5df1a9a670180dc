package models

import "testing"

func TestFormatTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		year  string
		want  string
	}{
		{name: "with year", title: "Inception", year: "2010", want: "Inception (2010)"},
		{name: "missing year", title: "Untitled", year: "", want: "Untitled (N/A)"},
		{name: "whitespace year", title: "Untitled", year: "  ", want: "Untitled (N/A)"},
		{name: "keeps title as given", title: " Heat", year: "1995", want: " Heat (1995)"},
		{name: "empty title", title: "", year: "1995", want: " (1995)"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTitle(tt.title, tt.year); got != tt.want {
				t.Errorf("FormatTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYearFromDate(t *testing.T) {
	tc := []struct {
		date string
		want string
	}{
		{date: "2010-07-15", want: "2010"},
		{date: "1999", want: "1999"},
		{date: "", want: UnknownYear},
		{date: "20", want: UnknownYear},
		{date: "abcd-01-01", want: UnknownYear},
	}

	for _, tt := range tc {
		t.Run(tt.date, func(t *testing.T) {
			if got := YearFromDate(tt.date); got != tt.want {
				t.Errorf("YearFromDate(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestCandidate(t *testing.T) {
	c := Candidate{Title: "Inception", Year: YearFromDate("2010-07-15"), PosterPath: "/p.jpg"}
	if got := c.DisplayTitle(); got != "Inception (2010)" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if !c.HasPoster() {
		t.Error("expected poster")
	}

	noDate := Candidate{Title: "Lost Film", Year: YearFromDate("")}
	if got := noDate.DisplayTitle(); got != "Lost Film (N/A)" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "Lost Film (N/A)")
	}
	if noDate.HasPoster() {
		t.Error("expected no poster")
	}
}

func TestTitles(t *testing.T) {
	entries := []WatchlistEntry{{Title: "A (2000)"}, {Title: "B (2001)"}}
	got := Titles(entries)
	if len(got) != 2 || got[0] != "A (2000)" || got[1] != "B (2001)" {
		t.Errorf("Titles() = %v", got)
	}
}

func TestSplitTitle(t *testing.T) {
	tc := []struct {
		stored    string
		wantTitle string
		wantYear  string
	}{
		{stored: "Heat (1995)", wantTitle: "Heat", wantYear: "1995"},
		{stored: "Untitled (N/A)", wantTitle: "Untitled", wantYear: "N/A"},
		{stored: "Alien (Director's Cut) (1979)", wantTitle: "Alien (Director's Cut)", wantYear: "1979"},
		{stored: "Past Lives", wantTitle: "Past Lives", wantYear: ""},
		{stored: "Them (band)", wantTitle: "Them (band)", wantYear: ""},
	}

	for _, tt := range tc {
		t.Run(tt.stored, func(t *testing.T) {
			title, year := SplitTitle(tt.stored)
			if title != tt.wantTitle || year != tt.wantYear {
				t.Errorf("SplitTitle(%q) = (%q, %q), want (%q, %q)", tt.stored, title, year, tt.wantTitle, tt.wantYear)
			}
		})
	}
}
