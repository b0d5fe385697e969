package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gyeh/vaxup/internal/model"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string // "" means absent
		wantErr bool
	}{
		{"formatted", "(718) 555-0199", "7185550199", false},
		{"country code", "+1 718 555 0199", "7185550199", false},
		{"extra leading digits", "0017185550199", "7185550199", false},
		{"too short", "555-0199", "", false},
		{"empty", "", "", false},
		{"nil", nil, "", false},
		{"numeric ten digits", float64(7185550199), "7185550199", false},
		{"json number", json.Number("7185550199"), "7185550199", false},
		{"numeric nine digits", float64(718555019), "", true},
		{"numeric eleven digits", int64(17185550199), "", true},
		{"numeric fraction", 718.5, "", true},
		{"negative json number", json.Number("-123456789"), "", true},
		{"negative int64", int64(-123456789), "", true},
		{"negative int", -123456789, "", true},
		{"negative float", float64(-123456789), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Phone(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Phone(%v) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Phone(%v): %v", tt.in, err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("Phone(%v) = %q, want absent", tt.in, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("Phone(%v) = %v, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhone_NeverPartialLength(t *testing.T) {
	inputs := []string{"1", "12345", "123456789", "12345678901", "1-800-FLOWERS", "abc", "  ", "212.555.0100 x12"}
	for _, in := range inputs {
		got, err := Phone(in)
		if err != nil {
			t.Fatalf("Phone(%q): %v", in, err)
		}
		if got != nil && len(*got) != 10 {
			t.Errorf("Phone(%q) = %q, want 10 digits or absent", in, *got)
		}
	}
}

func TestState(t *testing.T) {
	allowed := map[string]bool{"NY": true, "NJ": true}
	tests := []struct {
		in, want string
	}{
		{"new york", "NY"},
		{"  NJ ", "NJ"},
		{"ny", "NY"},
		{"New Jersey", "NJ"},
		{"New York City", "NY"},
		{"California", "CALIFORNIA"},
		{"CT", "CT"},
		{"Connecticut", "CT"},
	}
	for _, tt := range tests {
		if got := State(tt.in, allowed); got != tt.want {
			t.Errorf("State(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateOfBirth(t *testing.T) {
	got, err := DateOfBirth(" 4/2/1985 ")
	if err != nil {
		t.Fatalf("DateOfBirth: %v", err)
	}
	if want := time.Date(1985, 4, 2, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("DateOfBirth = %v, want %v", got, want)
	}
	if _, err := DateOfBirth("04/02/1985"); err != nil {
		t.Errorf("zero-padded date rejected: %v", err)
	}
	for _, bad := range []string{"1985-04-02", "4/2/85", "13/01/1985", "", "April 2, 1985"} {
		if _, err := DateOfBirth(bad); err == nil {
			t.Errorf("DateOfBirth(%q) expected error", bad)
		}
	}
}

func TestScheduledAt_StripsOffset(t *testing.T) {
	want := time.Date(2021, 4, 22, 9, 30, 0, 0, time.UTC)
	for _, in := range []string{"2021-04-22T09:30:00-0400", "2021-04-22T09:30:00-04:00", "2021-04-22T09:30:00"} {
		got, err := ScheduledAt(in)
		if err != nil {
			t.Fatalf("ScheduledAt(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Errorf("ScheduledAt(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ScheduledAt("tomorrow"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestRace(t *testing.T) {
	tests := []struct {
		in   string
		want model.Race
	}{
		{"Other | Otro", model.RaceOther},
		{"Asian, including South Asian | Asiático", model.RaceAsian},
		{"black", model.RaceBlack},
		{"Native American or Alaska Native", model.RaceNativeAmerican},
		{"Native Hawaiian or Pacific Islander", model.RacePacificIslander},
		{"White | Blanco", model.RaceWhite},
		{"Caucasian", model.RaceWhite},
		{"Prefer not to answer | Prefiero no responder", model.RacePreferNotToAnswer},
		{"Martian", model.RaceOther},
		{"", model.RaceOther},
	}
	for _, tt := range tests {
		if got := Race(tt.in); got != tt.want {
			t.Errorf("Race(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSex(t *testing.T) {
	tests := []struct {
		in   string
		want model.Sex
	}{
		{"Male | Masculino", model.SexMale},
		{"FEMALE", model.SexFemale},
		{"Neither male or female", model.SexNeither},
		{"Unknown", model.SexUnknown},
		{"prefer not to say", model.SexUnknown},
	}
	for _, tt := range tests {
		if got := Sex(tt.in); got != tt.want {
			t.Errorf("Sex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEthnicity(t *testing.T) {
	tests := []struct {
		in   string
		want model.Ethnicity
	}{
		{"Yes | Sí", model.EthnicityLatinx},
		{"no", model.EthnicityNotLatinx},
		{"No, not Hispanic, Latino, or Latina", model.EthnicityNotLatinx},
		{"Prefer not to answer", model.EthnicityPreferNotToAnswer},
		{"maybe", model.EthnicityPreferNotToAnswer},
	}
	for _, tt := range tests {
		if got := Ethnicity(tt.in); got != tt.want {
			t.Errorf("Ethnicity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslationStrippingIsIdempotent(t *testing.T) {
	pairs := [][2]string{
		{"Other", "Otro"},
		{"Male", "Masculino"},
		{"Yes", "Sí"},
		{"Black, including African American or Afro-Caribbean", "Negro"},
		{"Neither male or female", "Ninguno"},
	}
	for _, p := range pairs {
		joined := p[0] + " | " + p[1]
		if Race(joined) != Race(p[0]) {
			t.Errorf("Race(%q) != Race(%q)", joined, p[0])
		}
		if Sex(joined) != Sex(p[0]) {
			t.Errorf("Sex(%q) != Sex(%q)", joined, p[0])
		}
		if Ethnicity(joined) != Ethnicity(p[0]) {
			t.Errorf("Ethnicity(%q) != Ethnicity(%q)", joined, p[0])
		}
	}
}

func TestEmailAndZip(t *testing.T) {
	if got, ok := Email(" jane.doe+vax@example.org "); !ok || got != "jane.doe+vax@example.org" {
		t.Errorf("Email valid = %q, %v", got, ok)
	}
	for _, bad := range []string{"jane@", "jane@example", "jane doe@example.com", "", "jane@@example.com"} {
		if _, ok := Email(bad); ok {
			t.Errorf("Email(%q) accepted", bad)
		}
	}
	if _, ok := ZipCode("11207"); !ok {
		t.Error("ZipCode rejected 11207")
	}
	for _, bad := range []string{"1120", "11207-1234", "ABCDE", ""} {
		if _, ok := ZipCode(bad); ok {
			t.Errorf("ZipCode(%q) accepted", bad)
		}
	}
}

func TestText(t *testing.T) {
	if Text("   ") != nil {
		t.Error("blank text should be absent")
	}
	if got := Text("  Apt   4B "); got == nil || *got != "Apt 4B" {
		t.Errorf("Text = %v", got)
	}
	if _, ok := YesNo(""); ok {
		t.Error("empty answer should not resolve")
	}
	if v, ok := YesNo("Yes | Sí"); !ok || !v {
		t.Error("bilingual yes should resolve to true")
	}
}
