package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain username", "ops", false},
		{"valid email", "ops@plant.io", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"at sign without domain", "ops@", true},
		{"at sign without tld", "ops@plant", true},
		{"embedded space", "ops @plant.io", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Identifier(tc.value)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Identifier(%q) = %v, wantErr=%v", tc.value, err, tc.wantErr)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		value   string
		wantErr bool
	}{
		{"ops@plant.io", false},
		{"a@b.co", false},
		{"", true},
		{"plant.io", true},
		{"ops@plant", true},
		{"@plant.io", true},
		{"ops@.io", false}, // local@domain shape only; deliverability is the server's problem
	}
	for _, tc := range cases {
		err := Email(tc.value)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Email(%q) = %v, wantErr=%v", tc.value, err, tc.wantErr)
		}
	}
}

func TestFullName(t *testing.T) {
	if err := FullName("Sarah Chen"); err != nil {
		t.Fatalf("valid full name rejected: %v", err)
	}
	for _, bad := range []string{"", "S", "S4rah", "Sarah_Chen"} {
		if err := FullName(bad); err == nil {
			t.Fatalf("FullName(%q) should fail", bad)
		}
	}
}

func TestPasswordLogin(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "Steam1234", false},
		{"lowercase only is fine for login", "steamer12", false},
		{"too short", "Steam12", true},
		{"leading space", " Steam1234", true},
		{"trailing space", "Steam1234 ", true},
		{"empty", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.value, LoginPasswordRules)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Password(%q) = %v, wantErr=%v", tc.value, err, tc.wantErr)
			}
		})
	}
}

func TestPasswordRegister(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "Steam1234", false},
		{"missing uppercase", "steam1234", true},
		{"missing lowercase", "STEAM1234", true},
		{"missing digit", "SteamPipe", true},
		{"embedded space", "Steam 1234", true},
		{"too short", "Stea12", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.value, RegisterPasswordRules)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Password(%q) = %v, wantErr=%v", tc.value, err, tc.wantErr)
			}
		})
	}
}

func TestConfirmPassword(t *testing.T) {
	if err := ConfirmPassword("Steam1234", "Steam1234"); err != nil {
		t.Fatalf("matching confirmation rejected: %v", err)
	}
	if err := ConfirmPassword("Steam1234", ""); err == nil {
		t.Fatalf("empty confirmation should fail")
	}
	if err := ConfirmPassword("Steam1234", "Steam1235"); err == nil {
		t.Fatalf("mismatched confirmation should fail")
	}
}

func TestCSVFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "plant.csv")
	if err := os.WriteFile(good, []byte("Equipment Name,Type\nPump-1,Pump\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := CSVFile(good); err != nil {
		t.Fatalf("valid csv rejected: %v", err)
	}

	upper := filepath.Join(dir, "plant.CSV")
	if err := os.WriteFile(upper, []byte("a,b\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := CSVFile(upper); err != nil {
		t.Fatalf("uppercase extension rejected: %v", err)
	}

	txt := filepath.Join(dir, "plant.txt")
	if err := os.WriteFile(txt, []byte("a,b\n"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	if err := CSVFile(txt); err == nil {
		t.Fatalf("non-csv extension should fail")
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if err := CSVFile(empty); err == nil {
		t.Fatalf("empty file should fail")
	}

	big := filepath.Join(dir, "big.csv")
	if err := os.WriteFile(big, []byte(strings.Repeat("x", MaxUploadBytes+1)), 0o644); err != nil {
		t.Fatalf("write big: %v", err)
	}
	if err := CSVFile(big); err == nil {
		t.Fatalf("oversized file should fail")
	}

	if err := CSVFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("missing file should fail")
	}
	if err := CSVFile(""); err == nil {
		t.Fatalf("empty path should fail")
	}
}
