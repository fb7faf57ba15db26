package dexreport

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func feed(r *Reporter) {
	r.VisitAPK("app.apk")
	r.VisitDEX("classes.dex", "035", 3)
	r.VisitStringOrder("classes.dex", true, 0)
	r.VisitDEX("classes2.dex", "036", 5)
	r.VisitWarning("classes2.dex", "Header size != 0x70 (got 0x68)")
	r.VisitStringOrder("classes2.dex", false, 4)
}

func TestTextReport(t *testing.T) {
	var out, errw bytes.Buffer
	r := NewReporter(&out, &errw, Config{})
	feed(r)
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	expectedOut := "String offset IN order: app.apk!classes.dex\n" +
		"String offset not in order: app.apk!classes2.dex\n"
	if out.String() != expectedOut {
		t.Errorf("TestTextReport: stdout '%s' expected '%s'", out.String(), expectedOut)
	}
	expectedErr := "Warning: Header size != 0x70 (got 0x68)\n"
	if errw.String() != expectedErr {
		t.Errorf("TestTextReport: stderr '%s' expected '%s'", errw.String(), expectedErr)
	}
	if r.ExitCode() != ExitAnomaly {
		t.Errorf("TestTextReport: exit code %d expected %d", r.ExitCode(), ExitAnomaly)
	}
}

func TestTextReportSilent(t *testing.T) {
	var out, errw bytes.Buffer
	r := NewReporter(&out, &errw, Config{Silent: true})
	feed(r)
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if strings.Contains(out.String(), "IN order") {
		t.Errorf("TestTextReportSilent: ordered line printed in silent mode: '%s'", out.String())
	}
	if !strings.Contains(out.String(), "not in order: app.apk!classes2.dex") {
		t.Errorf("TestTextReportSilent: anomaly missing: '%s'", out.String())
	}
	if !strings.Contains(errw.String(), "Warning: Header size") {
		t.Errorf("TestTextReportSilent: warning suppressed: '%s'", errw.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		ordered []bool
		want    int
	}{
		{"all ordered", Config{}, []bool{true, true}, ExitOrdered},
		{"one anomaly", Config{}, []bool{true, false}, ExitAnomaly},
		{"legacy", Config{LegacyExit: true}, []bool{false}, ExitOrdered},
		{"nothing checked", Config{}, nil, ExitOrdered},
	}
	for _, tc := range tests {
		r := NewReporter(&bytes.Buffer{}, &bytes.Buffer{}, tc.config)
		for _, ok := range tc.ordered {
			r.VisitDEX("d.dex", "035", 1)
			r.VisitStringOrder("d.dex", ok, 1)
		}
		if got := r.ExitCode(); got != tc.want {
			t.Errorf("%s: ExitCode() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestYAMLReport(t *testing.T) {
	var out, errw bytes.Buffer
	r := NewReporter(&out, &errw, Config{Format: FormatYAML, Silent: true})
	feed(r)
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if errw.Len() != 0 {
		t.Errorf("TestYAMLReport: unexpected stderr '%s'", errw.String())
	}

	var doc struct {
		Results []DexResult `yaml:"results"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("TestYAMLReport: output is not YAML: %v\n%s", err, out.String())
	}
	if len(doc.Results) != 2 {
		t.Fatalf("TestYAMLReport: got %d results", len(doc.Results))
	}
	first, second := doc.Results[0], doc.Results[1]
	if !first.Ordered || first.Index != nil || first.APK != "app.apk" {
		t.Errorf("TestYAMLReport: first result %+v", first)
	}
	if second.Ordered || second.Index == nil || *second.Index != 4 {
		t.Errorf("TestYAMLReport: second result %+v", second)
	}
	if len(second.Warnings) != 1 || second.Version != "036" || second.Strings != 5 {
		t.Errorf("TestYAMLReport: second result %+v", second)
	}
	if !strings.Contains(out.String(), "first_unordered_index: 4") {
		t.Errorf("TestYAMLReport: missing index key in '%s'", out.String())
	}
}

func TestVerbose(t *testing.T) {
	var errw bytes.Buffer
	r := NewReporter(&bytes.Buffer{}, &errw, Config{Vlevel: 1})
	r.Verbose(1, "dex file %s at entry %d", "classes.dex", 3)
	r.Verbose(2, "too chatty")
	expected := "++ dex file classes.dex at entry 3\n"
	if errw.String() != expected {
		t.Errorf("TestVerbose: got '%s' expected '%s'", errw.String(), expected)
	}
}
