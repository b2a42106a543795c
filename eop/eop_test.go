package eop

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "finals2000A.all.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = `MJD;x_pole;y_pole;UT1-UTC;LOD;dX;dY
59000.0;0.100;0.200;-0.0500;1.200;0.100;0.050
59001.0;0.105;0.205;-0.0520;1.210;0.102;0.051
59002.0;0.110;0.210;-0.0540;1.220;0.104;0.052
`

func TestLoadAndAt(t *testing.T) {
	path := writeTestFile(t, sampleCSV)
	sys, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if sys.Empty() {
		t.Fatal("expected non-empty system")
	}
	first, last := sys.Span()
	if first != 59000.0 || last != 59002.0 {
		t.Errorf("Span() = (%v, %v), want (59000, 59002)", first, last)
	}

	r := sys.At(59000.5)
	wantUT1 := (-0.0500 + -0.0520) / 2.0
	if got := r.UT1UTC; got < -0.0521 || got > -0.0499 {
		t.Errorf("At(59000.5).UT1UTC = %v, want ~%v", got, wantUT1)
	}

	before := sys.At(58000.0)
	if before.MJD != 59000.0 {
		t.Errorf("At before span should clamp to first record, got MJD=%v", before.MJD)
	}
	after := sys.At(60000.0)
	if after.MJD != 59002.0 {
		t.Errorf("At after span should clamp to last record, got MJD=%v", after.MJD)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeTestFile(t, "MJD;x_pole\n59000.0;0.1\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing required column")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/finals2000A.all.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}
