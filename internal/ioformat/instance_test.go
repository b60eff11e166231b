package ioformat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rbscholtus/glspack/internal/geom"
)

func writeTempInstance(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadInstanceValid(t *testing.T) {
	path := writeTempInstance(t, `{
		"name": "demo",
		"strip_height": 40,
		"items": [
			{"id": 1, "quantity": 2, "points": [[0,0],[4,0],[4,4],[0,4]], "rotation": {"kind": "none"}}
		]
	}`)
	inst, err := LoadInstance(path)
	if err != nil {
		t.Fatalf("LoadInstance() error = %v", err)
	}
	if inst.Name != "demo" || inst.StripHeight != 40 || len(inst.Items) != 1 {
		t.Errorf("LoadInstance() = %+v, unexpected fields", inst)
	}
}

func TestLoadInstanceRejectsNonPositiveStripHeight(t *testing.T) {
	path := writeTempInstance(t, `{"strip_height": 0, "items": [{"id":1,"quantity":1,"points":[[0,0],[1,0],[1,1]]}]}`)
	if _, err := LoadInstance(path); err == nil {
		t.Error("LoadInstance() with strip_height=0 should fail validation")
	}
}

func TestLoadInstanceRejectsNoItems(t *testing.T) {
	path := writeTempInstance(t, `{"strip_height": 10, "items": []}`)
	if _, err := LoadInstance(path); err == nil {
		t.Error("LoadInstance() with no items should fail validation")
	}
}

func TestLoadInstanceRejectsDuplicateItemID(t *testing.T) {
	path := writeTempInstance(t, `{
		"strip_height": 10,
		"items": [
			{"id": 1, "quantity": 1, "points": [[0,0],[1,0],[1,1]]},
			{"id": 1, "quantity": 1, "points": [[0,0],[2,0],[2,2]]}
		]
	}`)
	if _, err := LoadInstance(path); err == nil {
		t.Error("LoadInstance() with duplicate item ids should fail validation")
	}
}

func TestLoadInstanceRejectsTooFewPoints(t *testing.T) {
	path := writeTempInstance(t, `{"strip_height": 10, "items": [{"id":1,"quantity":1,"points":[[0,0],[1,1]]}]}`)
	if _, err := LoadInstance(path); err == nil {
		t.Error("LoadInstance() with a 2-point polygon should fail validation")
	}
}

func TestLoadInstanceRejectsNonexistentFile(t *testing.T) {
	if _, err := LoadInstance(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadInstance() on a missing file should return an error")
	}
}

func TestRotationSpecToAllowedRotation(t *testing.T) {
	cases := []struct {
		name    string
		spec    RotationSpec
		wantErr bool
		wantKnd geom.AllowedRotationKind
	}{
		{"empty defaults to none", RotationSpec{}, false, geom.RotationNone},
		{"explicit none", RotationSpec{Kind: "none"}, false, geom.RotationNone},
		{"continuous", RotationSpec{Kind: "continuous"}, false, geom.RotationContinuous},
		{"discrete", RotationSpec{Kind: "discrete", Discrete: []float64{0, 1.57}}, false, geom.RotationDiscrete},
		{"discrete with no angles", RotationSpec{Kind: "discrete"}, true, 0},
		{"unknown kind", RotationSpec{Kind: "bogus"}, true, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rot, err := c.spec.toAllowedRotation()
			if (err != nil) != c.wantErr {
				t.Fatalf("toAllowedRotation() error = %v, wantErr %v", err, c.wantErr)
			}
			if err == nil && rot.Kind != c.wantKnd {
				t.Errorf("toAllowedRotation().Kind = %v, want %v", rot.Kind, c.wantKnd)
			}
		})
	}
}

func TestToDemandsAndInitialStripWidth(t *testing.T) {
	path := writeTempInstance(t, `{
		"strip_height": 40,
		"items": [
			{"id": 7, "quantity": 3, "points": [[0,0],[4,0],[4,4],[0,4]], "rotation": {"kind": "none"}}
		]
	}`)
	inst, err := LoadInstance(path)
	if err != nil {
		t.Fatal(err)
	}
	demands, err := inst.ToDemands(geom.DefaultSurrogateConfig())
	if err != nil {
		t.Fatalf("ToDemands() error = %v", err)
	}
	if len(demands) != 1 || demands[0].Quantity != 3 {
		t.Fatalf("ToDemands() = %+v, want one demand with quantity 3", demands)
	}

	width := inst.InitialStripWidth(demands)
	if width <= 0 {
		t.Errorf("InitialStripWidth() = %v, want > 0", width)
	}
}

func TestInitialStripWidthUsesConfiguredValueWhenSet(t *testing.T) {
	inst := &InstanceFile{StripHeight: 10, InitialWidth: 123}
	if got := inst.InitialStripWidth(nil); got != 123 {
		t.Errorf("InitialStripWidth() = %v, want the configured 123", got)
	}
}
