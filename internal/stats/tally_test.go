package stats

import (
	"encoding/json"
	"testing"
)

func TestTally(t *testing.T) {
	tl := NewTally("pending", "Selesai")
	tl.Inc("Terkirim")
	tl.Inc("Selesai")
	tl.Add("Terkirim", 2)
	tl.Inc("")

	if tl.Get("Terkirim") != 3 || tl.Get("pending") != 0 || tl.Get("missing") != 0 {
		t.Errorf("unexpected counts: %v", tl.Map())
	}
	if tl.Total() != 5 {
		t.Errorf("Total() = %d, want 5", tl.Total())
	}
	if !tl.Has("pending") || tl.Has("missing") {
		t.Error("Has() reports wrong membership")
	}

	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"pending":0,"Selesai":1,"Terkirim":3,"":1}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	nz, err := json.Marshal(tl.NonZero())
	if err != nil {
		t.Fatal(err)
	}
	if string(nz) != `{"Selesai":1,"Terkirim":3,"":1}` {
		t.Errorf("NonZero json = %s", nz)
	}
}

func TestTally_EscapesKeys(t *testing.T) {
	tl := NewTally(`a "quoted" key`)
	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %s", data)
	}
	if _, ok := decoded[`a "quoted" key`]; !ok {
		t.Errorf("key lost in %s", data)
	}
}
