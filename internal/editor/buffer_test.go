package editor

import "testing"

func TestLoadBumpsVersionAndNotifies(t *testing.T) {
	var loaded []string
	var versions []uint64
	var modes []string
	b := NewBuffer(Hooks{
		OnLoad: func(text string, v uint64) {
			loaded = append(loaded, text)
			versions = append(versions, v)
		},
		OnLanguage: func(l string) { modes = append(modes, l) },
	})

	b.SetValue("a")
	b.SetLanguage("javascript")
	b.SetValue("b")

	if b.Value() != "b" || b.Language() != "javascript" || b.Version() != 2 {
		t.Fatalf("buffer = %q %q v%d", b.Value(), b.Language(), b.Version())
	}
	if len(loaded) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Errorf("loads = %v %v", loaded, versions)
	}
	if len(modes) != 1 || modes[0] != "javascript" {
		t.Errorf("modes = %v", modes)
	}
}

func TestUpdateDropsStaleVersions(t *testing.T) {
	b := NewBuffer(Hooks{})
	b.SetValue("first file")
	old := b.Version()
	b.SetValue("second file")

	if b.Update(old, "typed into first") {
		t.Error("stale update accepted")
	}
	if b.Value() != "second file" {
		t.Errorf("value = %q", b.Value())
	}
	if !b.Update(b.Version(), "edited second") || b.Value() != "edited second" {
		t.Errorf("current update rejected, value = %q", b.Value())
	}
}
