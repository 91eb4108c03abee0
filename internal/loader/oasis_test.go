package loader

import (
	"testing"

	"github.com/napolitain/solver-oasis/internal/models"
)

func TestParseOasisText(t *testing.T) {
	catalog, err := LoadDefenders("")
	if err != nil {
		t.Fatal(err)
	}

	text := "Animals\n12 Rats\nSpider 3\nWolf\nCrocodiles x 2 (max 10)\r\ntiger: 1"
	got := ParseOasisText(text, catalog)

	want := models.DefenseComposition{
		"Rat": 12, "Spider": 3, "Wolf": 0, "Crocodile": 2, "Tiger": 1,
	}
	for name, count := range want {
		if got[name] != count {
			t.Errorf("%s: got %d, want %d", name, got[name], count)
		}
	}

	if len(got) != len(catalog) {
		t.Errorf("every known animal should be present, got %d of %d", len(got), len(catalog))
	}
	if got.Total() != 18 {
		t.Errorf("Total: got %d, want 18", got.Total())
	}
}

func TestParseOasisTextEmpty(t *testing.T) {
	catalog, _ := LoadDefenders("")
	got := ParseOasisText("", catalog)
	if got.Total() != 0 || len(got) != len(catalog) {
		t.Errorf("got %v", got)
	}
}

func TestParseOasisTextLastLineWins(t *testing.T) {
	catalog := models.DefenderCatalog{{Name: "Boar", InfantryDefense: 70, CavalryDefense: 33}}
	got := ParseOasisText("Boar 4\nBoar 9", catalog)
	if got["Boar"] != 9 {
		t.Errorf("Boar: got %d, want 9", got["Boar"])
	}
}

func FuzzParseOasisText(f *testing.F) {
	f.Add("12 Rats\nSpider 3")
	f.Add("")
	f.Add("Elephant 99999999999999999999999")

	catalog := models.DefenderCatalog{
		{Name: "Rat", InfantryDefense: 25, CavalryDefense: 20},
		{Name: "Elephant", InfantryDefense: 440, CavalryDefense: 520},
	}
	f.Fuzz(func(t *testing.T, text string) {
		got := ParseOasisText(text, catalog)
		if len(got) != len(catalog) {
			t.Errorf("got %d entries, want %d", len(got), len(catalog))
		}
		for name, count := range got {
			if count < 0 {
				t.Errorf("%s: negative count %d", name, count)
			}
		}
	})
}
