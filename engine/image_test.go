package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestImagePut(t *testing.T) {
	var im Image
	im = im.Put("deck", mustPile(t, "AS,2S"))
	im = im.Put("table", mustPile(t, "3S"))
	im = im.Put("deck", mustPile(t, "KH"))

	if got := im.Names(); !reflect.DeepEqual(got, []string{"deck", "table"}) {
		t.Errorf("Names = %v", got)
	}
	deck, ok := im.Get("deck")
	if !ok {
		t.Fatal("deck missing")
	}
	if want := mustPile(t, "KH,AS,2S"); !deck.Equal(want) {
		t.Errorf("deck = %s, want %s (put prepends)", deck, want)
	}
}

func TestImagePutEmptyCreates(t *testing.T) {
	im := Image{}.Put("empty", nil)
	p, ok := im.Get("empty")
	if !ok || len(p) != 0 {
		t.Errorf("Get(empty) = %s, %v; want empty pile present", p, ok)
	}
}

// TestImageValueSemantics verifies operations never alias earlier images.
func TestImageValueSemantics(t *testing.T) {
	before := NewImage(NamedPile{Name: "a", Cards: mustPile(t, "AS,2S")})
	after := before.Put("a", mustPile(t, "3S"))
	after = after.Put("b", mustPile(t, "4S"))

	a, _ := before.Get("a")
	if want := mustPile(t, "AS,2S"); !a.Equal(want) {
		t.Errorf("before.a = %s, want %s", a, want)
	}
	if before.Len() != 1 {
		t.Errorf("before.Len = %d, want 1", before.Len())
	}
}

func TestImageSet(t *testing.T) {
	im := NewImage(
		NamedPile{Name: "a", Cards: mustPile(t, "AS")},
		NamedPile{Name: "b", Cards: mustPile(t, "2S")},
	)
	got := im.Set("a", mustPile(t, "KS,QS")).Set("b", nil).Set("c", mustPile(t, "JS"))
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("Names = %v, want %v", got.Names(), want)
	}
	if a, _ := got.Get("a"); !a.Equal(mustPile(t, "KS,QS")) {
		t.Errorf("a = %s, want KS,QS (set replaces)", a)
	}
	if b, ok := got.Get("b"); !ok || len(b) != 0 {
		t.Errorf("Get(b) = %s, %v; want empty pile present", b, ok)
	}
	if a, _ := im.Get("a"); !a.Equal(mustPile(t, "AS")) {
		t.Error("Set mutated receiver")
	}
}

func TestImageTake(t *testing.T) {
	im := NewImage(
		NamedPile{Name: "a", Cards: mustPile(t, "AS")},
		NamedPile{Name: "b", Cards: mustPile(t, "2S")},
	)
	rest, cards, ok := im.Take("a")
	if !ok {
		t.Fatal("Take(a) not ok")
	}
	if !cards.Equal(mustPile(t, "AS")) {
		t.Errorf("cards = %s", cards)
	}
	if _, ok := rest.Get("a"); ok {
		t.Error("a still present after Take")
	}
	if _, _, ok := rest.Take("a"); ok {
		t.Error("second Take(a) should fail")
	}
	if im.Len() != 2 {
		t.Error("Take mutated receiver")
	}
}

func TestImageUpdate(t *testing.T) {
	im := NewImage(
		NamedPile{Name: "a", Cards: mustPile(t, "AS")},
		NamedPile{Name: "b", Cards: mustPile(t, "2S")},
	)

	// Replace in place keeps order.
	got := im.Update("a", func(p Pile, ok bool) Pile { return append(Pile{}, mustPile(t, "KS")...) })
	if !reflect.DeepEqual(got.Names(), []string{"a", "b"}) {
		t.Errorf("Names = %v", got.Names())
	}

	// Empty result deletes.
	got = im.Update("b", func(p Pile, ok bool) Pile { return nil })
	if _, ok := got.Get("b"); ok {
		t.Error("b should be deleted")
	}

	// Missing entry gets created.
	got = im.Update("c", func(p Pile, ok bool) Pile {
		if ok {
			t.Error("c should not exist")
		}
		return mustPile(t, "QS")
	})
	if !reflect.DeepEqual(got.Names(), []string{"a", "b", "c"}) {
		t.Errorf("Names = %v", got.Names())
	}

	// Deleting a missing entry is a no-op.
	if got := im.Update("zzz", func(Pile, bool) Pile { return nil }); !got.Equal(im) {
		t.Error("update of missing pile to empty should be a no-op")
	}
}

func TestImageYAMLRoundTrip(t *testing.T) {
	im := NewImage(
		NamedPile{Name: "deck", Cards: NewDeck(BackRed)},
		NamedPile{Name: "aside", Cards: mustPile(t, "AS,?")},
		NamedPile{Name: "empty", Cards: Pile{}},
		NamedPile{Name: "flipped", Cards: mustPile(t, "?,?,AS").Turnover()},
		NamedPile{Name: "green", Cards: NewDeck(BackGreen).Turnover()},
	)
	out, err := yaml.Marshal(im)
	if err != nil {
		t.Fatal(err)
	}
	if i, j := strings.Index(string(out), "deck:"), strings.Index(string(out), "aside:"); i < 0 || j < i {
		t.Errorf("pile order not preserved:\n%s", out)
	}
	var back Image
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if !back.Equal(im) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", back, im)
	}
}

func TestImageYAMLBadPile(t *testing.T) {
	var im Image
	err := yaml.Unmarshal([]byte("good: AS\nbad: ZZ\n"), &im)
	if err == nil {
		t.Fatal("expected error for bad pile")
	}
	if im.Len() != 0 {
		t.Error("failed decode should not fill the image")
	}
}

func TestImageJSONRoundTrip(t *testing.T) {
	im := NewImage(
		NamedPile{Name: "z", Cards: mustPile(t, "AS")},
		NamedPile{Name: "a", Cards: mustPile(t, "2h,3h")},
	)
	out, err := json.Marshal(im)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"z":"AS","a":"2h,3h"}` {
		t.Errorf("json = %s", out)
	}
	var back Image
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(im) {
		t.Errorf("round trip mismatch: %s", back)
	}
	if err := json.Unmarshal([]byte(`{"a":"AS","a":"2S"}`), &back); err == nil {
		t.Error("expected duplicate pile error")
	}
}
