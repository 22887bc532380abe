package svgdoc

import (
	"errors"
	"strings"
	"testing"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <g id="neighborhood-pink">
    <rect id="P1" x="0" y="0" width="10" height="10" style="fill:#f0f"/>
    <rect id="P2" x="10" y="0" width="10" height="10"/>
  </g>
  <svg:rect xmlns:svg="http://www.w3.org/2000/svg" id="P3" x="20" y="0" width="10" height="10"/>
  <text id="label">Floor 4</text>
</svg>`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte(`<svg><rect></svg>`)); err == nil {
		t.Fatal("expected parse error for mismatched tags")
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("   "))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	doc := mustParse(t, testSVG)

	el := doc.FindByID("P2")
	if el == nil || el.Kind() != "rect" || el.Attr("x") != "10" {
		t.Fatalf("FindByID(P2) = %+v", el)
	}
	if doc.FindByID("label").Kind() != "text" {
		t.Error("FindByID(label) should find the text element")
	}
	if doc.FindByID("missing") != nil {
		t.Error("FindByID(missing) should be nil")
	}
	if doc.FindByID("") != nil {
		t.Error("FindByID(\"\") should be nil")
	}
}

func TestForEachOfKindIgnoresPrefix(t *testing.T) {
	doc := mustParse(t, testSVG)

	var seen []string
	doc.ForEachOfKind("rect", func(e *Element) {
		seen = append(seen, e.ID())
	})
	if strings.Join(seen, ",") != "P1,P2,P3" {
		t.Fatalf("rects = %v", seen)
	}
}

func TestSetStyleKeepsOtherDeclarations(t *testing.T) {
	doc := mustParse(t, testSVG)
	el := doc.FindByID("P1")

	el.SetStyle("visibility", "hidden")
	if el.Style("fill") != "#f0f" {
		t.Errorf("fill lost: %q", el.Attr("style"))
	}
	if el.Style("visibility") != "hidden" {
		t.Errorf("visibility = %q", el.Style("visibility"))
	}

	el.SetStyle("visibility", "visible")
	if el.Style("visibility") != "visible" {
		t.Errorf("visibility not replaced: %q", el.Attr("style"))
	}
	if strings.Count(el.Attr("style"), "visibility") != 1 {
		t.Errorf("visibility duplicated: %q", el.Attr("style"))
	}
}

func TestAddClassIsIdempotent(t *testing.T) {
	doc := mustParse(t, testSVG)
	el := doc.FindByID("P2")

	el.AddClass("seat")
	el.AddClass("located-seat")
	el.AddClass("seat")
	if el.Attr("class") != "seat located-seat" {
		t.Fatalf("class = %q", el.Attr("class"))
	}
	if !el.HasClass("located-seat") {
		t.Error("HasClass(located-seat) = false")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	original := mustParse(t, testSVG)
	copied := original.Copy()

	copied.FindByID("P1").SetAttribute("fill", "red")
	copied.AppendStyleSheet(".x{}")

	if original.FindByID("P1").Attr("fill") != "" {
		t.Error("mutating the copy changed the original")
	}
	if original.Root().el.SelectElement("style") != nil {
		t.Error("style sheet leaked into the original")
	}
}

func TestAppendStyleSheetSerializes(t *testing.T) {
	doc := mustParse(t, testSVG)
	doc.AppendStyleSheet(".located-seat{fill:red}")

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !strings.Contains(string(out), "<style>.located-seat{fill:red}</style>") {
		t.Fatalf("style sheet missing from output:\n%s", out)
	}
}
