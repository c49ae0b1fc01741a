package view

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"

	"casview/internal/digest"
	"casview/internal/tree"
)

func root() tree.Node {
	return tree.Dir("root", digest.Digest{Hash: "abc", SizeBytes: 10})
}

func sampleState() *State {
	s := NewState()
	s.Children["abc/10"] = []tree.Node{
		tree.File("a.txt", digest.Digest{Hash: "x", SizeBytes: 3}),
		tree.Dir("sub", digest.Digest{Hash: "y", SizeBytes: 7}),
	}
	return s
}

func plainBytes(n int64) string {
	return strconv.FormatInt(n, 10)
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Node.Name
	}
	return out
}

func TestIconFor(t *testing.T) {
	cases := []struct {
		kind     tree.Kind
		expanded bool
		icon     Icon
	}{
		{tree.KindFile, false, IconDownload},
		{tree.KindFile, true, IconDownload},
		{tree.KindDir, false, IconCollapsed},
		{tree.KindDir, true, IconExpanded},
	}

	for _, c := range cases {
		if got := IconFor(c.kind, c.expanded); got != c.icon {
			t.Errorf("IconFor(%s, %v): expected %d, got %d", c.kind, c.expanded, c.icon, got)
		}
	}
}

func TestRender_InitiallyCollapsed(t *testing.T) {
	r := NewRenderer(sampleState(), nil)

	rows := r.Render(root())
	if len(rows) != 1 {
		t.Fatalf("Expected only the root row, got %v", names(rows))
	}
	if rows[0].Icon != IconCollapsed || rows[0].Expanded {
		t.Error("Root should render collapsed")
	}
	if rows[0].Key != "abc/10" {
		t.Errorf("Expected key abc/10, got %q", rows[0].Key)
	}
}

func TestRender_ExpandShowsChildrenInOrder(t *testing.T) {
	s := sampleState()
	s.Sizes["y/7"] = 7
	r := NewRenderer(s, nil)
	r.FormatBytes = plainBytes

	s.Toggle(root())
	rows := r.Render(root())

	if !reflect.DeepEqual(names(rows), []string{"root", "a.txt", "sub"}) {
		t.Fatalf("Unexpected rows: %v", names(rows))
	}
	if rows[0].Icon != IconExpanded {
		t.Error("Root should render expanded")
	}
	if rows[1].Icon != IconDownload || rows[1].Depth != 1 {
		t.Errorf("a.txt: expected download icon at depth 1, got %+v", rows[1])
	}
	if rows[2].Icon != IconCollapsed {
		t.Error("sub should render collapsed")
	}
	if !rows[2].HasSize || rows[2].SizeLabel != "7 total" {
		t.Errorf("sub: expected size label %q, got %q", "7 total", rows[2].SizeLabel)
	}
	if rows[1].HasSize || rows[1].SizeLabel != "" {
		t.Error("a.txt has no size entry and should have no size label")
	}
}

func TestRender_ExpandedWithoutChildren(t *testing.T) {
	s := sampleState()
	r := NewRenderer(s, nil)

	s.Toggle(root())
	sub := s.Children["abc/10"][1]
	s.Toggle(sub)

	rows := r.Render(root())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %v", names(rows))
	}
	if rows[2].Icon != IconExpanded || !rows[2].Expanded {
		t.Error("sub should render expanded even without children")
	}

	rows = r.Render(sub)
	if len(rows) != 1 {
		t.Errorf("Expanded node with no children entry should render zero child rows, got %v", names(rows))
	}
}

func TestRender_CollapsedIgnoresChildren(t *testing.T) {
	s := sampleState()
	s.Expanded["abc/10"] = false
	r := NewRenderer(s, nil)

	rows := r.Render(root())
	if len(rows) != 1 || rows[0].Icon != IconCollapsed {
		t.Errorf("Collapsed root should render alone, got %v", names(rows))
	}
}

func TestToggle_Involution(t *testing.T) {
	s := sampleState()
	node := root()

	before := s.IsExpanded(node)
	first := s.Toggle(node)
	second := s.Toggle(node)

	if first == before {
		t.Error("First toggle should flip expansion")
	}
	if second != before || s.IsExpanded(node) != before {
		t.Error("Toggling twice should restore expansion")
	}

	// The explicit false renders the same as the absent entry
	r := NewRenderer(s, nil)
	if got := r.Render(node); len(got) != 1 || got[0].Icon != IconCollapsed {
		t.Errorf("Expected collapsed root after two toggles, got %v", names(got))
	}
}

func TestRender_SharedDigestExpandsTogether(t *testing.T) {
	shared := digest.Digest{Hash: "sh", SizeBytes: 4}
	s := NewState()
	s.Expanded["abc/10"] = true
	s.Children["abc/10"] = []tree.Node{
		tree.Dir("left", shared),
		tree.Dir("right", shared),
	}
	s.Children["sh/4"] = []tree.Node{
		tree.File("inner.txt", digest.Digest{Hash: "i", SizeBytes: 1}),
	}

	var clicked []tree.Node
	r := NewRenderer(s, func(node tree.Node) {
		clicked = append(clicked, node)
		s.Toggle(node)
	})

	rows := r.Render(root())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows before toggle, got %v", names(rows))
	}

	// Click the left occurrence only
	r.Click(rows[1])
	if len(clicked) != 1 || clicked[0].Name != "left" {
		t.Fatalf("Expected one click on left, got %+v", clicked)
	}

	rows = r.Render(root())
	expected := []string{"root", "left", "inner.txt", "right", "inner.txt"}
	if !reflect.DeepEqual(names(rows), expected) {
		t.Fatalf("Expected %v, got %v", expected, names(rows))
	}
	if rows[1].Icon != IconExpanded || rows[3].Icon != IconExpanded {
		t.Error("Both occurrences should render expanded")
	}
}

func TestRender_SizeLabelUsesFormatter(t *testing.T) {
	s := sampleState()
	s.Sizes["abc/10"] = 0
	r := NewRenderer(s, nil)
	r.FormatBytes = func(n int64) string { return "<" + plainBytes(n) + ">" }

	rows := r.Render(root())
	if !rows[0].HasSize || rows[0].SizeLabel != "<0> total" {
		t.Errorf("Expected formatted zero size, got %q", rows[0].SizeLabel)
	}

	delete(s.Sizes, "abc/10")
	rows = r.Render(root())
	if rows[0].HasSize || rows[0].SizeLabel != "" {
		t.Error("Size label should be omitted without a size entry")
	}
}

func TestRender_MissingDigest(t *testing.T) {
	s := NewState()
	synthetic := tree.Node{Kind: tree.KindDir, Name: "inputs"}
	s.Children[digest.MissingKey] = []tree.Node{
		tree.File("a.txt", digest.Digest{Hash: "x", SizeBytes: 3}),
	}
	s.Toggle(synthetic)

	rows := NewRenderer(s, nil).Render(synthetic)
	if rows[0].Key != digest.MissingKey {
		t.Errorf("Expected degenerate key, got %q", rows[0].Key)
	}
	if rows[0].DigestLabel != "" {
		t.Error("Node without digest should have no digest label")
	}
	if len(rows) != 2 {
		t.Errorf("Expected children stored under the degenerate key, got %v", names(rows))
	}
	if rows[1].DigestLabel != "x/3" {
		t.Errorf("Expected digest label x/3, got %q", rows[1].DigestLabel)
	}
}

func TestRender_CycleTerminates(t *testing.T) {
	s := NewState()
	s.Expanded["abc/10"] = true
	s.Children["abc/10"] = []tree.Node{root()}

	rows := NewRenderer(s, nil).Render(root())
	if len(rows) != 2 {
		t.Errorf("Expected the repeated key to render once without descending, got %v", names(rows))
	}
}

func TestRender_Idempotent(t *testing.T) {
	s := sampleState()
	s.Toggle(root())
	s.Sizes["abc/10"] = 10
	r := NewRenderer(s, nil)

	if !reflect.DeepEqual(r.Render(root()), r.Render(root())) {
		t.Error("Rendering unchanged state should produce identical rows")
	}
}

func TestClick_NilCallback(t *testing.T) {
	r := NewRenderer(sampleState(), nil)
	r.Click(r.Render(root())[0])
}

func TestWrite(t *testing.T) {
	s := sampleState()
	s.Toggle(root())
	s.Sizes["y/7"] = 7
	r := NewRenderer(s, nil)
	r.FormatBytes = plainBytes

	var buf bytes.Buffer
	if err := Write(&buf, r.Render(root()), Glyphs{Download: "D", Expanded: "-", Collapsed: "+"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	expected := "- root  [abc/10]\n" +
		"  D a.txt  [x/3]\n" +
		"  + sub  7 total  [y/7]\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, buf.String())
	}
}
