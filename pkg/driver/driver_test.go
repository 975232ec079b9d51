package driver

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/patch"
	"github.com/vango-dev/sprout/pkg/vdom"
)

type msg string

var h vdom.Html[msg]

func newDriver(t *testing.T, opts Options[msg]) (*Driver[msg], *memdom.Document, *memdom.Node) {
	t.Helper()
	doc := memdom.New()
	root := doc.Element("main")
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return New(doc, root, opts), doc, root
}

func items(names ...string) *vdom.Node[msg] {
	lis := make([]*vdom.Node[msg], len(names))
	for i, n := range names {
		lis[i] = h.Li(vdom.Key(n), n)
	}
	return h.Ul(lis)
}

func TestMountAndRender(t *testing.T) {
	d, _, root := newDriver(t, Options[msg]{})
	if d.Mounted() {
		t.Fatal("new driver should be unmounted")
	}
	if err := d.Render(items("a")); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Render before Mount = %v, want ErrNotMounted", err)
	}

	if err := d.Mount(items("a", "b")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := d.Mount(items("a")); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Mount = %v, want ErrAlreadyMounted", err)
	}
	if err := d.Render(items("b")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := root.InnerHTML(); got != "<ul><li>b</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestMountClearsContainer(t *testing.T) {
	d, doc, root := newDriver(t, Options[msg]{})
	_ = root.AppendChild(doc.Element("p"))
	if err := d.Mount(h.Div("x")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := root.InnerHTML(); got != "<div>x</div>" {
		t.Errorf("html = %s", got)
	}
}

func TestFailedRenderKeepsTree(t *testing.T) {
	d, doc, root := newDriver(t, Options[msg]{})
	if err := d.Mount(items("a")); err != nil {
		t.Fatal(err)
	}
	before := d.Tree()

	doc.FailNext(memdom.MutCreateElement, dom.ErrHierarchy)
	err := d.Render(items("a", "b"))
	if !errors.Is(err, patch.ErrDocumentAPI) {
		t.Fatalf("err = %v, want ErrDocumentAPI", err)
	}
	if d.Tree() != before {
		t.Error("failed render replaced the current tree")
	}

	if err := d.Render(items("a", "b")); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := root.InnerHTML(); got != "<ul><li>a</li><li>b</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestFailedRenderRebuilds(t *testing.T) {
	d, doc, root := newDriver(t, Options[msg]{})
	view := func() *vdom.Node[msg] {
		return h.Div(h.P("a"), h.Button(vdom.OnSimple[msg]("click", "go"), "x"))
	}
	if err := d.Mount(view()); err != nil {
		t.Fatal(err)
	}

	// The text patch lands before the section cannot be created.
	doc.FailNext(memdom.MutCreateElement, dom.ErrHierarchy)
	if err := d.Render(h.Div(h.P("b"), h.Section())); err == nil {
		t.Fatal("render should fail")
	}
	if !d.Dirty() {
		t.Error("driver should be dirty after a failed render")
	}
	if got := root.InnerHTML(); got != "<div><p>b</p><button>x</button></div>" {
		t.Fatalf("html after failure = %s", got)
	}

	if err := d.Render(view()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := root.InnerHTML(); got != "<div><p>a</p><button>x</button></div>" {
		t.Errorf("html = %s", got)
	}
	if d.Dirty() {
		t.Error("driver still dirty after a good render")
	}
	if got := d.Patcher().Subscriptions(); got != 1 {
		t.Errorf("subscriptions = %d, want 1", got)
	}

	var got []msg
	d.SetDispatch(func(m msg) { got = append(got, m) })
	memdom.Click(root.Query("button"))
	if len(got) != 1 {
		t.Errorf("clicks dispatched %v, want one message", got)
	}

	if err := d.Render(h.Div(h.P("c"), h.Button(vdom.OnSimple[msg]("click", "go"), "x"))); err != nil {
		t.Fatal(err)
	}
	if got := root.InnerHTML(); got != "<div><p>c</p><button>x</button></div>" {
		t.Errorf("html after patch = %s", got)
	}
}

func TestUnmountAfterFailedRender(t *testing.T) {
	d, doc, root := newDriver(t, Options[msg]{})
	_ = d.Mount(items("a"))
	doc.FailNext(memdom.MutCreateElement, dom.ErrHierarchy)
	_ = d.Render(items("a", "b"))

	if err := d.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if root.InnerHTML() != "" || d.Patcher().Len() != 0 {
		t.Errorf("html = %q, live nodes = %d", root.InnerHTML(), d.Patcher().Len())
	}
	if err := d.Mount(items("c")); err != nil {
		t.Fatal(err)
	}
	if got := root.InnerHTML(); got != "<ul><li>c</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestKeyedOption(t *testing.T) {
	var cycles []Cycle
	d, _, root := newDriver(t, Options[msg]{
		Keyed:    true,
		Observer: ObserverFunc(func(c Cycle) { cycles = append(cycles, c) }),
	})
	_ = d.Mount(items("a", "b", "c"))
	first := root.Query("li")

	if err := d.Render(items("c", "a", "b")); err != nil {
		t.Fatal(err)
	}
	if root.QueryAll("li")[1] != first {
		t.Error("keyed item was not moved")
	}
	last := cycles[len(cycles)-1]
	if last.Kind != CycleRender || last.Ops[vdom.PatchMove] != 1 {
		t.Errorf("cycle = %+v", last)
	}
}

func TestTakeOver(t *testing.T) {
	d, doc, root := newDriver(t, Options[msg]{TakeOver: true})
	// Markup as a server would have rendered it, plus a stray node.
	btn := doc.Element("button")
	_ = btn.SetAttribute("class", "primary")
	label, _ := doc.CreateTextNode("Go")
	_ = btn.AppendChild(label)
	_ = root.AppendChild(btn)
	_ = root.AppendChild(doc.Element("script"))

	var got []msg
	d.SetDispatch(func(m msg) { got = append(got, m) })
	doc.ResetStats()

	if err := d.Mount(h.Button(vdom.Class("primary"), vdom.OnSimple[msg]("click", "go"), "Go")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if st := doc.Stats(); st.ElementsCreated != 0 || st.TextsCreated != 0 {
		t.Errorf("stats = %+v, want nothing created", st)
	}
	if root.Query("button") != btn || root.Query("script") != nil {
		t.Errorf("html = %s", root.InnerHTML())
	}
	memdom.Click(btn)
	if len(got) != 1 || got[0] != "go" {
		t.Errorf("messages = %v", got)
	}
}

func TestUnmount(t *testing.T) {
	var kinds []CycleKind
	unmounted := false
	d, _, root := newDriver(t, Options[msg]{
		Observer: Observers{ObserverFunc(func(c Cycle) { kinds = append(kinds, c.Kind) })},
	})
	if err := d.Unmount(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Unmount before Mount = %v", err)
	}
	_ = d.Mount(h.Div(vdom.WillUnmount(func(dom.Element) (msg, bool) {
		unmounted = true
		return "", false
	})))
	if err := d.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if !unmounted || root.InnerHTML() != "" || d.Mounted() || d.Tree() != nil {
		t.Errorf("unmounted=%v html=%q mounted=%v", unmounted, root.InnerHTML(), d.Mounted())
	}
	if d.Patcher().Len() != 0 {
		t.Errorf("live handles = %d, want 0", d.Patcher().Len())
	}
	if len(kinds) != 2 || kinds[0] != CycleMount || kinds[1] != CycleUnmount {
		t.Errorf("cycles = %v", kinds)
	}
}
