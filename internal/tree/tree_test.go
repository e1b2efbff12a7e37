package tree

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirsize/internal/parser"
	"dirsize/internal/plan"
)

func sample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/sample.txt")
	require.NoError(t, err)
	return string(data)
}

func mustParse(t *testing.T, in string) plan.Plan {
	t.Helper()
	p, err := parser.Parse(strings.NewReader(in))
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	tr := New[uint64]()
	require.Equal(t, 1, tr.Len())
	root := tr.Root()
	assert.Equal(t, RootLabel, root.Label)
	assert.Equal(t, NoParent, root.Parent)
	assert.Zero(t, root.Size)
	assert.Zero(t, tr.Current())
}

func TestBuild_Sample(t *testing.T) {
	tr, err := Build[uint64](mustParse(t, sample(t)), nil)
	require.NoError(t, err)

	want := []uint64{48381165, 94853, 24933642, 584}
	if diff := cmp.Diff(want, tr.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "/", tr.Path(0))
	assert.Equal(t, "/a", tr.Path(1))
	assert.Equal(t, "/d", tr.Path(2))
	assert.Equal(t, "/a/e", tr.Path(3))
	assert.Equal(t, []int{1, 2}, tr.Root().Children)
	assert.Equal(t, 1, tr.Node(3).Parent)
}

func TestAddFile_PropagatesToAncestorsOnly(t *testing.T) {
	tr := New[uint32]()
	a := tr.AddDir("a")
	b := tr.AddDir("b")
	require.NoError(t, tr.GoToChild("a"))
	c := tr.AddDir("c")

	tr.AddFile(c, 7)

	assert.Equal(t, uint32(7), tr.Node(c).Size)
	assert.Equal(t, uint32(7), tr.Node(a).Size)
	assert.Equal(t, uint32(7), tr.Root().Size)
	assert.Zero(t, tr.Node(b).Size)
}

func TestAddDir_KeepsCursor(t *testing.T) {
	tr := New[uint64]()
	idx := tr.AddDir("a")
	assert.Equal(t, 1, idx)
	assert.Zero(t, tr.Current())
	assert.Equal(t, 0, tr.Node(idx).Parent)
}

func TestInsert_AppendsWithoutLinking(t *testing.T) {
	tr := New[uint64]()
	idx := tr.Insert(Node[uint64]{Label: "orphan", Parent: 0})
	assert.Equal(t, 1, idx)
	assert.Empty(t, tr.Root().Children)
	_, ok := tr.Child(0, "orphan")
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	tr := New[uint64]()
	tr.AddDir("a")
	require.NoError(t, tr.ChangeDirectory("a"))
	tr.AddDir("b")
	require.NoError(t, tr.ChangeDirectory("b"))
	assert.Equal(t, "/a/b", tr.Path(tr.Current()))

	require.NoError(t, tr.ChangeDirectory(".."))
	assert.Equal(t, "/a", tr.Path(tr.Current()))

	require.NoError(t, tr.ChangeDirectory("/"))
	assert.Zero(t, tr.Current())
}

func TestNavigation_Errors(t *testing.T) {
	tr := New[uint64]()
	assert.ErrorIs(t, tr.GoToParent(), ErrInvalidParent)
	assert.ErrorIs(t, tr.ChangeDirectory(".."), ErrInvalidParent)
	assert.ErrorIs(t, tr.ChangeDirectory("missing"), ErrInvalidChild)
	assert.Zero(t, tr.Current())
	assert.Equal(t, 1, tr.Len(), "failed cd must not create a directory")
}

func TestNavigation_RoundTrip(t *testing.T) {
	tr, err := Build[uint64](mustParse(t, sample(t)), nil)
	require.NoError(t, err)

	for i := 0; i < tr.Len(); i++ {
		for _, c := range tr.Node(i).Children {
			tr.current = i
			require.NoError(t, tr.GoToChild(tr.Node(c).Label))
			assert.Equal(t, c, tr.Current())
			require.NoError(t, tr.GoToParent())
			assert.Equal(t, i, tr.Current())
		}
	}
}

func TestApply_InvalidChild(t *testing.T) {
	p := mustParse(t, "$ cd /\n$ cd nonexistent\n")
	_, err := Build[uint64](p, nil)
	require.ErrorIs(t, err, ErrInvalidChild)
	assert.Contains(t, err.Error(), "строка 2")
}

func TestApply_InvalidParent(t *testing.T) {
	_, err := Build[uint64](mustParse(t, "$ cd ..\n"), nil)
	require.ErrorIs(t, err, ErrInvalidParent)
}

func TestApply_SizeOverflow(t *testing.T) {
	_, err := Build[uint8](mustParse(t, "$ cd /\n256 big\n"), nil)
	require.ErrorIs(t, err, ErrSizeOverflow)

	tr, err := Build[uint8](mustParse(t, "$ cd /\n255 fits\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), tr.Root().Size)
}

func TestApply_EmptyTranscript(t *testing.T) {
	tr, err := Build[uint64](mustParse(t, "$ cd /\n$ ls\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
	assert.Zero(t, tr.Root().Size)
}

func TestWalk_PreOrder(t *testing.T) {
	tr, err := Build[uint64](mustParse(t, sample(t)), nil)
	require.NoError(t, err)

	var got []string
	tr.Walk(func(index, depth int, n Node[uint64]) bool {
		got = append(got, fmt.Sprintf("%d:%s", depth, n.Label))
		return true
	})
	assert.Equal(t, []string{"0:/", "1:a", "2:e", "1:d"}, got)

	got = nil
	tr.Walk(func(index, depth int, n Node[uint64]) bool {
		got = append(got, n.Label)
		return n.Label != "a"
	})
	assert.Equal(t, []string{"/", "a", "d"}, got)
}

// genTranscript строит случайный корректный транскрипт: каждый каталог
// сначала перечисляется целиком, потом обходится.
func genTranscript(rng *rand.Rand, maxDepth int) string {
	var b strings.Builder
	b.WriteString("$ cd /\n")
	var visit func(depth int)
	visit = func(depth int) {
		b.WriteString("$ ls\n")
		var dirs []string
		if depth < maxDepth {
			for i := 0; i < rng.Intn(4); i++ {
				name := fmt.Sprintf("d%d", i)
				dirs = append(dirs, name)
				fmt.Fprintf(&b, "dir %s\n", name)
			}
		}
		for i := 0; i < rng.Intn(5); i++ {
			fmt.Fprintf(&b, "%d f%d.txt\n", rng.Intn(1_000_000), i)
		}
		for _, d := range dirs {
			fmt.Fprintf(&b, "$ cd %s\n", d)
			visit(depth + 1)
			b.WriteString("$ cd ..\n")
		}
	}
	visit(0)
	return b.String()
}

// directFiles пересчитывает размеры независимо от дерева: ведём собственный
// стек пути и копим файлы по полному пути каталога.
func directFiles(t *testing.T, p plan.Plan) map[string]uint64 {
	t.Helper()
	direct := map[string]uint64{}
	var stack []string
	for _, s := range p.Steps {
		switch s.Kind {
		case plan.ChangeDirectory:
			switch s.Name {
			case "/":
				stack = nil
			case "..":
				stack = stack[:len(stack)-1]
			default:
				stack = append(stack, s.Name)
			}
		case plan.File:
			direct["/"+strings.Join(stack, "/")] += s.Size
		}
	}
	return direct
}

func TestIncrementalSizeMatchesRecount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		p := mustParse(t, genTranscript(rng, 4))
		tr, err := Build[uint64](p, nil)
		require.NoError(t, err)

		direct := directFiles(t, p)
		assert.Equal(t, p.Files(), tr.Root().Size, "root must hold every file")

		for idx := 0; idx < tr.Len(); idx++ {
			path := tr.Path(idx)
			var want uint64
			for dir, size := range direct {
				if path == "/" || dir == path || strings.HasPrefix(dir, path+"/") {
					want += size
				}
			}
			assert.Equal(t, want, tr.Node(idx).Size, "size of %s", path)
		}
	}
}

func TestAddFile_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	build := func() *Tree[uint64] {
		tr := New[uint64]()
		tr.AddDir("a")
		tr.AddDir("b")
		require.NoError(t, tr.GoToChild("a"))
		tr.AddDir("c")
		tr.GoToRoot()
		return tr
	}

	type add struct {
		index int
		size  uint64
	}
	var adds []add
	for i := 0; i < 100; i++ {
		adds = append(adds, add{rng.Intn(4), uint64(rng.Intn(1000))})
	}

	inOrder := build()
	for _, a := range adds {
		inOrder.AddFile(a.index, a.size)
	}

	shuffled := build()
	rng.Shuffle(len(adds), func(i, j int) { adds[i], adds[j] = adds[j], adds[i] })
	for _, a := range adds {
		shuffled.AddFile(a.index, a.size)
	}

	assert.Equal(t, inOrder.Sizes(), shuffled.Sizes())
}
