package tree

import (
	"errors"
	"strings"

	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidParent — попытка подняться выше корня.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrInvalidChild — переход в каталог, который ещё не был объявлен через dir.
	ErrInvalidChild = errors.New("invalid child")
)

// RootLabel — имя корневого узла.
const RootLabel = "/"

// NoParent — значение Parent у корня.
const NoParent = -1

// Node — каталог в арене. Size включает всё, что лежит ниже.
type Node[S constraints.Unsigned] struct {
	Label    string
	Size     S
	Parent   int   // индекс родителя, NoParent у корня
	Children []int // индексы детей в порядке появления
}

// Tree — арена узлов с курсором "текущий каталог".
// Узлы только добавляются, индексы стабильны, корень всегда под индексом 0.
type Tree[S constraints.Unsigned] struct {
	nodes   []Node[S]
	current int
}

// New создаёт дерево из одного корня нулевого размера.
func New[S constraints.Unsigned]() *Tree[S] {
	return &Tree[S]{
		nodes: []Node[S]{{Label: RootLabel, Parent: NoParent}},
	}
}

// Insert добавляет узел в арену и возвращает его индекс.
// Связывание с родителем — забота вызывающего.
func (t *Tree[S]) Insert(n Node[S]) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// AddDir создаёт пустой каталог внутри текущего. Курсор не меняется.
func (t *Tree[S]) AddDir(name string) int {
	idx := t.Insert(Node[S]{Label: name, Parent: t.current})
	t.nodes[t.current].Children = append(t.nodes[t.current].Children, idx)
	return idx
}

// AddFile прибавляет size к узлу index и ко всем его предкам.
func (t *Tree[S]) AddFile(index int, size S) {
	for i := index; i != NoParent; i = t.nodes[i].Parent {
		t.nodes[i].Size += size
	}
}

// GoToRoot ставит курсор на корень.
func (t *Tree[S]) GoToRoot() {
	t.current = 0
}

// GoToParent поднимает курсор на уровень выше.
func (t *Tree[S]) GoToParent() error {
	p := t.nodes[t.current].Parent
	if p == NoParent {
		return ErrInvalidParent
	}
	t.current = p
	return nil
}

// GoToChild переводит курсор в дочерний каталог name текущего узла.
func (t *Tree[S]) GoToChild(name string) error {
	idx, ok := t.Child(t.current, name)
	if !ok {
		return ErrInvalidChild
	}
	t.current = idx
	return nil
}

// ChangeDirectory: "/" — в корень, ".." — к родителю, иначе — в дочерний каталог.
func (t *Tree[S]) ChangeDirectory(name string) error {
	switch name {
	case "/":
		t.GoToRoot()
		return nil
	case "..":
		return t.GoToParent()
	default:
		return t.GoToChild(name)
	}
}

// Child ищет среди детей узла index каталог с именем name.
func (t *Tree[S]) Child(index int, name string) (int, bool) {
	for _, c := range t.nodes[index].Children {
		if t.nodes[c].Label == name {
			return c, true
		}
	}
	return 0, false
}

// Current — индекс текущего каталога.
func (t *Tree[S]) Current() int { return t.current }

// Len — количество узлов, включая корень.
func (t *Tree[S]) Len() int { return len(t.nodes) }

// Node возвращает копию узла. Children разделяется с деревом, менять его нельзя.
func (t *Tree[S]) Node(index int) Node[S] { return t.nodes[index] }

// Root — корневой узел.
func (t *Tree[S]) Root() Node[S] { return t.nodes[0] }

// Sizes возвращает размеры всех узлов в порядке индексов.
func (t *Tree[S]) Sizes() []S {
	out := make([]S, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Size
	}
	return out
}

// Path строит путь узла от корня, например "/a/e".
func (t *Tree[S]) Path(index int) string {
	if index == 0 {
		return RootLabel
	}
	var parts []string
	for i := index; i != 0; i = t.nodes[i].Parent {
		parts = append(parts, t.nodes[i].Label)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(parts[i])
	}
	return b.String()
}

// Walk обходит дерево в глубину (сначала узел, потом дети по порядку).
// Если fn возвращает false, дети узла пропускаются.
func (t *Tree[S]) Walk(fn func(index, depth int, n Node[S]) bool) {
	type frame struct{ index, depth int }
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[f.index]
		if !fn(f.index, f.depth, n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i], f.depth + 1})
		}
	}
}
