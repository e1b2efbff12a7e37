// Package query содержит read-only запросы к готовому дереву размеров.
package query

import (
	"errors"
	"sort"

	"golang.org/x/exp/constraints"

	"dirsize/internal/tree"
)

var (
	// ErrNoNode — ни один каталог не дотягивает до нужного размера.
	ErrNoNode = errors.New("no node found")
	// ErrOverCapacity — занято больше, чем помещается на диск.
	ErrOverCapacity = errors.New("used space exceeds disk capacity")
)

// ThresholdSum возвращает сумму размеров всех узлов, чей размер не больше limit.
// Вложенные каталоги считаются повторно, как и их родители.
func ThresholdSum[S constraints.Unsigned](t *tree.Tree[S], limit S) S {
	var sum S
	for _, size := range t.Sizes() {
		if size <= limit {
			sum += size
		}
	}
	return sum
}

// SmallestAtLeast возвращает наименьший размер узла среди тех, что >= deficit.
func SmallestAtLeast[S constraints.Unsigned](t *tree.Tree[S], deficit S) (S, error) {
	var (
		best  S
		found bool
	)
	for _, size := range t.Sizes() {
		if size >= deficit && (!found || size < best) {
			best, found = size, true
		}
	}
	if !found {
		return 0, ErrNoNode
	}
	return best, nil
}

// Deficit считает, сколько ещё нужно освободить: required - (capacity - used).
// Если свободного места уже хватает, возвращает 0.
func Deficit[S constraints.Unsigned](capacity, required, used S) (S, error) {
	if used > capacity {
		return 0, ErrOverCapacity
	}
	free := capacity - used
	if free >= required {
		return 0, nil
	}
	return required - free, nil
}

// Dir — каталог с путём, для отчётов.
type Dir[S constraints.Unsigned] struct {
	Path string
	Size S
}

// Largest возвращает n самых больших каталогов (n <= 0 — все) по убыванию размера.
// При равных размерах порядок — как в дереве.
func Largest[S constraints.Unsigned](t *tree.Tree[S], n int) []Dir[S] {
	dirs := make([]Dir[S], 0, t.Len())
	t.Walk(func(index, _ int, node tree.Node[S]) bool {
		dirs = append(dirs, Dir[S]{Path: t.Path(index), Size: node.Size})
		return true
	})
	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].Size > dirs[j].Size })
	if n > 0 && n < len(dirs) {
		dirs = dirs[:n]
	}
	return dirs
}
