package tree

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"dirsize/internal/plan"
)

// ErrSizeOverflow — размер файла не помещается в тип размеров дерева.
var ErrSizeOverflow = errors.New("file size overflows size type")

// Build создаёт новое дерево и применяет к нему план.
func Build[S constraints.Unsigned](p plan.Plan, log *zap.Logger) (*Tree[S], error) {
	t := New[S]()
	if err := Apply(t, p, log); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply применяет шаги плана к дереву строго по порядку.
// На первой ошибке останавливается; дерево после этого считать испорченным.
func Apply[S constraints.Unsigned](t *Tree[S], p plan.Plan, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	for _, s := range p.Steps {
		switch s.Kind {
		case plan.ChangeDirectory:
			if err := t.ChangeDirectory(s.Name); err != nil {
				return fmt.Errorf("строка %d: cd %s: %w", s.Line, s.Name, err)
			}
			log.Debug("cd", zap.Int("line", s.Line), zap.String("path", t.Path(t.current)))

		case plan.Directory:
			idx := t.AddDir(s.Name)
			log.Debug("dir", zap.Int("line", s.Line), zap.String("path", t.Path(idx)))

		case plan.File:
			size := S(s.Size)
			if uint64(size) != s.Size {
				return fmt.Errorf("строка %d: %d: %w", s.Line, s.Size, ErrSizeOverflow)
			}
			t.AddFile(t.current, size)
			log.Debug("file", zap.Int("line", s.Line), zap.Uint64("size", s.Size),
				zap.String("path", t.Path(t.current)))

		default:
			return fmt.Errorf("строка %d: неизвестный шаг %v", s.Line, s.Kind)
		}
	}

	log.Debug("tree built", zap.Int("nodes", t.Len()), zap.Uint64("total", uint64(t.Root().Size)))
	return nil
}
