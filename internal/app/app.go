package app

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"dirsize/internal/parser"
	"dirsize/internal/query"
	"dirsize/internal/tree"
)

// Options — все настройки запуска.
type Options struct {
	InPath   string // путь к транскрипту, "-" — stdin
	Stdin    io.Reader
	Limit    uint64
	Capacity uint64
	Required uint64
	Logger   *zap.Logger
}

// Result — ответы на оба запроса плюс немного контекста.
type Result struct {
	Total        uint64 `json:"total" yaml:"total"`
	Dirs         int    `json:"dirs" yaml:"dirs"`
	Limit        uint64 `json:"limit" yaml:"limit"`
	ThresholdSum uint64 `json:"threshold_sum" yaml:"threshold_sum"`
	Deficit      uint64 `json:"deficit" yaml:"deficit"`
	Smallest     uint64 `json:"smallest" yaml:"smallest"`
}

// Run — главная функция: читает транскрипт, строит дерево, выполняет запросы.
func Run(o Options) (Result, error) {
	log := logger(o)

	t, err := Load(o)
	if err != nil {
		return Result{}, err
	}

	total := t.Root().Size
	res := Result{
		Total:        total,
		Dirs:         t.Len(),
		Limit:        o.Limit,
		ThresholdSum: query.ThresholdSum(t, o.Limit),
	}

	res.Deficit, err = query.Deficit(o.Capacity, o.Required, total)
	if err != nil {
		return Result{}, fmt.Errorf("занято %d при объёме %d: %w", total, o.Capacity, err)
	}
	res.Smallest, err = query.SmallestAtLeast(t, res.Deficit)
	if err != nil {
		return Result{}, fmt.Errorf("нужно освободить %d: %w", res.Deficit, err)
	}

	log.Info("done",
		zap.Uint64("total", res.Total),
		zap.Int("dirs", res.Dirs),
		zap.Uint64("threshold_sum", res.ThresholdSum),
		zap.Uint64("deficit", res.Deficit),
		zap.Uint64("smallest", res.Smallest))
	return res, nil
}

// Load открывает источник, парсит транскрипт и строит дерево.
func Load(o Options) (*tree.Tree[uint64], error) {
	log := logger(o)

	// 1) Открываем источник: файл или stdin.
	var r io.Reader
	if o.InPath == "-" || o.InPath == "" {
		r = o.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(o.InPath)
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть входной файл %q: %w", o.InPath, err)
		}
		defer f.Close()
		r = f
	}

	// 2) Парсим транскрипт в план.
	p, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга транскрипта: %w", err)
	}
	log.Debug("parsed", zap.String("in", o.InPath), zap.Int("steps", len(p.Steps)))

	// 3) Применяем план к дереву.
	t, err := tree.Build[uint64](p, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения дерева: %w", err)
	}
	return t, nil
}

func logger(o Options) *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
