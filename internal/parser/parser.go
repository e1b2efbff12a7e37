package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dirsize/internal/plan"
	"dirsize/internal/safety"
)

var (
	// ErrInvalidLine — строка не похожа ни на одну из известных форм.
	ErrInvalidLine = errors.New("invalid line")
	// ErrInvalidSize — размер файла не является беззнаковым целым.
	ErrInvalidSize = errors.New("invalid file size")
)

// Parse читает транскрипт терминала и возвращает план.
// Понимает строки "$ cd <имя>", "$ ls", "dir <имя>" и "<размер> <имя>".
// Любая строка другой формы, включая пустую, — ошибка с номером строки.
// Дерево здесь не трогаем: план применяется отдельно, целиком после разбора.
func Parse(r io.Reader) (plan.Plan, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var steps []plan.Step
	lineNum := 0

	for sc.Scan() {
		lineNum++
		// Пустая строка — тоже ошибка формата, поэтому срезаем только \r от CRLF.
		line := strings.TrimRight(sc.Text(), "\r")

		step, ok, err := ParseLine(line)
		if err != nil {
			return plan.Plan{}, fmt.Errorf("строка %d: %w", lineNum, err)
		}
		if !ok {
			continue
		}
		step.Line = lineNum
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return plan.Plan{}, err
	}

	return plan.Plan{Steps: steps}, nil
}

// ParseLine разбирает одну строку. ok=false означает строку без эффекта ("$ ls").
// Пробелы вокруг строки не прощаются: " 10 a" — это ErrInvalidLine.
func ParseLine(line string) (plan.Step, bool, error) {
	head, rest, found := strings.Cut(line, " ")

	switch {
	case head == "$":
		return parseCommand(line, rest)

	case head == "" || !found || rest == "":
		return plan.Step{}, false, fmt.Errorf("%w: %q", ErrInvalidLine, line)

	case head == "dir":
		if err := safety.ValidateName(rest); err != nil {
			return plan.Step{}, false, fmt.Errorf("%w: %w", ErrInvalidLine, err)
		}
		return plan.Step{Kind: plan.Directory, Name: rest}, true, nil
	}

	// Остаётся только файл: "<размер> <имя>", имя для подсчёта не нужно.
	size, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return plan.Step{}, false, fmt.Errorf("%w %q: %w", ErrInvalidSize, head, err)
	}
	return plan.Step{Kind: plan.File, Size: size}, true, nil
}

// parseCommand разбирает хвост строки после "$ ".
// Имя в cd берётся как есть: "/" и ".." разбирает дерево, остальное — дочерний каталог.
func parseCommand(line, cmd string) (plan.Step, bool, error) {
	name, arg, _ := strings.Cut(cmd, " ")

	switch {
	case name == "ls" && arg == "":
		return plan.Step{}, false, nil

	case name == "cd" && arg != "":
		return plan.Step{Kind: plan.ChangeDirectory, Name: arg}, true, nil
	}

	return plan.Step{}, false, fmt.Errorf("%w: %q", ErrInvalidLine, line)
}
