package safety

import (
	"errors"
	"fmt"
)

// ErrReservedName — имя каталога совпадает с особой целью cd ("/" или "..").
// Такой каталог нельзя было бы открыть: cd увёл бы в корень или к родителю.
var ErrReservedName = errors.New("reserved directory name")

// ValidateName проверяет имя из строки "dir <имя>".
// Любое другое литеральное имя допустимо, включая "." и имена со слэшем.
func ValidateName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("пустое имя каталога")
	case "/", "..":
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}
