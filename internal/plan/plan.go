package plan

// Kind — тип шага транскрипта.
type Kind int

const (
	ChangeDirectory Kind = iota // $ cd <name>
	Directory                   // dir <name>
	File                        // <size> <name>
)

func (k Kind) String() string {
	switch k {
	case ChangeDirectory:
		return "cd"
	case Directory:
		return "dir"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Step — одна значимая строка транскрипта.
type Step struct {
	Kind Kind
	Name string // цель cd или имя каталога; для файла не используется
	Size uint64 // размер файла (только для File)
	Line int    // номер строки во входе, с 1
}

// Plan — шаги в порядке следования во входе.
type Plan struct {
	Steps []Step
}

// Files возвращает сумму размеров всех файлов плана.
func (p Plan) Files() uint64 {
	var total uint64
	for _, s := range p.Steps {
		if s.Kind == File {
			total += s.Size
		}
	}
	return total
}
