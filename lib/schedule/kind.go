package schedule

import (
	"strings"
	"sync"
	"unicode"
)

type KindCode int

const (
	KindLecture KindCode = iota
	KindPractice
	KindLabWork
	KindProject
	KindExam
	KindCourseCredit
	KindConsultation
	KindOther
)

// Kind is a lesson type. Label is only set for KindOther and carries the
// normalized upstream spelling (or the joined parts of a composite
// label).
type Kind struct {
	Code  KindCode
	Label string
}

func (k Kind) String() string {
	switch k.Code {
	case KindLecture:
		return "Лекция"
	case KindPractice:
		return "Практика"
	case KindLabWork:
		return "Лабораторная работа"
	case KindProject:
		return "Проектная деятельность"
	case KindExam:
		return "Экзамен"
	case KindCourseCredit:
		return "Зачёт"
	case KindConsultation:
		return "Консультация"
	}
	return capitalize(k.Label)
}

// Short returns the abbreviated display form used when several kinds
// have to fit on one line.
func (k Kind) Short() string {
	switch k.Code {
	case KindLecture:
		return "Лек."
	case KindPractice:
		return "Пр."
	case KindLabWork:
		return "Лаб."
	case KindProject:
		return "Проект"
	case KindExam:
		return "Экз."
	case KindCourseCredit:
		return "Зач."
	case KindConsultation:
		return "Конс."
	}
	return capitalize(k.Label)
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// the type must be spelled in lowercase here. spellings differ between
// institutions, known variants are folded into one canonical kind.
var kindDictionary = map[string]KindCode{
	"лекция": KindLecture,

	"практика":                          KindPractice,
	"практическое занятие":              KindPractice,
	"практические занятия":              KindPractice,
	"практические (семинарские) занятия": KindPractice,

	"лабораторная работа":  KindLabWork,
	"лабораторная":         KindLabWork,
	"лаб.-практич.занятия": KindLabWork,

	"проект":                 KindProject,
	"проектная деятельность": KindProject,

	"экзамен":  KindExam,
	"экзамены": KindExam,

	"зачет": KindCourseCredit,
	"зачёт": KindCourseCredit,

	"консультация": KindConsultation,
}

// delivery-mode annotations are stripped before classification; the mode
// itself is not part of the canonical kind, callers that need it must
// capture it off the raw label first.
var modeAnnotations = []string{"(вебинар)", "(конференция)"}

// Classify maps a free-text lesson-type label onto the canonical kind
// set. It is total: unknown labels degrade to KindOther, never an error.
func Classify(label string) Kind {
	return classifyLower(strings.ToLower(strings.TrimSpace(label)))
}

func classifyLower(lower string) Kind {
	if code, ok := kindDictionary[lower]; ok {
		return Kind{Code: code}
	}

	// a composite label keeps its composite-ness even when every part
	// resolves to the same kind
	if strings.ContainsAny(lower, ";,") {
		parts := strings.FieldsFunc(lower, func(r rune) bool {
			return r == ';' || r == ','
		})
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			names = append(names, classifyLower(strings.TrimSpace(p)).Short())
		}
		return Kind{Code: KindOther, Label: strings.Join(names, ", ")}
	}

	for _, mode := range modeAnnotations {
		if i := strings.Index(lower, mode); i >= 0 {
			return classifyLower(strings.TrimSpace(lower[:i]))
		}
	}

	return Kind{Code: KindOther, Label: lower}
}

// Classifier is Classify plus an optional observer that is told about
// every raw label seen for the first time. Useful for collecting new
// institutional spellings to extend the dictionary with.
type Classifier struct {
	Observer func(label string)

	mu   sync.Mutex
	seen map[string]struct{}
}

func (c *Classifier) Classify(label string) Kind {
	if c != nil && c.Observer != nil {
		c.mu.Lock()
		if c.seen == nil {
			c.seen = map[string]struct{}{}
		}
		_, ok := c.seen[label]
		if !ok {
			c.seen[label] = struct{}{}
		}
		c.mu.Unlock()
		if !ok {
			c.Observer(label)
		}
	}
	return Classify(label)
}
