package report

import (
	"fmt"
	"strings"

	"github.com/gorewood/nikki/internal/section"
)

// Mode selects what a report contains.
type Mode int

const (
	ModeIdeas Mode = iota
	ModeMeals
	ModeBundle
)

// Modes lists every mode in output order.
var Modes = []Mode{ModeIdeas, ModeMeals, ModeBundle}

func (m Mode) String() string {
	switch m {
	case ModeIdeas:
		return "ideas"
	case ModeMeals:
		return "meals"
	case ModeBundle:
		return "bundle"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode resolves "ideas", "meals" or "bundle".
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown report mode %q (want ideas, meals or bundle)", s)
}

// Kind is the section kind an extract mode collects. Bundle has none.
func (m Mode) Kind() section.Kind {
	switch m {
	case ModeIdeas:
		return section.KindIdea
	case ModeMeals:
		return section.KindMeal
	default:
		return section.KindOther
	}
}

// Title is the fixed H1 of the extract modes.
func (m Mode) Title() string {
	switch m {
	case ModeIdeas:
		return "# ✨ ひらめき（Notion抽出）"
	case ModeMeals:
		return "# 🧪習慣ログ / 【食事】（Notion抽出）"
	default:
		return "# 日次まとめ"
	}
}
