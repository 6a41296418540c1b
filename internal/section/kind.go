// Package section splits a diary page into typed sections by the marker
// lines the diary template uses.
package section

import (
	"fmt"
	"strings"
)

// Kind classifies a section of a diary page.
type Kind int

// Section kinds. KindOther covers text outside every recognized section.
const (
	KindOther Kind = iota
	KindIdea
	KindMeal
	KindHabits
	KindPractice
	KindLearning
	KindReview
)

var kindNames = map[Kind]string{
	KindOther:    "other",
	KindIdea:     "idea",
	KindMeal:     "meal",
	KindHabits:   "habits",
	KindPractice: "practice",
	KindLearning: "learning",
	KindReview:   "review",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind resolves a kind name such as "idea" or "meal".
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindOther, fmt.Errorf("unknown section kind %q", name)
}

// JournalOrder is the order of the journal sections in a bundle.
var JournalOrder = []Kind{KindHabits, KindPractice, KindIdea, KindLearning, KindReview}

// marker describes how a section kind announces itself.
type marker struct {
	kind     Kind
	labels   []string
	keywords []string
}

var markers = []marker{
	{kind: KindIdea, labels: []string{"✨ ひらめき"}, keywords: []string{"ひらめき"}},
	{kind: KindHabits, labels: []string{"🧪 習慣ログ"}, keywords: []string{"習慣ログ"}},
	{kind: KindPractice, labels: []string{"☀️ 今日の実践"}, keywords: []string{"今日の実践"}},
	{kind: KindLearning, labels: []string{"🧠 新たな学び・気づき・共感"}, keywords: []string{"新たな学び"}},
	{kind: KindReview, labels: []string{"🚧 振返り・分析・改善点", "🚧 振り返り・分析・改善点"}, keywords: []string{"振返り", "振り返り"}},
}

// Placeholders are the literal bodies that mean "nothing today".
var Placeholders = []string{"なし", "- なし", "—"}

// IsPlaceholder reports whether body, trimmed, is exactly a placeholder.
func IsPlaceholder(body string) bool {
	body = strings.TrimSpace(body)
	for _, p := range Placeholders {
		if body == p {
			return true
		}
	}
	return false
}
