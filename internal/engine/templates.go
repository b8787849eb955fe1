package engine

import (
	"fmt"
	"path/filepath"
)

// TemplateKey identifies one marker image in the template store
type TemplateKey int

const (
	Adventure TemplateKey = iota
	AdventureTask
	ChallengeTask
	Challenge
	Doufa
	Doufa2
	Match
	Match2
	BattleSuccess
	BattleLose

	templateKeyCount
)

type templateInfo struct {
	name string
	file string
}

var templateTable = [templateKeyCount]templateInfo{
	Adventure:     {"adventure", "adventure.png"},
	AdventureTask: {"adventure_task", "adventure_task.png"},
	ChallengeTask: {"challenge_task", "challenge_task.png"},
	Challenge:     {"challenge", "challenge.png"},
	Doufa:         {"doufa", "doufa.png"},
	Doufa2:        {"doufa_2", "doufa_2.png"},
	Match:         {"match", "match.png"},
	Match2:        {"match2", "match2.png"},
	BattleSuccess: {"battle_success", "battle_success.png"},
	BattleLose:    {"battle_lose", "battle_lose.png"},
}

func (k TemplateKey) valid() bool {
	return k >= 0 && k < templateKeyCount
}

func (k TemplateKey) String() string {
	if !k.valid() {
		return fmt.Sprintf("TemplateKey(%d)", int(k))
	}
	return templateTable[k].name
}

// File returns the template's file name
func (k TemplateKey) File() string {
	if !k.valid() {
		return ""
	}
	return templateTable[k].file
}

// Path resolves the template file inside dir
func (k TemplateKey) Path(dir string) string {
	return filepath.Join(dir, k.File())
}

// TemplateKeys lists every key in declaration order
func TemplateKeys() []TemplateKey {
	keys := make([]TemplateKey, 0, templateKeyCount)
	for k := TemplateKey(0); k < templateKeyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseTemplateKey maps a symbolic name (e.g. "doufa_2") back to its key
func ParseTemplateKey(name string) (TemplateKey, error) {
	for k := TemplateKey(0); k < templateKeyCount; k++ {
		if templateTable[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown template %q", name)
}
