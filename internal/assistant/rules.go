package assistant

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

//go:embed rules.yaml
var defaultRules []byte

const fragmentSeparator = "*"

// Rule maps a set of trigger fragments to a canned response.
type Rule struct {
	Topic     enums.Topic `yaml:"topic"`
	Fragments []string    `yaml:"fragments"`
	Response  string      `yaml:"response"`

	patterns [][]string
}

// KnowledgeBase is the decoded rule table. Rules are kept in priority order.
type KnowledgeBase struct {
	Welcome        string   `yaml:"welcome"`
	Fallback       string   `yaml:"fallback"`
	QuickQuestions []string `yaml:"quick_questions"`
	Rules          []Rule   `yaml:"rules"`
}

// LoadRules decodes a knowledge base from YAML and builds an engine from it.
func LoadRules(r io.Reader) (*Engine, error) {
	var kb KnowledgeBase
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&kb); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode assistant rules")
	}
	return NewEngine(kb)
}

// LoadRulesFile reads an operator supplied rule table from disk.
func LoadRulesFile(path string) (*Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open assistant rules")
	}
	defer f.Close()
	return LoadRules(f)
}

// Default builds an engine from the embedded knowledge base.
func Default() (*Engine, error) {
	return LoadRules(bytes.NewReader(defaultRules))
}

// compile validates the table and splits every fragment into its ordered parts.
func (kb *KnowledgeBase) compile() error {
	if strings.TrimSpace(kb.Fallback) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "assistant rules need a fallback response")
	}
	if strings.TrimSpace(kb.Welcome) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "assistant rules need a welcome message")
	}

	seen := make(map[enums.Topic]struct{}, len(kb.Rules))
	for i := range kb.Rules {
		rule := &kb.Rules[i]
		if rule.Topic == "" || rule.Topic == enums.TopicFallback {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rule %d: invalid topic %q", i, rule.Topic))
		}
		if _, dup := seen[rule.Topic]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rule %d: duplicate topic %q", i, rule.Topic))
		}
		seen[rule.Topic] = struct{}{}
		if strings.TrimSpace(rule.Response) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rule %q: empty response", rule.Topic))
		}

		rule.patterns = rule.patterns[:0]
		for _, fragment := range rule.Fragments {
			parts := splitFragment(fragment)
			if len(parts) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rule %q: empty fragment", rule.Topic))
			}
			rule.patterns = append(rule.patterns, parts)
		}
		if len(rule.patterns) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rule %q: no fragments", rule.Topic))
		}
	}
	return nil
}

func splitFragment(fragment string) []string {
	var parts []string
	for _, part := range strings.Split(Normalize(fragment), fragmentSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// matches reports whether every part of some fragment occurs in text, in order.
func (r Rule) matches(text string) bool {
	for _, parts := range r.patterns {
		if containsInOrder(text, parts) {
			return true
		}
	}
	return false
}

func containsInOrder(text string, parts []string) bool {
	rest := text
	for _, part := range parts {
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return true
}
