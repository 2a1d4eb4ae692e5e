// Package assistant answers farmer questions about the marketplace and government
// schemes from an ordered table of keyword rules.
package assistant

import (
	"strings"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// Match is the outcome of looking up an input.
type Match struct {
	Topic    enums.Topic `json:"topic"`
	Response string      `json:"response"`
}

// Engine resolves free text to a response. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	kb KnowledgeBase
}

// NewEngine validates kb and returns an engine over a private copy of it.
func NewEngine(kb KnowledgeBase) (*Engine, error) {
	copied := KnowledgeBase{
		Welcome:        kb.Welcome,
		Fallback:       kb.Fallback,
		QuickQuestions: append([]string(nil), kb.QuickQuestions...),
		Rules:          make([]Rule, len(kb.Rules)),
	}
	for i, rule := range kb.Rules {
		copied.Rules[i] = Rule{
			Topic:     rule.Topic,
			Fragments: append([]string(nil), rule.Fragments...),
			Response:  rule.Response,
		}
	}
	if err := copied.compile(); err != nil {
		return nil, err
	}
	return &Engine{kb: copied}, nil
}

// Normalize trims, lower-cases and collapses runs of whitespace.
func Normalize(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

// Match returns the first rule that fires for input, or the fallback.
func (e *Engine) Match(input string) Match {
	text := Normalize(input)
	if text != "" {
		for _, rule := range e.kb.Rules {
			if rule.matches(text) {
				return Match{Topic: rule.Topic, Response: rule.Response}
			}
		}
	}
	return Match{Topic: enums.TopicFallback, Response: e.kb.Fallback}
}

func (e *Engine) Respond(input string) string {
	return e.Match(input).Response
}

func (e *Engine) Welcome() string {
	return e.kb.Welcome
}

// QuickQuestions returns the canned starter questions shown before the first message.
func (e *Engine) QuickQuestions() []string {
	return append([]string(nil), e.kb.QuickQuestions...)
}

// Topics lists the rule topics in priority order.
func (e *Engine) Topics() []enums.Topic {
	topics := make([]enums.Topic, 0, len(e.kb.Rules))
	for _, rule := range e.kb.Rules {
		topics = append(topics, rule.Topic)
	}
	return topics
}
