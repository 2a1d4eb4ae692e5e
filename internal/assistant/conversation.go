package assistant

import (
	"sync"
	"time"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// Message is one entry in a conversation log.
type Message struct {
	Speaker   enums.Speaker `json:"speaker"`
	Text      string        `json:"text"`
	Topic     enums.Topic   `json:"topic,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Observer is told which topic answered each question.
type Observer interface {
	TopicMatched(topic enums.Topic)
}

type ConversationOption func(*Conversation)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) {
		c.now = now
	}
}

func WithTopicObserver(o Observer) ConversationOption {
	return func(c *Conversation) {
		c.observer = o
	}
}

// Conversation is an append-only message log that starts with the welcome message.
type Conversation struct {
	mu       sync.RWMutex
	engine   *Engine
	messages []Message
	now      func() time.Time
	observer Observer
}

func NewConversation(engine *Engine, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		engine: engine,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = append(c.messages, Message{
		Speaker:   enums.SpeakerAssistant,
		Text:      engine.Welcome(),
		Timestamp: c.now().UTC(),
	})
	return c
}

// Ask appends the user's message and the assistant's reply and returns both.
// Blank input is ignored and reports ok=false.
func (c *Conversation) Ask(input string) (question, reply Message, ok bool) {
	if Normalize(input) == "" {
		return Message{}, Message{}, false
	}
	match := c.engine.Match(input)

	c.mu.Lock()
	now := c.now().UTC()
	question = Message{Speaker: enums.SpeakerUser, Text: input, Timestamp: now}
	reply = Message{Speaker: enums.SpeakerAssistant, Text: match.Response, Topic: match.Topic, Timestamp: now}
	c.messages = append(c.messages, question, reply)
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.TopicMatched(match.Topic)
	}
	return question, reply, true
}

// Messages returns a copy of the log in order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Conversations keeps one conversation per session. Sessions left idle are dropped by Sweep.
type Conversations struct {
	mu            sync.Mutex
	engine        *Engine
	opts          []ConversationOption
	now           func() time.Time
	conversations map[string]*Conversation
	lastSeen      map[string]time.Time
}

// NewConversations builds a registry; opts are applied to every conversation and
// a WithClock option also drives idle tracking.
func NewConversations(engine *Engine, opts ...ConversationOption) *Conversations {
	clock := &Conversation{now: time.Now}
	for _, opt := range opts {
		opt(clock)
	}
	return &Conversations{
		engine:        engine,
		opts:          opts,
		now:           clock.now,
		conversations: map[string]*Conversation{},
		lastSeen:      map[string]time.Time{},
	}
}

// Open returns the session's conversation, starting a new one on first use.
func (c *Conversations) Open(sessionID string) *Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen[sessionID] = c.now()
	if conv, ok := c.conversations[sessionID]; ok {
		return conv
	}
	conv := NewConversation(c.engine, c.opts...)
	c.conversations[sessionID] = conv
	return conv
}

func (c *Conversations) Get(sessionID string) (*Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.conversations[sessionID]
	if ok {
		c.lastSeen[sessionID] = c.now()
	}
	return conv, ok
}

// Messages returns the session's log. Sessions without a conversation see the
// welcome message only and nothing is stored for them.
func (c *Conversations) Messages(sessionID string) []Message {
	if conv, ok := c.Get(sessionID); ok {
		return conv.Messages()
	}
	return NewConversation(c.engine, c.opts...).Messages()
}

func (c *Conversations) Close(sessionID string) {
	c.mu.Lock()
	delete(c.conversations, sessionID)
	delete(c.lastSeen, sessionID)
	c.mu.Unlock()
}

// Sweep closes every conversation not touched within idle and reports how many it closed.
func (c *Conversations) Sweep(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-idle)
	closed := 0
	for id, seen := range c.lastSeen {
		if seen.Before(cutoff) {
			delete(c.conversations, id)
			delete(c.lastSeen, id)
			closed++
		}
	}
	return closed
}

func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conversations)
}

func (c *Conversations) Engine() *Engine {
	return c.engine
}
