package assistant

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

type topicRecorder struct {
	mu     sync.Mutex
	topics []enums.Topic
}

func (r *topicRecorder) TopicMatched(topic enums.Topic) {
	r.mu.Lock()
	r.topics = append(r.topics, topic)
	r.mu.Unlock()
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestConversationStartsWithWelcome(t *testing.T) {
	engine := defaultEngine(t)
	conv := NewConversation(engine, WithClock(fixedClock()))

	messages := conv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, enums.SpeakerAssistant, messages[0].Speaker)
	assert.Equal(t, engine.Welcome(), messages[0].Text)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), messages[0].Timestamp)
}

func TestConversationAsk(t *testing.T) {
	recorder := &topicRecorder{}
	conv := NewConversation(defaultEngine(t), WithClock(fixedClock()), WithTopicObserver(recorder))

	question, reply, ok := conv.Ask("PM-KISAN")
	require.True(t, ok)
	assert.Equal(t, enums.SpeakerUser, question.Speaker)
	assert.Equal(t, "PM-KISAN", question.Text)
	assert.Equal(t, enums.SpeakerAssistant, reply.Speaker)
	assert.Equal(t, enums.TopicPMKisan, reply.Topic)

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, question, messages[1])
	assert.Equal(t, reply, messages[2])
	assert.Equal(t, []enums.Topic{enums.TopicPMKisan}, recorder.topics)
}

func TestConversationIgnoresBlankInput(t *testing.T) {
	recorder := &topicRecorder{}
	conv := NewConversation(defaultEngine(t), WithTopicObserver(recorder))

	_, _, ok := conv.Ask("   ")
	assert.False(t, ok)
	_, _, ok = conv.Ask("")
	assert.False(t, ok)

	assert.Equal(t, 1, conv.Len())
	assert.Empty(t, recorder.topics)
}

func TestConversationMessagesAreCopies(t *testing.T) {
	conv := NewConversation(defaultEngine(t))
	_, _, ok := conv.Ask("मदद")
	require.True(t, ok)

	messages := conv.Messages()
	messages[0].Text = "mutated"
	assert.NotEqual(t, "mutated", conv.Messages()[0].Text)
}

func TestConversationConcurrentAsks(t *testing.T) {
	conv := NewConversation(defaultEngine(t))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv.Ask("kcc")
		}()
	}
	wg.Wait()

	messages := conv.Messages()
	require.Len(t, messages, 21)
	for i := 1; i < len(messages); i += 2 {
		assert.Equal(t, enums.SpeakerUser, messages[i].Speaker)
		assert.Equal(t, enums.SpeakerAssistant, messages[i+1].Speaker)
	}
}

func TestConversationsRegistry(t *testing.T) {
	registry := NewConversations(defaultEngine(t))

	_, ok := registry.Get("s1")
	assert.False(t, ok)

	conv := registry.Open("s1")
	conv.Ask("help")
	assert.Same(t, conv, registry.Open("s1"))
	assert.Equal(t, 1, registry.Open("s2").Len())

	registry.Close("s1")
	_, ok = registry.Get("s1")
	assert.False(t, ok)
	assert.Equal(t, 1, registry.Open("s1").Len())
}

func TestConversationsMessagesDoesNotStore(t *testing.T) {
	registry := NewConversations(defaultEngine(t))

	messages := registry.Messages("visitor")
	require.Len(t, messages, 1)
	assert.Equal(t, enums.SpeakerAssistant, messages[0].Speaker)
	assert.Equal(t, 0, registry.Len())

	registry.Open("visitor").Ask("help")
	assert.Len(t, registry.Messages("visitor"), 3)
}

func TestConversationsSweepIdle(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	registry := NewConversations(defaultEngine(t), WithClock(func() time.Time { return now }))

	registry.Open("stale")
	registry.Open("fresh")

	now = now.Add(time.Hour)
	registry.Open("fresh").Ask("help")

	now = now.Add(90 * time.Minute)
	assert.Equal(t, 1, registry.Sweep(2*time.Hour))

	_, ok := registry.Get("stale")
	assert.False(t, ok)
	conv, ok := registry.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 3, conv.Len())
}
