// Package chat is the scripted assistant panel. It keeps the transcript
// and answers every user message with one canned reply after a delay.
// There is no inference backend.
package chat

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/codestudio/internal/util"
)

var log = logging.Logger("codestudio/chat")

const (
	// DefaultBufferSize is the default number of messages to keep in memory
	DefaultBufferSize = 200

	// DefaultDelay is how long the assistant "thinks" before replying.
	DefaultDelay = time.Second
)

// Greeting is posted once at startup.
const Greeting = "Welcome to CodeStudio! I'm here to help you with your coding. " +
	"Feel free to ask me questions about your code, debugging, or programming concepts. " +
	"What would you like to work on today?"

// QuickStart is posted by the welcome page's guide action.
const QuickStart = "Welcome to CodeStudio! Here's a quick guide:\n\n" +
	"1. Create new files using the '+' button or Ctrl+N\n" +
	"2. Use the Run button to execute code\n" +
	"3. Ask me questions about your code anytime!\n" +
	"4. All panels are resizable by dragging the borders\n" +
	"5. Your recent files are automatically saved"

// Replies are the canned answers to user messages.
var Replies = []string{
	"I can help you with that! Could you provide more details about what you're trying to achieve?",
	"That's an interesting question. Let me think about the best approach for your code.",
	"I see you're working on some code. What specific issue are you facing?",
	"Great question! Here are a few suggestions that might help you.",
	"I'd be happy to help you debug that. Can you share the error message you're seeing?",
}

// Manager holds the transcript.
type Manager struct {
	mu        sync.RWMutex
	messages  *util.RingBuffer[*Message]
	listeners []chan *Message
	delay     time.Duration
	pick      func(n int) int

	// scheduled replies not yet posted
	pending sync.WaitGroup
}

type Option func(*Manager)

// WithDelay sets the reply delay. Zero posts replies right away (still
// asynchronously).
func WithDelay(d time.Duration) Option {
	return func(m *Manager) { m.delay = d }
}

// WithPicker replaces the random reply choice.
func WithPicker(pick func(n int) int) Option {
	return func(m *Manager) { m.pick = pick }
}

// New creates a new chat manager
func New(bufferSize int, opts ...Option) *Manager {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	m := &Manager{
		messages:  util.NewRingBuffer[*Message](bufferSize),
		listeners: make([]chan *Message, 0),
		delay:     DefaultDelay,
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send posts a user message and schedules one canned reply. Blank
// messages are ignored. A scheduled reply is never cancelled.
func (m *Manager) Send(text string) (*Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	msg := NewMessage(SenderUser, text)
	m.addMessage(msg)
	m.schedule(Replies[m.pick(len(Replies))])
	return msg, true
}

// Greet schedules the welcome message.
func (m *Manager) Greet() {
	m.schedule(Greeting)
}

// Guide posts the quick-start guide immediately.
func (m *Manager) Guide() *Message {
	msg := NewMessage(SenderAssistant, QuickStart)
	m.addMessage(msg)
	return msg
}

func (m *Manager) schedule(content string) {
	m.pending.Add(1)
	time.AfterFunc(m.delay, func() {
		defer m.pending.Done()
		m.addMessage(NewMessage(SenderAssistant, content))
	})
}

// Wait blocks until every scheduled reply has been posted.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// GetMessages returns all messages in the buffer
func (m *Manager) GetMessages() []*Message {
	return m.messages.Snapshot()
}

// Subscribe returns a channel that receives new messages
func (m *Manager) Subscribe() <-chan *Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *Message, 10)
	m.listeners = append(m.listeners, ch)
	return ch
}

// Unsubscribe removes a listener channel
func (m *Manager) Unsubscribe(ch <-chan *Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, listener := range m.listeners {
		if listener == ch {
			close(listener)
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// addMessage adds a message to the buffer and notifies listeners
func (m *Manager) addMessage(msg *Message) {
	// Ring buffer handles its own concurrency
	m.messages.Push(msg)

	m.mu.RLock()
	for _, listener := range m.listeners {
		select {
		case listener <- msg:
		default:
			log.Debugf("listener full, dropping message %s", msg.ID)
		}
	}
	m.mu.RUnlock()
}
