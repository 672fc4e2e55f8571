// Package chatclient holds the state of one chat widget: the exchanged
// turns, the pending input and the display flags. The browser widget in
// web/static and the terminal client both follow the rules implemented here.
package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/RichardoC/support-chat/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// ErrorReply is shown locally when a send fails. It is never persisted.
const ErrorReply = "Sorry, I encountered an error. Please try again."

var DefaultEmojis = []string{"😀", "😂", "😊", "😍", "🤔", "😢", "👍", "👎", "🙏", "🎉", "❤️", "🔥"}

var (
	ErrEmojiPickerDisabled = errors.New("emoji picker is disabled")
	ErrFullscreenDisabled  = errors.New("fullscreen is disabled")
)

// Options enumerates the optional widget features.
type Options struct {
	ShowEmojiPicker bool `json:"showEmojiPicker"`
	AllowFullscreen bool `json:"allowFullscreen"`
}

// Relay delivers one message to the relay endpoint and returns the reply.
type Relay interface {
	Send(ctx context.Context, message string) (string, error)
}

type Client struct {
	relay Relay
	opts  Options

	mu         sync.Mutex
	history    *memory.ChatMessageHistory
	input      string
	busy       bool
	open       bool
	fullscreen bool
	unread     int
}

func New(relay Relay, opts Options) *Client {
	return &Client{
		relay:   relay,
		opts:    opts,
		history: memory.NewChatMessageHistory(),
	}
}

func (c *Client) Options() Options {
	return c.opts
}

func (c *Client) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

func (c *Client) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Client) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Send delivers the pending input. It returns false without doing anything
// when the input is blank or another send is still in flight. The user turn
// is shown before the relay answers; a failed relay call shows ErrorReply.
func (c *Client) Send(ctx context.Context) bool {
	c.mu.Lock()
	if strings.TrimSpace(c.input) == "" || c.busy {
		c.mu.Unlock()
		return false
	}
	message := c.input
	_ = c.history.AddUserMessage(ctx, message)
	c.input = ""
	c.busy = true
	c.mu.Unlock()

	reply, err := c.relay.Send(ctx, message)
	if err != nil {
		reply = ErrorReply
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.history.AddAIMessage(ctx, reply)
	if !c.open {
		c.unread++
	}
	c.busy = false
	return true
}

// Messages returns the turns shown so far, oldest first.
func (c *Client) Messages(ctx context.Context) []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, _ := c.history.Messages(ctx)
	out := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.ChatMessage{Role: roleOf(m), Content: m.GetContent()})
	}
	return out
}

func (c *Client) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.unread = 0
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

// Toggle flips the display and reports whether it is now open.
func (c *Client) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	if c.open {
		c.unread = 0
	}
	return c.open
}

func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Unread counts replies that arrived while the display was closed.
func (c *Client) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

func (c *Client) ToggleFullscreen() (bool, error) {
	if !c.opts.AllowFullscreen {
		return false, ErrFullscreenDisabled
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = !c.fullscreen
	return c.fullscreen, nil
}

func (c *Client) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

// Emojis lists the picker choices, or nil when the picker is disabled.
func (c *Client) Emojis() []string {
	if !c.opts.ShowEmojiPicker {
		return nil
	}
	return DefaultEmojis
}

// InsertEmoji appends emoji to the pending input.
func (c *Client) InsertEmoji(emoji string) error {
	if !c.opts.ShowEmojiPicker {
		return ErrEmojiPickerDisabled
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input += emoji
	return nil
}

func roleOf(m llms.ChatMessage) string {
	switch m.GetType() {
	case llms.ChatMessageTypeHuman:
		return models.RoleUser
	case llms.ChatMessageTypeAI:
		return models.RoleAssistant
	default:
		return string(m.GetType())
	}
}
