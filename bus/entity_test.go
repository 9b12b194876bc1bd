package bus

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestSliceUTF16(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from, to int
		expected string
	}{
		{
			name: "ASCII",
			text: "/start 42", from: 0, to: 6,
			expected: "/start",
		},
		{
			name: "ToEnd",
			text: "/start 42", from: 7, to: -1,
			expected: "42",
		},
		{
			name: "CJK",
			text: "/搜索 关键词", from: 0, to: 3,
			expected: "/搜索",
		},
		{
			name: "SurrogatePair",
			text: "héllo😀world", from: 5, to: 7,
			expected: "😀",
		},
		{
			name: "AfterSurrogatePair",
			text: "😀/next", from: 2, to: 7,
			expected: "/next",
		},
		{
			name: "OutOfRange",
			text: "abc", from: 5, to: 9,
			expected: "",
		},
		{
			name: "EmptyWindow",
			text: "abc", from: 2, to: 2,
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sliceUTF16(tt.text, tt.from, tt.to); got != tt.expected {
				t.Errorf("sliceUTF16(%q, %d, %d) = %q, want %q", tt.text, tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestCommandOffsets(t *testing.T) {
	t.Run("NilMessage", func(t *testing.T) {
		if _, err := CommandOffsets(nil); err == nil {
			t.Fatal("expected error for nil message")
		}
	})
	t.Run("NoText", func(t *testing.T) {
		if _, err := CommandOffsets(&tgbotapi.Message{}); err == nil {
			t.Fatal("expected error for message without text")
		}
	})
	t.Run("NoEntities", func(t *testing.T) {
		offsets, err := CommandOffsets(&tgbotapi.Message{Text: "plain text"})
		if err != nil {
			t.Fatal(err)
		}
		if len(offsets) != 0 {
			t.Errorf("expected no offsets, got %v", offsets)
		}
	})
	t.Run("FiltersNonCommands", func(t *testing.T) {
		msg := &tgbotapi.Message{
			Text: "/a x /b y",
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: 2},
				{Type: "mention", Offset: 3, Length: 1},
				{Type: "bot_command", Offset: 5, Length: 2},
			},
		}
		offsets, err := CommandOffsets(msg)
		if err != nil {
			t.Fatal(err)
		}
		if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 5 {
			t.Errorf("expected [0 5], got %v", offsets)
		}
	})
}

func TestRelevantSubstring(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offsets  []int
		offset   int
		expected string
	}{
		{
			name: "FirstOfTwo",
			text: "/a x /b y", offsets: []int{0, 5}, offset: 0,
			expected: "/a x ",
		},
		{
			name: "LastOfTwo",
			text: "/a x /b y", offsets: []int{0, 5}, offset: 5,
			expected: "/b y",
		},
		{
			name: "OnlyCommand",
			text: "/start 42 hello", offsets: []int{0}, offset: 0,
			expected: "/start 42 hello",
		},
		{
			name: "MultiByteBetweenCommands",
			text: "/echo 😀😀 /next x", offsets: []int{0, 11}, offset: 0,
			expected: "/echo 😀😀 ",
		},
		{
			name: "MultiByteLast",
			text: "/echo 😀😀 /next x", offsets: []int{0, 11}, offset: 11,
			expected: "/next x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelevantSubstring(tt.text, tt.offsets, tt.offset); got != tt.expected {
				t.Errorf("RelevantSubstring(%q, %v, %d) = %q, want %q", tt.text, tt.offsets, tt.offset, got, tt.expected)
			}
		})
	}
}

func TestCommandToken(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entity   tgbotapi.MessageEntity
		expected string
	}{
		{
			name:     "Plain",
			text:     "/start 42",
			entity:   tgbotapi.MessageEntity{Type: "bot_command", Offset: 0, Length: 6},
			expected: "start",
		},
		{
			name:     "BotSuffix",
			text:     "/start@MyBot 42",
			entity:   tgbotapi.MessageEntity{Type: "bot_command", Offset: 0, Length: 12},
			expected: "start",
		},
		{
			name:     "UppercaseFolded",
			text:     "/START",
			entity:   tgbotapi.MessageEntity{Type: "bot_command", Offset: 0, Length: 6},
			expected: "start",
		},
		{
			name:     "MidMessage",
			text:     "hey 😀 /ping",
			entity:   tgbotapi.MessageEntity{Type: "bot_command", Offset: 7, Length: 5},
			expected: "ping",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandToken(tt.text, tt.entity); got != tt.expected {
				t.Errorf("commandToken(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}
