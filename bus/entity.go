package bus

import (
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const entityBotCommand = "bot_command"

// sliceUTF16 returns the substring of text between the given UTF-16 code unit
// offsets. Telegram entity offsets count UTF-16 code units, not bytes or
// runes, so slicing the Go string directly would corrupt any message that
// contains multi-byte text. to < 0 means "until the end of text".
func sliceUTF16(text string, from, to int) string {
	units := utf16.Encode([]rune(text))
	if from < 0 {
		from = 0
	}
	if to < 0 || to > len(units) {
		to = len(units)
	}
	if from >= to || from >= len(units) {
		return ""
	}
	return string(utf16.Decode(units[from:to]))
}

// CommandOffsets returns the offsets of all bot_command entities in the
// message, in the order they appear in the text. A message without any text
// is a caller precondition violation and yields ErrNoTextMessage; a text
// message without command entities yields an empty slice.
func CommandOffsets(msg *tgbotapi.Message) ([]int, error) {
	if msg == nil || msg.Text == "" {
		return nil, ErrNoTextMessage
	}
	offsets := make([]int, 0, len(msg.Entities))
	for _, ent := range msg.Entities {
		if ent.Type == entityBotCommand {
			offsets = append(offsets, ent.Offset)
		}
	}
	return offsets, nil
}

// RelevantSubstring isolates the part of text that belongs to the command
// entity at offset: from the entity itself up to the next command entity, or
// to the end of text when this is the last command in the message. This keeps
// argument parsing for one command from leaking into the next one.
func RelevantSubstring(text string, offsets []int, offset int) string {
	end := -1
	for i, off := range offsets {
		if off != offset {
			continue
		}
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		break
	}
	return sliceUTF16(text, offset, end)
}

// commandToken extracts the lowercased command name from an entity span,
// without the leading slash and any @botname suffix.
func commandToken(text string, ent tgbotapi.MessageEntity) string {
	span := sliceUTF16(text, ent.Offset, ent.Offset+ent.Length)
	span = strings.TrimPrefix(span, "/")
	if at := strings.Index(span, "@"); at >= 0 {
		span = span[:at]
	}
	return strings.ToLower(span)
}
