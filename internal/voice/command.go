package voice

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Command is a classified voice command.
type Command int

const (
	CommandNone Command = iota
	CommandLike
	CommandPass
	CommandMessage
	CommandRead
)

// String returns the lowercase command name.
func (c Command) String() string {
	switch c {
	case CommandLike:
		return "like"
	case CommandPass:
		return "pass"
	case CommandMessage:
		return "message"
	case CommandRead:
		return "read"
	default:
		return "none"
	}
}

// Title returns the command name as shown in status text.
func (c Command) Title() string {
	return cases.Title(language.English).String(c.String())
}

// keywords are checked in order; the first category with a matching word
// wins.
var keywords = []struct {
	cmd   Command
	words []string
}{
	{CommandLike, []string{"like", "yes", "interested"}},
	{CommandPass, []string{"pass", "no", "next", "dislike", "nope"}},
	{CommandMessage, []string{"message", "chat"}},
	{CommandRead, []string{"read", "profile"}},
}

// Classify maps a transcript to a command. A keyword matches a whole word
// or a simple inflection of it, so "liked" and "chatting" count but
// "likely" and "dislike" do not count as "like".
func Classify(transcript string) Command {
	words := strings.FieldsFunc(strings.ToLower(transcript), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		for _, f := range forms(strings.Trim(w, "'")) {
			seen[f] = true
		}
	}

	for _, k := range keywords {
		for _, w := range k.words {
			if seen[w] {
				return k.cmd
			}
		}
	}
	return CommandNone
}

// inflections are stripped longest first.
var inflections = []string{"ing", "es", "ed", "s", "d"}

// forms returns w with the stems it may have been inflected from.
func forms(w string) []string {
	out := []string{w}
	for _, suffix := range inflections {
		stem, ok := strings.CutSuffix(w, suffix)
		if !ok || len(stem) < 3 {
			continue
		}
		out = append(out, stem, stem+"e")
		if n := len(stem); stem[n-1] == stem[n-2] {
			out = append(out, stem[:n-1])
		}
	}
	return out
}
