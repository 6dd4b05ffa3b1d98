package tui

import (
	"strings"

	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

// typingIndicator is the placeholder bubble owned by one in-flight request.
// Entries are matched by pointer, so removing one request's indicator can
// never remove another's.
type typingIndicator struct {
	requestID uint64
}

// logEntry is one row of the chat log: a message or a typing indicator
type logEntry struct {
	message   models.Message
	context   string
	failed    bool
	indicator *typingIndicator
}

func (e logEntry) isIndicator() bool {
	return e.indicator != nil
}

// chatLog is the ordered list of rendered rows
type chatLog struct {
	entries []logEntry
}

func (l *chatLog) appendMessage(msg models.Message) {
	l.entries = append(l.entries, logEntry{message: msg})
}

func (l *chatLog) appendFailure(text string) {
	l.entries = append(l.entries, logEntry{message: models.NewBotMessage(text), failed: true})
}

func (l *chatLog) appendAnswer(answer *models.Answer) {
	l.entries = append(l.entries, logEntry{
		message: models.NewBotMessage(answer.Text),
		context: answer.Context,
	})
}

func (l *chatLog) appendIndicator(ind *typingIndicator) {
	l.entries = append(l.entries, logEntry{indicator: ind})
}

// removeIndicator drops exactly the given indicator and reports whether it was present
func (l *chatLog) removeIndicator(ind *typingIndicator) bool {
	if ind == nil {
		return false
	}
	kept := make([]logEntry, 0, len(l.entries))
	removed := false
	for _, e := range l.entries {
		if e.indicator == ind {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return removed
}

func (l *chatLog) indicatorCount() int {
	n := 0
	for _, e := range l.entries {
		if e.isIndicator() {
			n++
		}
	}
	return n
}

func (l *chatLog) messages() []models.Message {
	var out []models.Message
	for _, e := range l.entries {
		if !e.isIndicator() {
			out = append(out, e.message)
		}
	}
	return out
}

// lastAnswer returns the newest successful bot message text
func (l *chatLog) lastAnswer() (string, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if !e.isIndicator() && !e.failed && e.message.Sender == models.SenderBot {
			return e.message.Text, true
		}
	}
	return "", false
}

func (l *chatLog) empty() bool {
	return len(l.entries) == 0
}

// renderOptions controls how log rows become terminal text
type renderOptions struct {
	width       int
	markdown    bool
	markdownOpt render.Options
	showContext bool
	dotsFrame   int
}

// render draws every row; message bodies are inserted as plain text
func (l *chatLog) render(opts renderOptions) string {
	bubbleWidth := opts.width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var content strings.Builder
	for i, e := range l.entries {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case e.isIndicator():
			content.WriteString(botLabelStyle.Render("✦ Bot") + "\n")
			content.WriteString(botBubbleStyle.Render(typingDots(opts.dotsFrame)))

		case e.message.IsUser():
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(render.PlainText(e.message.Text)))

		case e.failed:
			content.WriteString(botLabelStyle.Render("✦ Bot") + "\n")
			content.WriteString(failBubbleStyle.Width(bubbleWidth).Render(e.message.Text))

		default:
			content.WriteString(botLabelStyle.Render("✦ Bot") + "\n")
			body := render.Message(e.message.Text, opts.markdown, opts.markdownOpt.WithWidth(bubbleWidth-4))
			content.WriteString(botBubbleStyle.Width(bubbleWidth).Render(body))
			if opts.showContext && e.context != "" {
				content.WriteString("\n")
				content.WriteString(contextStyle.Width(bubbleWidth - 2).Render("📚 " + truncate(render.PlainText(e.context), 400)))
			}
		}
		content.WriteString("\n")
	}
	return content.String()
}

// typingDots renders the three indicator dots with one highlighted per frame
func typingDots(frame int) string {
	active := frame % 3
	var b strings.Builder
	for i := 0; i < 3; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == active {
			b.WriteString(dotOnStyle.Render("●"))
		} else {
			b.WriteString(dotOffStyle.Render("●"))
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
