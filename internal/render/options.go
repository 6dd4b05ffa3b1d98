// Package render turns chat message text into terminal output.
package render

import "github.com/diogo/askchat/internal/config"

// Options configures the markdown renderer behavior.
type Options struct {
	Width            int
	Style            string // "dark", "light", "notty" or path to a JSON style
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return FromConfig(config.DefaultMarkdownConfig(), 80)
}

// FromConfig builds renderer options from the markdown section of the config.
func FromConfig(md config.MarkdownConfig, width int) Options {
	style := md.Style
	if style == "" {
		style = "dark"
	}
	return Options{
		Width:            width,
		Style:            style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
