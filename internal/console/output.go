package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type Options struct {
	NoColor bool
}

// Output writes game messages, colored unless disabled.
type Output struct {
	w io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

func NewOutput(w io.Writer, opts Options) *Output {
	o := &Output{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{o.green, o.yellow, o.red, o.bold} {
			c.DisableColor()
		}
	}
	return o
}

func (o *Output) Println(msg string) {
	fmt.Fprintln(o.w, msg)
}

func (o *Output) Prompt(msg string) {
	fmt.Fprint(o.w, msg)
}

func (o *Output) Heading(msg string) {
	o.bold.Fprintln(o.w, msg)
}

func (o *Output) Success(msg string) {
	o.green.Fprintln(o.w, msg)
}

func (o *Output) Warn(msg string) {
	o.yellow.Fprintln(o.w, msg)
}

func (o *Output) Error(msg string) {
	o.red.Fprintln(o.w, msg)
}
