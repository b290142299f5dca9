package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
	FormatCSV      Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatTOON, FormatCSV}

var formatAliases = map[string]Format{
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"toon":     FormatTOON,
	"csv":      FormatCSV,
}

// ParseFormat converts a string to Format. Unknown names fall back to text.
func ParseFormat(s string) Format {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return FormatText
}

// Renderable is anything the formatter can print in every format.
// RenderData is what JSON and TOON serialize.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// CSVRenderable is implemented by tabular renderables.
type CSVRenderable interface {
	RenderCSV(w io.Writer) error
}

// Formatter writes rankings, weights and console messages in one format.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter writes to stdout, or to output when it names a file. Color is
// always off for files.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, writer: f, file: f}, nil
}

// NewWriterFormatter creates a formatter over an existing writer.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func (f *Formatter) Writer() io.Writer { return f.writer }
func (f *Formatter) Format() Format    { return f.format }
func (f *Formatter) Colored() bool     { return f.colored }

// Output writes data in the configured format. Values that are not
// Renderable are serialized as JSON (fenced in Markdown) or TOON.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	if !ok {
		return f.encodeRaw(data)
	}

	switch f.format {
	case FormatJSON:
		return f.encodeJSON(r.RenderData())
	case FormatTOON:
		return f.encodeTOON(r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	case FormatCSV:
		if c, ok := r.(CSVRenderable); ok {
			return c.RenderCSV(f.writer)
		}
		return fmt.Errorf("csv output is not supported for %T", data)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

func (f *Formatter) encodeRaw(data any) error {
	switch f.format {
	case FormatTOON:
		return f.encodeTOON(data)
	case FormatMarkdown:
		fmt.Fprintln(f.writer, "```json")
		if err := f.encodeJSON(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(f.writer, "```")
		return err
	default:
		return f.encodeJSON(data)
	}
}

func (f *Formatter) encodeJSON(data any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) encodeTOON(data any) error {
	s, err := MarshalTOON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer, s)
	return err
}

// MarshalTOON encodes data as TOON with two-space indentation.
func MarshalTOON(data any) (string, error) {
	b, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Success, Warning, Error and Info print one console line. Without color,
// warnings and errors carry a text prefix instead.
func (f *Formatter) Success(format string, args ...any) {
	f.say(color.FgGreen, "", format, args...)
}

func (f *Formatter) Warning(format string, args ...any) {
	f.say(color.FgYellow, "WARNING: ", format, args...)
}

func (f *Formatter) Error(format string, args ...any) {
	f.say(color.FgRed, "ERROR: ", format, args...)
}

func (f *Formatter) Info(format string, args ...any) {
	f.say(color.FgCyan, "", format, args...)
}

func (f *Formatter) say(attr color.Attribute, plainPrefix, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if f.colored {
		color.New(attr).Fprintln(f.writer, line)
		return
	}
	fmt.Fprintln(f.writer, plainPrefix+line)
}

// RankColor colors a rank cell: green for the best rank, red for the worst
// and yellow for the top third.
func RankColor(rank, worst int, text string) string {
	switch {
	case rank == 1:
		return color.GreenString(text)
	case worst > 1 && rank == worst:
		return color.RedString(text)
	case rank*3 <= worst:
		return color.YellowString(text)
	default:
		return text
	}
}
