package tool

import "strings"

// Output is the captured output of a run as an ordered line sequence.
// It is immutable and may be scanned any number of times.
type Output []string

// OutputFromString splits raw captured output into lines. A trailing
// newline does not produce an empty final line.
func OutputFromString(s string) Output {
	if s == "" {
		return nil
	}
	return Output(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
}

// OutputFromBytes is OutputFromString over raw bytes.
func OutputFromBytes(b []byte) Output {
	return OutputFromString(string(b))
}

// Text returns the whole output as a single string.
func (o Output) Text() string {
	return strings.Join(o, "\n")
}

// FirstLine returns the first line, or "" when the output is empty.
func (o Output) FirstLine() string {
	if len(o) == 0 {
		return ""
	}
	return o[0]
}
