package tool

import (
	"slices"
	"testing"
)

func TestOutputFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Output
	}{
		{"empty", "", nil},
		{"single line", "hello", Output{"hello"}},
		{"trailing newline dropped", "a\nb\n", Output{"a", "b"}},
		{"blank interior line kept", "a\n\nb", Output{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputFromString(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("OutputFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutput_Text(t *testing.T) {
	o := OutputFromString("a\nb\n")
	if o.Text() != "a\nb" {
		t.Errorf("Text = %q, want %q", o.Text(), "a\nb")
	}
}

func TestOutput_FirstLine(t *testing.T) {
	if got := (Output{}).FirstLine(); got != "" {
		t.Errorf("FirstLine on empty output = %q, want empty", got)
	}
	if got := OutputFromString("x\ny").FirstLine(); got != "x" {
		t.Errorf("FirstLine = %q, want x", got)
	}
}

func TestOutput_Reiterable(t *testing.T) {
	o := OutputFromString("a\nb")
	first := len(o)
	second := 0
	for range o {
		second++
	}
	if first != second || second != 2 {
		t.Errorf("output not stable across scans: %d vs %d", first, second)
	}
}
