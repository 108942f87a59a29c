package tool

import "testing"

func TestPathLocator(t *testing.T) {
	path, err := PathLocator{}.FindExecutable("sh")
	if err != nil {
		t.Skipf("sh not on PATH: %v", err)
	}
	if path == "" {
		t.Error("empty path for sh")
	}
}

func TestPathLocator_NotFound(t *testing.T) {
	_, err := PathLocator{}.FindExecutable("nonexistent-binary-xyz-123")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRun_Abnormal(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want bool
	}{
		{"clean exit", Run{}, false},
		{"non-zero exit", Run{ExitCode: 1}, true},
		{"killed by signal", Run{Signal: 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.Abnormal(); got != tt.want {
				t.Errorf("Abnormal = %v, want %v", got, tt.want)
			}
		})
	}
}
