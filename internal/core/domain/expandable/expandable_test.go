package expandable

import (
	"reflect"
	"testing"
)

func TestPerShell_Select(t *testing.T) {
	linux := Literal("NX_SKIP=1")
	generic := Literal("generic")

	tests := []struct {
		name  string
		value PerShell
		shell ShellKind
		want  Value
	}{
		{name: "shell specific key wins", value: PerShell{"linux-template": linux, "template": generic}, shell: ShellLinux, want: linux},
		{name: "falls back to generic template", value: PerShell{"linux-template": linux, "template": generic}, shell: ShellPwsh, want: generic},
		{name: "nothing for the shell", value: PerShell{"linux-template": linux}, shell: ShellCmd, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Select(tt.shell); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%q) = %v, want %v", tt.shell, got, tt.want)
			}
		})
	}
}

func TestTable_Merge(t *testing.T) {
	base := Table{"s": Literal("--skip"), "w": Literal("--watch")}
	over := Table{"w": Literal("--watch=false")}

	got := base.Merge(over)
	want := Table{"s": Literal("--skip"), "w": Literal("--watch=false")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
	if base["w"] != Literal("--watch") {
		t.Error("Merge() modified the receiver")
	}
}

func TestExpansionResult_Add(t *testing.T) {
	var r ExpansionResult
	r.Add(PositionStart, "a")
	r.Add(PositionPrefix, "b")
	r.Add(PositionPreArgs, "c")
	r.Add(PositionSuffix, "d")
	r.Add(PositionEnd, "e")
	r.Add(Position(""), "f")

	want := []string{"a", "b", "c", "d", "f", "e"}
	if got := r.Fragments(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fragments() = %v, want %v", got, want)
	}
	if Position("middle").Valid() || !PositionEnd.Valid() {
		t.Error("Valid() misclassified a position")
	}
	if ShellPwsh.TemplateKey() != "pwsh-template" {
		t.Errorf("TemplateKey() = %q", ShellPwsh.TemplateKey())
	}
}
