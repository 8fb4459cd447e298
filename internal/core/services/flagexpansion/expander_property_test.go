package flagexpansion

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// Every key in this table expands to exactly one fragment.
var partitionTable = expandable.Table{
	"s":        expandable.Literal("--skip-nx-cache"),
	"-verbose": expandable.Literal("--verbose"),
	"p": expandable.Single{
		Position: expandable.PositionPrefix,
		Template: "--parallel={n}",
		Defaults: map[string]string{"n": "4"},
	},
	"c": expandable.Single{Position: expandable.PositionPreArgs, Template: "--configuration=ci"},
}

var partitionTokens = []string{"-s", "--verbose", "-p", "-c", "build", "proj", "-x", "--unknown", "--output=json", "-p=2"}

func TestExpander_ExpandFlags_PartitionsTokens(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	x := newTestExpander()

	toTokens := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, n := range idx {
			out[i] = partitionTokens[n]
		}
		return out
	}

	properties.Property("every token is either expanded or kept, never both", prop.ForAll(
		func(idx []int) bool {
			args := toTokens(idx)
			result := x.ExpandFlags(args, partitionTable, expandable.ShellLinux)
			return len(result.Fragments())+len(result.RemainingArgs) == len(args)
		},
		gen.SliceOf(gen.IntRange(0, len(partitionTokens)-1)),
	))

	properties.Property("unmatched tokens keep their relative order", prop.ForAll(
		func(idx []int) bool {
			args := toTokens(idx)
			var want []string
			for _, token := range args {
				flag, ok := ParseExpandableFlag(token)
				if ok {
					if _, matched := partitionTable[flag.Key]; matched {
						continue
					}
				}
				want = append(want, token)
			}
			result := x.ExpandFlags(args, partitionTable, expandable.ShellLinux)
			return reflect.DeepEqual(result.RemainingArgs, want)
		},
		gen.SliceOf(gen.IntRange(0, len(partitionTokens)-1)),
	))

	properties.TestingRun(t)
}
