package problem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arkhold/typir/problem"
)

func TestSummariesAreOneLine(t *testing.T) {
	cases := []problem.Problem{
		&problem.ValueConflict{Location: "field f", FirstValue: "1", SecondValue: "2"},
		&problem.IndexedTypeConflict{PropertyIndex: 1, HasIndex: true, Expected: "Person", Actual: "Animal"},
		&problem.AssignabilityProblem{Source: "string", Target: "integer"},
		&problem.SubTypeProblem{SubType: "Animal", SuperType: "Dog"},
		&problem.TypeEqualityProblem{Type1: "A", Type2: "B"},
		&problem.InferenceProblem{LanguageNode: "BinaryExpr"},
		&problem.ValidationProblem{LanguageNode: "v", Severity: problem.SeverityError, Message: "boom"},
	}
	for _, c := range cases {
		assert.NotEmpty(t, c.Tag())
		assert.NotContains(t, c.Summary(), "\n")
	}
}

func TestIndexedTypeConflictSummaryPrefersPropertyName(t *testing.T) {
	named := &problem.IndexedTypeConflict{PropertyName: "V", Expected: "Person", Actual: "Employee"}
	assert.Contains(t, named.Summary(), "V")

	indexed := &problem.IndexedTypeConflict{PropertyIndex: 1, HasIndex: true, Expected: "Person", Actual: "Employee"}
	assert.Contains(t, indexed.Summary(), "[1]")
}

func TestPrinterNestsSubProblemsWithIncreasingIndent(t *testing.T) {
	leaf := &problem.TypeEqualityProblem{Type1: "string", Type2: "integer"}
	root := &problem.AssignabilityProblem{
		Source:      "string",
		Target:      "integer",
		SubProblems: []problem.Problem{leaf},
	}

	out := problem.NewPrinter().Print(root)
	lines := splitLines(out)

	assert.Len(t, lines, 2)
	assert.Equal(t, root.Summary(), lines[0])
	assert.Equal(t, "  "+leaf.Summary(), lines[1])
}

func TestPrinterPrintAllJoinsTopLevelProblemsWithoutIndentingThem(t *testing.T) {
	a := &problem.TypeEqualityProblem{Type1: "A", Type2: "B"}
	b := &problem.SubTypeProblem{SubType: "C", SuperType: "D"}

	out := problem.NewPrinter().PrintAll([]problem.Problem{a, b})
	lines := splitLines(out)

	assert.Equal(t, []string{a.Summary(), b.Summary()}, lines)
}

func TestPrinterWithIndentCustomizesNestingPrefix(t *testing.T) {
	leaf := &problem.SubTypeProblem{SubType: "C", SuperType: "D"}
	root := &problem.AssignabilityProblem{Source: "C", Target: "D", SubProblems: []problem.Problem{leaf}}

	out := problem.NewPrinter(problem.WithIndent("> ")).Print(root)
	lines := splitLines(out)

	assert.Equal(t, "> "+leaf.Summary(), lines[1])
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
