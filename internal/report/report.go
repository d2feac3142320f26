// Package report formats a driver run's per-function loop results for a
// human (colorized console, spec §6's "summary table of all loops with
// verdict and a one-line reason") or for downstream tooling (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"openmploop/internal/driver"
	"openmploop/internal/model"

	"github.com/fatih/color"
)

// Generator formats FileResult into a report string.
type Generator struct {
	format        string
	useColors     bool
	verbose       bool
	showReasoning bool
}

// FileResult bundles one source file's function results with the file
// path, for reports that span multiple files.
type FileResult struct {
	Path      string                  `json:"path"`
	Functions []driver.FunctionResult `json:"-"`
}

func NewGenerator(format string, useColors, verbose, showReasoning bool) *Generator {
	return &Generator{format: format, useColors: useColors, verbose: verbose, showReasoning: showReasoning}
}

func (g *Generator) Generate(files []FileResult) string {
	switch g.format {
	case "json":
		return g.generateJSON(files)
	default:
		return g.generateConsole(files)
	}
}

// jsonLoop is the annotator-facing record spec §6 describes: line, column,
// directive text, confidence score, and reasoning, plus the verdict and
// warnings a report consumer needs to explain a loop that got no
// directive at all.
type jsonLoop struct {
	Function   string   `json:"function"`
	Line       int      `json:"line"`
	Kind       string   `json:"kind"`
	Verdict    string   `json:"verdict"`
	Warnings   []string `json:"warnings,omitempty"`
	Directive  string   `json:"directive,omitempty"`
	Column     int      `json:"column,omitempty"`
	Confidence float64  `json:"confidence_score,omitempty"`
	Level      string   `json:"confidence_level,omitempty"`
	Reasoning  []string `json:"reasoning,omitempty"`
	Skipped    string   `json:"skip_reason,omitempty"`
}

type jsonFile struct {
	Path  string     `json:"path"`
	Loops []jsonLoop `json:"loops"`
}

func (g *Generator) generateJSON(files []FileResult) string {
	out := make([]jsonFile, 0, len(files))
	for _, f := range files {
		jf := jsonFile{Path: f.Path}
		for _, fn := range f.Functions {
			for _, lr := range fn.Loops {
				jf.Loops = append(jf.Loops, toJSONLoop(fn.FuncName, lr))
			}
		}
		out = append(out, jf)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Sprintf("error generating JSON report: %v", err)
	}
	return string(data)
}

func toJSONLoop(fn string, lr driver.LoopResult) jsonLoop {
	jl := jsonLoop{
		Function: fn,
		Line:     lr.Loop.Line,
		Kind:     lr.Loop.Kind.String(),
		Verdict:  lr.Loop.Verdict.String(),
		Warnings: lr.Loop.Warnings,
	}
	if lr.Directive != nil {
		jl.Directive = lr.Directive.Text
	}
	if lr.Insertion != nil {
		jl.Column = lr.Insertion.Column
		if lr.Insertion.Skipped {
			jl.Skipped = lr.Insertion.Reason
		}
	}
	if lr.Confidence != nil {
		jl.Confidence = lr.Confidence.Score
		jl.Level = lr.Confidence.Level
		jl.Reasoning = append(jl.Reasoning, lr.Confidence.Positive...)
		jl.Reasoning = append(jl.Reasoning, lr.Confidence.Negative...)
	}
	return jl
}

func (g *Generator) generateConsole(files []FileResult) string {
	var b strings.Builder

	if g.useColors {
		b.WriteString(color.CyanString("OpenMP Loop Analysis\n"))
		b.WriteString(color.WhiteString(strings.Repeat("=", 40) + "\n\n"))
	} else {
		b.WriteString("OpenMP Loop Analysis\n")
		b.WriteString(strings.Repeat("=", 40) + "\n\n")
	}

	var total, parallel int
	for _, f := range files {
		b.WriteString(g.fileHeader(f.Path))
		for _, fn := range f.Functions {
			if len(fn.Loops) == 0 {
				continue
			}
			b.WriteString(g.functionHeader(fn.FuncName))
			for _, lr := range fn.Loops {
				total++
				if lr.Loop.Verdict == model.Parallelizable {
					parallel++
				}
				g.writeLoop(&b, lr)
			}
		}
	}

	b.WriteString("\n")
	g.writeSummary(&b, total, parallel)
	return b.String()
}

func (g *Generator) fileHeader(path string) string {
	if g.useColors {
		return color.WhiteString("File: %s\n", path)
	}
	return fmt.Sprintf("File: %s\n", path)
}

func (g *Generator) functionHeader(name string) string {
	if g.useColors {
		return color.HiWhiteString("  function %s\n", name)
	}
	return fmt.Sprintf("  function %s\n", name)
}

func (g *Generator) writeLoop(b *strings.Builder, lr driver.LoopResult) {
	loop := lr.Loop
	verdictText, verdictColor := g.verdictDisplay(loop.Verdict)

	line := fmt.Sprintf("    line %-4d [%s loop] %s", loop.Line, loop.Kind, verdictText)
	if g.useColors {
		line = fmt.Sprintf("    line %-4d [%s loop] %s", loop.Line, loop.Kind, verdictColor(loop.Verdict.String()))
	}
	b.WriteString(line + "\n")

	reason := reasonFor(loop)
	if reason != "" {
		b.WriteString(fmt.Sprintf("      reason: %s\n", reason))
	}

	if lr.Directive != nil {
		directiveLine := "      " + lr.Directive.Text
		if g.useColors {
			directiveLine = "      " + color.GreenString("%s", lr.Directive.Text)
		}
		b.WriteString(directiveLine + "\n")
		if lr.Confidence != nil {
			b.WriteString(fmt.Sprintf("      confidence: %.2f (%s)\n", lr.Confidence.Score, lr.Confidence.Level))
			if g.showReasoning {
				for _, p := range lr.Confidence.Positive {
					b.WriteString(fmt.Sprintf("        + %s\n", p))
				}
				for _, n := range lr.Confidence.Negative {
					b.WriteString(fmt.Sprintf("        - %s\n", n))
				}
			}
		}
		if lr.Insertion != nil && lr.Insertion.Skipped {
			b.WriteString(fmt.Sprintf("      insertion skipped: %s\n", lr.Insertion.Reason))
		} else if lr.Insertion != nil && lr.Insertion.Note != "" {
			b.WriteString(fmt.Sprintf("      note: %s\n", lr.Insertion.Note))
		}
	}

	if g.verbose {
		for _, w := range loop.Warnings {
			b.WriteString(fmt.Sprintf("      warning: %s\n", w))
		}
	}
}

// reasonFor picks the single most relevant warning for the one-line
// summary column, falling back to a generic statement when a
// parallelizable loop carries no warnings at all.
func reasonFor(loop *model.Loop) string {
	if len(loop.Warnings) > 0 {
		return loop.Warnings[0]
	}
	if loop.Verdict == model.Parallelizable {
		return "no hazards detected"
	}
	return "unclassified hazard"
}

func (g *Generator) verdictDisplay(v model.Verdict) (string, func(a ...interface{}) string) {
	if v == model.Parallelizable {
		return "PARALLELIZABLE", color.New(color.FgGreen).SprintFunc()
	}
	return "NOT PARALLELIZABLE", color.New(color.FgRed).SprintFunc()
}

func (g *Generator) writeSummary(b *strings.Builder, total, parallel int) {
	if g.useColors {
		b.WriteString(color.WhiteString("Summary: "))
		b.WriteString(fmt.Sprintf("%d loops analyzed, %s parallelizable\n",
			total, color.GreenString("%d", parallel)))
	} else {
		b.WriteString(fmt.Sprintf("Summary: %d loops analyzed, %d parallelizable\n", total, parallel))
	}
}
