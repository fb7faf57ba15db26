package dexreport

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Process exit codes.
const (
	ExitOrdered = 0
	ExitFatal   = 1
	ExitAnomaly = 2
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

type Config struct {
	Silent bool
	Vlevel int
	Format string
	Color  bool
	// LegacyExit makes an anomaly exit with ExitOrdered, as the
	// original androsoo did.
	LegacyExit bool
}

// DexResult is what was learned about one DEX file.
type DexResult struct {
	Name     string   `yaml:"name"`
	APK      string   `yaml:"apk,omitempty"`
	Version  string   `yaml:"version"`
	Strings  uint32   `yaml:"strings"`
	Warnings []string `yaml:"warnings,omitempty"`
	Ordered  bool     `yaml:"ordered"`
	Index    *uint32  `yaml:"first_unordered_index,omitempty"`
}

//
// This implementation of the DexApkVisitor interface collects the
// results of checking DEX/APK contents and renders them on Finish:
// warnings go to Err, verdicts to Out.
//
type Reporter struct {
	Out io.Writer
	Err io.Writer

	config  Config
	apk     string
	results []*DexResult

	warnStyle    lipgloss.Style
	badStyle     lipgloss.Style
	goodStyle    lipgloss.Style
	verboseStyle lipgloss.Style
}

func NewReporter(out, errw io.Writer, config Config) *Reporter {
	if config.Format == "" {
		config.Format = FormatText
	}
	outr := lipgloss.NewRenderer(out)
	errr := lipgloss.NewRenderer(errw)
	return &Reporter{
		Out:          out,
		Err:          errw,
		config:       config,
		warnStyle:    errr.NewStyle().Foreground(lipgloss.Color("11")),
		badStyle:     outr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		goodStyle:    outr.NewStyle().Foreground(lipgloss.Color("10")),
		verboseStyle: errr.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (r *Reporter) paint(st lipgloss.Style, s string) string {
	if !r.config.Color {
		return s
	}
	return st.Render(s)
}

func (r *Reporter) current() *DexResult {
	if len(r.results) == 0 {
		panic("dexreport: callback before VisitDEX")
	}
	return r.results[len(r.results)-1]
}

func (r *Reporter) VisitAPK(apk string) {
	r.apk = apk
}

func (r *Reporter) VisitDEX(dexname string, version string, nstrings uint32) {
	r.results = append(r.results, &DexResult{
		Name:    dexname,
		APK:     r.apk,
		Version: version,
		Strings: nstrings,
	})
}

func (r *Reporter) VisitWarning(dexname string, warning string) {
	res := r.current()
	res.Warnings = append(res.Warnings, warning)
}

func (r *Reporter) VisitStringOrder(dexname string, ordered bool, index uint32) {
	res := r.current()
	res.Ordered = ordered
	if !ordered {
		idx := index
		res.Index = &idx
	}
}

func (r *Reporter) Verbose(vlevel int, s string, a ...interface{}) {
	if r.config.Vlevel >= vlevel {
		fmt.Fprintln(r.Err, r.paint(r.verboseStyle, "++ "+fmt.Sprintf(s, a...)))
	}
}

// Results returns the accumulated per-DEX results.
func (r *Reporter) Results() []*DexResult {
	return r.results
}

// Finish renders everything collected so far.
func (r *Reporter) Finish() error {
	if r.config.Format == FormatYAML {
		return r.finishYAML()
	}
	for _, res := range r.results {
		for _, w := range res.Warnings {
			fmt.Fprintf(r.Err, "%s %s\n", r.paint(r.warnStyle, "Warning:"), w)
		}
		name := res.Name
		if res.APK != "" {
			name = res.APK + "!" + res.Name
		}
		if !res.Ordered {
			fmt.Fprintf(r.Out, "%s %s\n", r.paint(r.badStyle, "String offset not in order:"), name)
		} else if !r.config.Silent {
			fmt.Fprintf(r.Out, "%s %s\n", r.paint(r.goodStyle, "String offset IN order:"), name)
		}
	}
	return nil
}

func (r *Reporter) finishYAML() error {
	enc := yaml.NewEncoder(r.Out)
	enc.SetIndent(2)
	doc := struct {
		Results []*DexResult `yaml:"results"`
	}{Results: r.results}
	if doc.Results == nil {
		doc.Results = []*DexResult{}
	}
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding yaml report")
	}
	return errors.Wrap(enc.Close(), "encoding yaml report")
}

// ExitCode selects the process exit status for a run that completed
// without a fatal error.
func (r *Reporter) ExitCode() int {
	if r.config.LegacyExit {
		return ExitOrdered
	}
	for _, res := range r.results {
		if !res.Ordered {
			return ExitAnomaly
		}
	}
	return ExitOrdered
}
