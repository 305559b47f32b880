package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/anca-ferro/tts/internal/audio"
	itts "github.com/anca-ferro/tts/internal/tts"
	"github.com/anca-ferro/tts/internal/tts/engines"
	"github.com/anca-ferro/tts/pkg/tts"
)

var enginesCmd = &cobra.Command{
	Use:     "engines",
	Short:   "List TTS engines and whether they can be used",
	Long:    paragraph(fmt.Sprintf("\n%s every TTS engine, probe whether it is installed and print install instructions for the ones that are not.", keyword("List"))),
	Example: paragraph("tts engines\ntts engines -v"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := tts.New(cfg, tts.WithContext(cmd.Context()))
		if err != nil {
			return err
		}

		var rows []engineRow
		for _, st := range svc.ListEngines() {
			row := engineRow{EngineStatus: st, Languages: engines.Languages(itts.EngineID(st.ID))}
			if desc, err := svc.Describe(st.ID); err == nil {
				row.Format = desc.Format().String()
				row.SampleRate = desc.DefaultSampleRate
			}
			rows = append(rows, row)
		}

		renderEngines(os.Stdout, rows, cfg.Engine, cfg.Language)
		fmt.Fprintln(os.Stdout, faintStyle.Render(audioStatus(audio.DetectPlatform())))
		return nil
	},
}

type engineRow struct {
	tts.EngineStatus
	Format     string
	SampleRate int
	Languages  []string
}

func renderEngines(w io.Writer, rows []engineRow, defaultEngine, defaultLanguage string) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.ID
		if r.ID == defaultEngine {
			name += " *"
		}
		status := "available"
		if !r.Available {
			status = "unavailable"
		}
		kind := "local"
		if r.Remote {
			kind = "remote"
		}
		format := r.Format
		if r.SampleRate > 0 {
			format = fmt.Sprintf("%s %d Hz", r.Format, r.SampleRate)
		}
		langs := "any"
		if len(r.Languages) > 0 {
			langs = strings.Join(r.Languages, " ")
		}
		data = append(data, []string{name, status, kind, format, langs})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ENGINE", "STATUS", "TYPE", "FORMAT", "LANGUAGES").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 1 && rows[row].Available:
				return s.Inherit(okStyle)
			case col == 1:
				return s.Inherit(errorStyle)
			}
			return s
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "* default engine, default language %s\n\n", languageName(defaultLanguage))

	for _, r := range rows {
		if r.Available || r.Guidance == "" {
			continue
		}
		fmt.Fprintln(w, keyword(r.ID))
		fmt.Fprintln(w, wordwrap.String(r.Guidance, 78))
		fmt.Fprintln(w)
	}
}

// languageName returns e.g. "English (en)", or the bare code when it is
// not a known language.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func audioStatus(p *audio.PlatformInfo) string {
	if reason := p.Unavailable(); reason != "" {
		return fmt.Sprintf("Audio output: %s on %s (%s)", p.AudioSubsystem, p.OS, reason)
	}
	return fmt.Sprintf("Audio output: %s on %s", p.AudioSubsystem, p.OS)
}
