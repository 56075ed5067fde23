package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
)

var (
	guideProperty string
	guidePicks    []string
	guideFormat   string
)

var guideCmd = &cobra.Command{
	Use:   "guide <zip>",
	Short: "Build a guide for a ZIP code and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zip := strings.TrimSpace(args[0])
		if !guide.ValidZip(zip) {
			return eris.Errorf("invalid zip %q", zip)
		}
		if err := cfg.Validate("cli"); err != nil {
			return err
		}

		env, err := newApp(cfg)
		if err != nil {
			return err
		}

		v := env.Guides.Build(cmd.Context(), guide.Request{
			Zip:          zip,
			PropertyName: guideProperty,
			HostPicks:    parsePicks(guidePicks),
		})
		return writeView(cmd.OutOrStdout(), v, guideFormat)
	},
}

// parsePicks reads "Name|Note" flag values.
func parsePicks(raw []string) []model.HostPick {
	var out []model.HostPick
	for _, r := range raw {
		name, note, _ := strings.Cut(r, "|")
		p := model.HostPick{Name: strings.TrimSpace(name), Note: strings.TrimSpace(note)}
		if p.Empty() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func writeView(w io.Writer, v *guide.View, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode guide")
	case "yaml":
		// Round-trip through JSON so the YAML keys match the API.
		raw, err := json.Marshal(v)
		if err != nil {
			return eris.Wrap(err, "encode guide")
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return eris.Wrap(err, "encode guide")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return eris.Wrap(err, "encode guide")
		}
		return eris.Wrap(enc.Close(), "encode guide")
	default:
		return eris.Errorf("unknown format %q (json or yaml)", format)
	}
}

func init() {
	guideCmd.Flags().StringVar(&guideProperty, "property", "", "property name shown on the guide")
	guideCmd.Flags().StringArrayVar(&guidePicks, "pick", nil, `host pick as "Name|Note" (repeatable, max 2)`)
	guideCmd.Flags().StringVarP(&guideFormat, "format", "o", "json", "output format: json or yaml")
	rootCmd.AddCommand(guideCmd)
}
