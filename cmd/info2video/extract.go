package main

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/info2video/internal/content"
	"github.com/ivlev/info2video/internal/logging"
	"github.com/ivlev/info2video/internal/svgtext"
)

var extractFlags struct {
	svgOut, blocksOut, contentOut string
	fontSize                      float64
	rectFill                      string
}

var extractCmd = &cobra.Command{
	Use:   "extract [input.svg]",
	Short: "Replace the text of an SVG infographic with placeholders and write its content JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		stem := strings.TrimSuffix(in, filepath.Ext(in))

		f := extractFlags
		if f.svgOut == "" {
			f.svgOut = stem + "_placeholders.svg"
		}
		if f.blocksOut == "" {
			f.blocksOut = stem + "_blocks.json"
		}
		if f.contentOut == "" {
			f.contentOut = stem + "_content.json"
		}

		opt := svgtext.DefaultOptions()
		if f.fontSize > 0 {
			opt.DefaultFontSize = f.fontSize
		}
		if f.rectFill != "" {
			opt.RectFill = f.rectFill
		}

		res, err := svgtext.Process(in, f.svgOut, f.blocksOut, opt, logging.WithComponent("svgtext"))
		if err != nil {
			return err
		}

		blocks := svgtext.ToContent(res.Blocks)
		if len(blocks) == 0 {
			log.Warn().Msg("no headers found, content JSON is empty")
		}
		if err := content.Save(f.contentOut, blocks); err != nil {
			return err
		}
		log.Info().
			Str("content", f.contentOut).
			Int("blocks", len(blocks)).
			Int("unmatched", len(res.Unmatched)).
			Msg("content extracted")
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractFlags.svgOut, "svg-out", "", "placeholder SVG (default: <input>_placeholders.svg)")
	extractCmd.Flags().StringVar(&extractFlags.blocksOut, "blocks-out", "", "classified text blocks JSON (default: <input>_blocks.json)")
	extractCmd.Flags().StringVar(&extractFlags.contentOut, "content-out", "", "content JSON (default: <input>_content.json)")
	extractCmd.Flags().Float64Var(&extractFlags.fontSize, "font-size", 0, "font size assumed when the SVG sets none")
	extractCmd.Flags().StringVar(&extractFlags.rectFill, "rect-fill", "", "placeholder fill, e.g. none or #ff000040")
}
