package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/info2video/internal/director"
	"github.com/ivlev/info2video/internal/engine"
	"github.com/ivlev/info2video/internal/logging"
	"github.com/ivlev/info2video/internal/source"
	"github.com/ivlev/info2video/internal/system"
	"github.com/ivlev/info2video/internal/video"
)

const (
	inputDir  = "input"
	outputDir = "output"
)

// renderFlags are shared by render and plan; zero values leave the config
// file untouched.
type renderFlags struct {
	input, content, output string
	scenario, saveScenario string
	preset                 string
	workers, fps           int
	stats, mjpeg           bool
}

var rf renderFlags

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rf.input, "input", "i", "", "infographic: PDF, SVG, image or image folder (default: newest file in input/)")
	cmd.Flags().StringVarP(&rf.content, "content", "c", "", "content JSON (default: newest .json in input/)")
	cmd.Flags().StringVar(&rf.scenario, "scenario", "", "render from an edited scenario YAML instead of planning (\"latest\" picks the newest in output/scenarios)")
	cmd.Flags().StringVar(&rf.preset, "preset", "", "output format: 16:9, 9:16, 4:5")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the explainer video",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd); err != nil {
			return err
		}
		system.InitResourceLimits(log.Logger)

		enc, err := pickEncoder()
		if err != nil {
			return err
		}

		src, err := source.Open(cfg.InputPath)
		if err != nil {
			return err
		}
		defer src.Close()

		project, err := engine.NewVideoProject(cfg, src, enc, logging.WithComponent("engine"))
		if err != nil {
			return err
		}
		if err := project.Run(cmd.Context()); err != nil {
			return err
		}
		log.Info().Str("output", cfg.OutputVideo).Msg("done")
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Write the scenario YAML without rendering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd); err != nil {
			return err
		}
		if cfg.ScenarioOutput == "" {
			cfg.ScenarioOutput = director.GenerateScenarioPath()
		}

		src, err := source.Open(cfg.InputPath)
		if err != nil {
			return err
		}
		defer src.Close()

		project, err := engine.NewVideoProject(cfg, src, nil, logging.WithComponent("engine"))
		if err != nil {
			return err
		}
		plan, err := project.Prepare(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().
			Str("scenario", cfg.ScenarioOutput).
			Int("scenes", len(plan.Scenario.Scenes)).
			Msg("scenario planned")
		return nil
	},
}

func init() {
	addInputFlags(renderCmd)
	renderCmd.Flags().StringVarP(&rf.output, "output", "o", "", "output video (default: output/<input>_<time>.mp4)")
	renderCmd.Flags().StringVar(&rf.saveScenario, "save-scenario", "", "also write the planned scenario here")
	renderCmd.Flags().IntVarP(&rf.workers, "workers", "w", 0, "parallel scene encoders")
	renderCmd.Flags().IntVar(&rf.fps, "fps", 0, "frames per second")
	renderCmd.Flags().BoolVar(&rf.stats, "stats", false, "print a performance report and append it to benchmark.log")
	renderCmd.Flags().BoolVar(&rf.mjpeg, "mjpeg", false, "write a silent Motion JPEG AVI without ffmpeg")

	addInputFlags(planCmd)
	planCmd.Flags().StringVarP(&rf.saveScenario, "output", "o", "", "scenario path (default: output/scenarios/scenario_<time>.yaml)")
}

// applyFlags layers command line values over the loaded config and fills
// in the conventional input and output locations.
func applyFlags(cmd *cobra.Command) error {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if rf.input != "" {
		cfg.InputPath = rf.input
	}
	if rf.content != "" {
		cfg.ContentPath = rf.content
	}
	if rf.scenario == "latest" {
		latest, err := director.FindLatestScenario(director.ScenariosDir)
		if err != nil {
			return err
		}
		log.Info().Str("scenario", latest).Msg("picked newest scenario")
		rf.scenario = latest
	}
	if rf.scenario != "" {
		cfg.ScenarioInput = rf.scenario
	}
	if rf.saveScenario != "" {
		cfg.ScenarioOutput = rf.saveScenario
	}
	if rf.output != "" {
		cfg.OutputVideo = rf.output
	}
	if set("workers") {
		cfg.Workers = rf.workers
	}
	if set("fps") {
		cfg.Video.FPS = rf.fps
	}
	if set("stats") {
		cfg.ShowStats = rf.stats
	}
	if err := cfg.ApplyPreset(rf.preset); err != nil {
		return err
	}

	if cfg.InputPath == "" {
		cfg.InputPath = inputDir
	}
	input, err := system.FindLatestInput(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("no infographic found in %s: %w", cfg.InputPath, err)
	}
	if input != cfg.InputPath {
		log.Info().Str("input", input).Msg("picked newest input")
	}
	cfg.InputPath = input

	if cfg.ContentPath == "" && cfg.ScenarioInput == "" {
		latest, err := system.FindLatestContent(inputDir)
		if err != nil {
			return fmt.Errorf("no content JSON given and none found in %s: %w", inputDir, err)
		}
		log.Info().Str("content", latest).Msg("picked newest content")
		cfg.ContentPath = latest
	}

	if cfg.OutputVideo == "" {
		cfg.OutputVideo = defaultOutput(cfg.InputPath, time.Now())
	}
	return cfg.Validate()
}

func defaultOutput(input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.mp4", name, now.Format("2006-01-02_15-04-05")))
}

// pickEncoder prefers ffmpeg and falls back to the Motion JPEG writer
// when it is missing or --mjpeg is set.
func pickEncoder() (video.VideoEncoder, error) {
	if !rf.mjpeg {
		enc, err := video.NewFFmpegEncoder(logging.WithComponent("video"))
		if err == nil {
			cfg.Video.Encoder, cfg.Video.Quality = video.ResolveEncoder(cfg.Video.Encoder, cfg.Video.Quality, system.GetBestH264Encoder)
			log.Info().Str("encoder", cfg.Video.Encoder).Int("quality", cfg.Video.Quality).Msg("video encoder")
			return enc, nil
		}
		if !errors.Is(err, video.ErrFFmpegNotFound) {
			return nil, err
		}
		log.Warn().Err(err).Msg("falling back to silent Motion JPEG output")
	}
	cfg.OutputVideo = video.AVIPath(cfg.OutputVideo)
	return video.NewMJPEGEncoder(logging.WithComponent("video")), nil
}
