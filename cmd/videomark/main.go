package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/yyyoichi/videomark"
	"github.com/yyyoichi/videomark/internal/cliconfig"
	"github.com/yyyoichi/videomark/internal/watch"
)

const longHelp = `Recover a text message hidden in a video.

Three channels are decoded independently and compared:
  - visual:   LSB bits sampled from every 10th extracted frame
  - audio:    two-tone watermark in the mono PCM track
  - metadata: hex encoded "comment" container tag

Configuration is read from $HOME/.videomark/config.toml, then VIDEOMARK_*
environment variables, then flags. ffmpeg and ffprobe must be installed.`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type app struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	a := &app{
		cfg:    cliconfig.DefaultConfig(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	a.log = cliconfig.Logger(a.stderr, a.cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		a.log.Error().Err(err).Msg("videomark")
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "videomark",
		Short:         "Decode hidden messages from video files",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.videomark/config.toml)")
	f.IntVar(&a.cfg.FrameInterval, "frame-interval", a.cfg.FrameInterval, "decode every n-th extracted frame")
	f.IntVar(&a.cfg.FrameRate, "frame-rate", a.cfg.FrameRate, "frame extraction rate in frames per second")
	f.IntVar(&a.cfg.SampleRate, "sample-rate", a.cfg.SampleRate, "audio sample rate in Hz")
	f.Float64Var(&a.cfg.BitDuration, "bit-duration", a.cfg.BitDuration, "seconds of audio per bit")
	f.Float64Var(&a.cfg.AudioFrequency, "audio-frequency", a.cfg.AudioFrequency, "high tone frequency in Hz")
	f.StringVar(&a.cfg.FFmpegPath, "ffmpeg", a.cfg.FFmpegPath, "ffmpeg binary")
	f.StringVar(&a.cfg.FFprobePath, "ffprobe", a.cfg.FFprobePath, "ffprobe binary")
	f.StringVar(&a.cfg.WorkDir, "work-dir", a.cfg.WorkDir, "root for temporary extraction files (default: system temp)")
	f.BoolVar(&a.cfg.KeepWorkDir, "keep-work-dir", a.cfg.KeepWorkDir, "keep extracted frames and audio after decoding")
	f.BoolVar(&a.cfg.Sequential, "sequential", a.cfg.Sequential, "decode channels one after another")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (trace, debug, info, warn, error, disabled)")
	f.BoolVar(&a.cfg.JSON, "json", a.cfg.JSON, "print results as JSON")

	root.AddCommand(a.decodeCmd(), a.watchCmd())
	return root
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode <video>",
		Short:   "Decode one video file",
		Example: "  videomark decode output_encoded.mp4\n  videomark decode --json clip.mov",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := a.decoder()
			if err != nil {
				return err
			}
			return a.decode(cmd.Context(), dec, args[0])
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Decode every video written into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := a.decoder()
			if err != nil {
				return err
			}
			w := watch.New(args[0], a.cfg.Settle, func(ctx context.Context, path string) {
				if err := a.decode(ctx, dec, path); err != nil && ctx.Err() == nil {
					a.log.Error().Err(err).Str("video", path).Msg("decode failed")
				}
			}, a.log)
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&a.cfg.Settle, "settle", a.cfg.Settle, "quiet period before a written file is decoded")
	return cmd
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = cliconfig.Logger(a.stderr, a.cfg.LogLevel)
	a.log.Debug().Interface("config", a.cfg).Msg("configuration")
	return nil
}

func (a *app) decoder() (*videomark.Decoder, error) {
	opts := append(a.cfg.Options(), videomark.WithObserver(videomark.NewLogObserver(a.log)))
	return videomark.New(opts...)
}

func (a *app) decode(ctx context.Context, dec *videomark.Decoder, video string) error {
	res, err := dec.Decode(ctx, video)
	if err != nil {
		return err
	}
	if a.cfg.JSON {
		return writeJSON(a.stdout, video, res)
	}
	return writeHuman(a.stdout, video, res)
}
