package cliconfig

import "os"

// ApplyEnvConfig overlays VIDEOMARK_* variables on cfg. Fields whose flag is in
// changed keep their value. A malformed number or duration is an error.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.parseInt("frame-interval", os.Getenv("VIDEOMARK_FRAME_INTERVAL"), &cfg.FrameInterval); err != nil {
		return err
	}
	if err := s.parseInt("frame-rate", os.Getenv("VIDEOMARK_FRAME_RATE"), &cfg.FrameRate); err != nil {
		return err
	}
	if err := s.parseInt("sample-rate", os.Getenv("VIDEOMARK_SAMPLE_RATE"), &cfg.SampleRate); err != nil {
		return err
	}
	if err := s.parseFloat("bit-duration", os.Getenv("VIDEOMARK_BIT_DURATION"), &cfg.BitDuration); err != nil {
		return err
	}
	if err := s.parseFloat("audio-frequency", os.Getenv("VIDEOMARK_AUDIO_FREQUENCY"), &cfg.AudioFrequency); err != nil {
		return err
	}

	s.setString("ffmpeg", os.Getenv("VIDEOMARK_FFMPEG"), &cfg.FFmpegPath)
	s.setString("ffprobe", os.Getenv("VIDEOMARK_FFPROBE"), &cfg.FFprobePath)
	s.setString("work-dir", os.Getenv("VIDEOMARK_WORK_DIR"), &cfg.WorkDir)
	s.setString("log-level", os.Getenv("VIDEOMARK_LOG_LEVEL"), &cfg.LogLevel)

	s.parseBool("keep-work-dir", os.Getenv("VIDEOMARK_KEEP_WORK_DIR"), &cfg.KeepWorkDir)
	s.parseBool("sequential", os.Getenv("VIDEOMARK_SEQUENTIAL"), &cfg.Sequential)
	s.parseBool("json", os.Getenv("VIDEOMARK_JSON"), &cfg.JSON)

	return s.setDuration("settle", os.Getenv("VIDEOMARK_SETTLE"), &cfg.Settle)
}
