package decoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"media-gallery/internal/playback"
)

// ErrNoVideoStream is returned when a file has no video stream to show.
var ErrNoVideoStream = errors.New("decoder: no video stream")

// VideoInfo contains information about a video file.
type VideoInfo struct {
	Duration   time.Duration `json:"duration"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Codec      string        `json:"codec"`
	Rotation   int           `json:"rotation"`
	Compatible bool          `json:"compatible"`
}

// DisplaySize returns the size as displayed, with quarter-turn rotations
// applied.
func (v VideoInfo) DisplaySize() (int, int) {
	if r := ((v.Rotation % 360) + 360) % 360; r == 90 || r == 270 {
		return v.Height, v.Width
	}
	return v.Width, v.Height
}

var compatibleCodecs = map[string]bool{
	"h264": true,
	"vp8":  true,
	"vp9":  true,
	"av1":  true,
}

var compatibleContainers = map[string]bool{
	"mp4":  true,
	"webm": true,
	"ogg":  true,
	"mov":  true,
	"m4v":  true,
}

// ProbeFunc reads video information for a file.
type ProbeFunc func(ctx context.Context, path string) (*VideoInfo, error)

// ProbeVideo runs ffprobe on path.
func ProbeVideo(ctx context.Context, path string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if playback.IsOutOfMemory(errors.New(msg)) {
			return nil, fmt.Errorf("ffprobe %s: %w: %s", filepath.Base(path), playback.ErrOutOfMemory, msg)
		}
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, msg)
	}

	info, err := parseProbeOutput(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	info.Compatible = compatibleCodecs[info.Codec] && compatibleContainers[ext]
	return info, nil
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
		Tags      struct {
			Rotate string `json:"rotate"`
		} `json:"tags"`
		SideData []struct {
			Rotation *float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(data []byte) (*VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := &VideoInfo{
			Width:  s.Width,
			Height: s.Height,
			Codec:  s.CodecName,
		}

		dur := out.Format.Duration
		if dur == "" {
			dur = s.Duration
		}
		if secs, err := strconv.ParseFloat(dur, 64); err == nil && secs > 0 {
			info.Duration = time.Duration(secs * float64(time.Second))
		}

		// Newer ffprobe reports rotation in side data, older in tags.
		for _, sd := range s.SideData {
			if sd.Rotation != nil {
				info.Rotation = int(math.Round(*sd.Rotation))
			}
		}
		if info.Rotation == 0 && s.Tags.Rotate != "" {
			info.Rotation, _ = strconv.Atoi(s.Tags.Rotate)
		}
		return info, nil
	}
	return nil, ErrNoVideoStream
}
