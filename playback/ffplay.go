package playback

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/EfeIsmail21/live-translation/model"
)

// FFplayPlayer plays a clip on the host audio output by piping it through
// ffplay. Cancelling the context kills the process, which is how the
// controller implements stop.
type FFplayPlayer struct {
	Path string // defaults to "ffplay"
}

func (p *FFplayPlayer) Play(ctx context.Context, clip model.Clip) error {
	path := p.Path
	if path == "" {
		path = "ffplay"
	}

	cmd := exec.CommandContext(ctx, path,
		"-autoexit",
		"-nodisp",
		"-loglevel", "error",
		"-i", "-",
	)
	cmd.Stdin = bytes.NewReader(clip.Bytes)

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
