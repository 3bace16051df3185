package capture

import (
	"context"
	"os/exec"
)

// NopDevice is the device for roles whose audio arrives over the network as
// uploaded fragments rather than from local hardware.
type NopDevice struct {
	Encoding string
}

func (d *NopDevice) Acquire(emit func(fragment []byte)) error { return nil }
func (d *NopDevice) Release() error                           { return nil }

func (d *NopDevice) ContentType() string {
	if d.Encoding == "" {
		return "audio/webm"
	}
	return d.Encoding
}

// MicDevice captures from a kiosk-attached microphone by running ffmpeg
// against the host audio backend and streaming ogg/opus from its stdout.
type MicDevice struct {
	FFmpegPath string // defaults to "ffmpeg"
	Backend    string // e.g. "alsa", "pulse", "avfoundation"
	Input      string // e.g. "default"

	cancel context.CancelFunc
	done   chan struct{}
	cmd    *exec.Cmd
}

func (d *MicDevice) ContentType() string { return "audio/ogg" }

// Acquire spawns ffmpeg and starts forwarding captured fragments. A spawn
// failure is the "device unavailable" case.
func (d *MicDevice) Acquire(emit func(fragment []byte)) error {
	path := d.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, path,
		"-hide_banner",
		"-nostdin",
		"-f", d.Backend,
		"-i", d.Input,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "libopus",
		"-f", "ogg",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}

	d.cancel = cancel
	d.cmd = cmd
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		buf := make([]byte, 4096)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				frag := make([]byte, n)
				copy(frag, buf[:n])
				emit(frag)
			}
			if err != nil {
				// EOF, ffmpeg killed, or the backend dropped; in every case
				// the tail has already been forwarded.
				return
			}
		}
	}()

	return nil
}

// Release stops ffmpeg and waits for the forwarding goroutine to drain.
func (d *MicDevice) Release() error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	<-d.done
	_ = d.cmd.Wait()
	d.cancel = nil
	return nil
}
