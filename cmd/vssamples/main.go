// Command vssamples renders synthetic video test clips.
//
// A clip is a pattern generator bridged through an optional chain of
// compression artifacts. The command writes it as a YUV4MPEG2 stream,
// exports one frame as a PNG, or plays it in the terminal.
//
// Without flags it renders the default vortex clip to out.y4m. A YAML
// file, ./vssamples.yaml by default, describes richer runs; flags
// override individual fields. Examples:
//
//	vssamples -preset ntsc -o ntsc.y4m
//	vssamples -pattern checkerboard -width 320 -height 240 -jpeg 20 -o - | mpv -
//	vssamples -config degrade.yaml -snapshot frame.png -frame 12
//	vssamples -preset pal -preview
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	vssamples "github.com/OpusGang/vs-samples"
	"github.com/OpusGang/vs-samples/y4m"
)

func main() {
	o := &options{}
	fs := newFlagSet(o)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if o.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(o, fs); err != nil {
		logrus.Fatal(err)
	}
}

func run(o *options, fs *flag.FlagSet) error {
	cfg, err := Load(o, fs)
	if err != nil {
		return err
	}
	if cfg.Log.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	clip, err := cfg.BuildClip()
	if err != nil {
		return err
	}

	switch {
	case o.preview:
		return runPreview(clip)
	case cfg.Output.Snapshot != "":
		return runSnapshot(clip, cfg.Output)
	default:
		return runRender(clip, cfg.Output)
	}
}

// runRender streams the clip as YUV4MPEG2 to the output path, or to
// stdout when the path is "-". Interrupts cancel the render cleanly.
func runRender(clip *vssamples.Clip, out OutputConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		w    io.Writer
		file *os.File
	)
	if out.Path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(out.Path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		file = f
		w = f
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	wr, err := y4m.NewWriter(bw, clip.Y4MHeader())
	if err != nil {
		return err
	}

	if err := clip.RenderParallel(ctx, wr, out.Workers); err != nil {
		if file != nil {
			file.Close()
		}
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"path":   out.Path,
		"frames": wr.Frames(),
	}).Info("render complete")
	return nil
}

// runSnapshot exports one frame as a PNG.
func runSnapshot(clip *vssamples.Clip, out OutputConfig) error {
	if err := clip.SavePNG(out.Frame, out.Snapshot, out.MaxDim); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"path":  out.Snapshot,
		"frame": out.Frame,
	}).Info("snapshot written")
	return nil
}
