// Package vssamples generates synthetic video test clips.
//
// A clip binds a pattern generator from the signal package to output
// geometry: an artifact chain from the artifact package, a crop window,
// an optional bandwidth blur, and a host frame format from the frame
// package. Rendered frames can be inspected one at a time, exported as
// PNG snapshots, or streamed as YUV4MPEG2 through the y4m package.
//
// # Getting Started
//
// Build a clip from a pattern generator and render it to a stream:
//
//	src, err := signal.New(signal.KindVortex, signal.Config{
//		Width:  640,
//		Height: 360,
//		Frames: 240,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	chain := artifact.NewChain()
//	jpeg, _ := artifact.NewJPEG(30)
//	chain.Add(jpeg)
//
//	clip, err := vssamples.NewClipWithSettings(src, vssamples.Settings{
//		Format:    frame.YUV420P8,
//		FPS:       y4m.Rational{Num: 24, Den: 1},
//		Artifacts: chain,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	out, _ := os.Create("vortex.y4m")
//	defer out.Close()
//
//	w, err := y4m.NewWriter(out, clip.Y4MHeader())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := clip.Render(context.Background(), w); err != nil {
//		log.Fatal(err)
//	}
//
// # Core Types
//
// The package defines a small surface:
//
//   - [Clip]: an immutable, concurrency-safe frame source
//   - [Settings]: output geometry, chain, and format configuration
//   - [Crop]: raster trim applied between artifacts and blur
//
// # Presets
//
// The ColorBars presets reproduce the broadcast bar rasters end to end,
// blanking and bandwidth blur included:
//
//	clip, err := vssamples.ColorBarsNTSC()
//
// Each preset is 60 seconds at its native frame rate and delivers
// 10-bit 4:2:2, the format test streams are usually exchanged in.
//
// # Rendering
//
// Render drives frames in order on the calling goroutine.
// RenderParallel spreads frame computation across a worker pool while
// keeping delivery ordered; because frame generation is pure, both
// produce byte-identical streams.
package vssamples
