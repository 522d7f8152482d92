// Command vssamples renders synthetic video test clips.
//
// This file implements the live terminal preview, a bubbletea program
// that paints each frame as colored half-block cells. One cell carries
// two image rows, the upper in the foreground color of the upper-half
// block and the lower in its background, which roughly squares the
// terminal's tall pixels.
package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	vssamples "github.com/OpusGang/vs-samples"
)

// statusStyle dims the one-line footer under the picture.
var statusStyle = lipgloss.NewStyle().Faint(true)

// tickMsg advances the playhead. One tick is scheduled at a time, so
// slow frames stretch playback instead of queueing.
type tickMsg time.Time

// previewModel plays a clip. The zero column count means the terminal
// size is not known yet; the first WindowSizeMsg triggers the first
// paint.
type previewModel struct {
	clip   *vssamples.Clip
	n      int
	paused bool

	cols int
	rows int
	body string
	err  error
}

func newPreviewModel(clip *vssamples.Clip) previewModel {
	return previewModel{clip: clip}
}

// Init schedules the first tick.
func (m previewModel) Init() tea.Cmd {
	return m.tick()
}

func (m previewModel) tick() tea.Cmd {
	d := m.clip.Settings().FPS.FrameDuration()
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles keys, resizes, and playback ticks.
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		return m.repaint(), nil

	case tickMsg:
		if !m.paused && m.cols > 0 {
			m.n = (m.n + 1) % m.clip.Frames()
			m = m.repaint()
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// repaint renders the current frame at the current terminal size.
func (m previewModel) repaint() previewModel {
	w := m.cols
	h := 2 * (m.rows - 1)
	if w < 1 || h < 2 {
		m.body = ""
		return m
	}

	img, err := m.clip.Snapshot(m.n)
	if err != nil {
		m.err = err
		return m
	}
	small := imaging.Fit(img, w, h, imaging.Box)
	m.body = paintHalfBlocks(small)
	return m
}

// View shows the picture over a one-line status footer.
func (m previewModel) View() string {
	if m.err != nil {
		return statusStyle.Render("preview error: " + m.err.Error())
	}
	if m.body == "" {
		return statusStyle.Render("waiting for terminal size")
	}

	state := "playing"
	if m.paused {
		state = "paused"
	}
	status := fmt.Sprintf("%s  %dx%d  frame %d/%d  %s fps  %s  space pause  q quit",
		m.clip.Source().Kind(), m.clip.Width(), m.clip.Height(),
		m.n+1, m.clip.Frames(), m.clip.Settings().FPS, state)
	return m.body + "\n" + statusStyle.Render(status)
}

// paintHalfBlocks renders an image as rows of upper-half blocks, two
// image rows per terminal row. An odd final row paints foreground
// only.
func paintHalfBlocks(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexRGB(img.At(x, y))))
			if y+1 < b.Max.Y {
				style = style.Background(lipgloss.Color(hexRGB(img.At(x, y+1))))
			}
			sb.WriteString(style.Render("▀"))
		}
	}
	return sb.String()
}

// hexRGB formats a color as the #rrggbb form lipgloss expects.
func hexRGB(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// runPreview plays the clip until quit. Log output is suppressed while
// the program owns the terminal.
func runPreview(clip *vssamples.Clip) error {
	out := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(out)

	p := tea.NewProgram(newPreviewModel(clip), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if m, ok := final.(previewModel); ok && m.err != nil {
		return fmt.Errorf("preview: %w", m.err)
	}
	return nil
}
