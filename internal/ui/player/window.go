package player

import (
	"context"
	"image/color"
	"log/slog"
	"strconv"
	"sync"

	"sonichealing/internal/app"
	"sonichealing/internal/core/breath"
	"sonichealing/internal/core/session"
	"sonichealing/internal/ui"
	"sonichealing/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	windowTitle = "Sonic Healing"
	circleSize  = float32(140)
	disclaimer  = "For relaxation only. Not a substitute for professional medical advice."
)

var (
	clockColor  = color.NRGBA{R: 30, G: 64, B: 175, A: 255}
	circleColor = color.NRGBA{R: 110, G: 231, B: 183, A: 200}
	veilColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 90}
)

// Window is the main player view. It renders studio snapshots and forwards user actions.
type Window struct {
	window fyne.Window
	studio *app.Studio
	pulse  *animation.Engine
	fetch  func(url string) (fyne.Resource, error)

	background      *canvas.Image
	backdropButtons []*widget.Button
	trackButtons    map[string]*widget.Button
	toneButtons     map[string]*widget.Button
	minutes         *widget.Entry
	startStop       *widget.Button
	clock           *canvas.Text
	circle          *canvas.Circle
	phaseLabel      *widget.Label
	breathButton    *widget.Button

	images sync.Map
	cancel context.CancelFunc
}

// New creates the player window. Call Run to start following the studio.
func New(fyneApp fyne.App, studio *app.Studio) *Window {
	return newWindow(fyneApp, studio, fyne.LoadResourceFromURLString)
}

func newWindow(fyneApp fyne.App, studio *app.Studio, fetch func(string) (fyne.Resource, error)) *Window {
	window := fyneApp.NewWindow(windowTitle)
	if fyneApp.Icon() != nil {
		window.SetIcon(fyneApp.Icon())
	}

	player := &Window{
		window:       window,
		studio:       studio,
		fetch:        fetch,
		trackButtons: make(map[string]*widget.Button),
		toneButtons:  make(map[string]*widget.Button),
	}
	player.pulse = animation.New(animation.DefaultConfig(), func(scale float32) {
		fyne.Do(func() { player.setCircleScale(scale) })
	})

	window.SetContent(player.build())
	window.Resize(fyne.NewSize(760, 720))
	window.SetCloseIntercept(window.Hide)

	player.setCircleScale(player.pulse.Scale())
	player.renderBackdrop()
	player.renderSounds()
	player.renderTimer(studio.Timer.Snapshot())
	player.renderBreath(studio.Breath.Snapshot())
	return player
}

func (player *Window) build() fyne.CanvasObject {
	player.background = canvas.NewImageFromResource(nil)
	player.background.FillMode = canvas.ImageFillStretch

	backdrops := container.NewHBox(layout.NewSpacer())
	for index, backdrop := range player.studio.Scenes.All() {
		index := index
		button := widget.NewButton(backdrop.Name, func() { player.selectBackdrop(index) })
		player.backdropButtons = append(player.backdropButtons, button)
		backdrops.Add(button)
	}
	backdrops.Add(layout.NewSpacer())

	tracks := container.NewGridWithColumns(2)
	for _, id := range player.studio.Sounds.IDs() {
		id := id
		button := widget.NewButton(player.studio.Name(id), func() { player.selectTrack(id) })
		player.trackButtons[id] = button
		tracks.Add(button)
	}
	stopAll := widget.NewButton("Stop All Sounds", player.stopAllSounds)

	tones := container.NewHBox(layout.NewSpacer())
	for _, id := range player.studio.Tones.IDs() {
		id := id
		button := widget.NewButton(player.studio.Name(id), func() { player.toggleTone(id) })
		player.toneButtons[id] = button
		tones.Add(button)
	}
	tones.Add(layout.NewSpacer())

	player.minutes = widget.NewEntry()
	player.minutes.OnChanged = player.previewMinutes
	player.minutes.OnSubmitted = func(string) { player.commitMinutes() }
	player.startStop = widget.NewButton("Start", player.toggleSession)
	player.clock = canvas.NewText("00:00", clockColor)
	player.clock.TextSize = 36
	player.clock.TextStyle = fyne.TextStyle{Monospace: true}
	player.clock.Alignment = fyne.TextAlignCenter

	player.circle = canvas.NewCircle(circleColor)
	circleBox := container.NewWithoutLayout(player.circle)
	circleBox.Resize(fyne.NewSize(circleSize, circleSize))
	player.phaseLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	player.breathButton = widget.NewButton("", player.toggleBreath)

	card := container.NewVBox(
		widget.NewLabelWithStyle("Sonic Healing", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Experience deep relaxation and healing through sound.", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		widget.NewCard("Sound Healing Player", "", container.NewVBox(tracks, container.NewCenter(stopAll))),
		widget.NewCard("Frequency Healing", "", tones),
		widget.NewCard("Session Timer", "", container.NewVBox(
			container.NewCenter(container.NewHBox(player.minutes, widget.NewLabel("minutes"), player.startStop)),
			player.clock,
		)),
		widget.NewCard("Breathing", "", container.NewVBox(
			container.NewCenter(container.New(&fixedLayout{size: fyne.NewSize(circleSize, circleSize)}, circleBox)),
			player.phaseLabel,
			container.NewCenter(player.breathButton),
		)),
	)

	footer := widget.NewLabelWithStyle(disclaimer, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	body := container.NewBorder(backdrops, footer, nil, nil, container.NewVScroll(container.NewPadded(card)))
	return container.NewStack(player.background, canvas.NewRectangle(veilColor), body)
}

// Run follows timer and breathing updates until ctx ends or Close is called.
func (player *Window) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	player.cancel = cancel

	timerEvents := player.studio.Timer.Subscribe(8)
	breathEvents := player.studio.Breath.Subscribe(8)

	if snapshot := player.studio.Breath.Snapshot(); snapshot.Active {
		player.pulse.Follow(runCtx, snapshot.Phase)
	}

	go func() {
		for {
			select {
			case <-runCtx.Done():
				return
			case event, ok := <-timerEvents:
				if !ok {
					return
				}
				fyne.Do(func() { player.renderTimer(event.Snapshot) })
			case snapshot, ok := <-breathEvents:
				if !ok {
					return
				}
				if snapshot.Active {
					player.pulse.Follow(runCtx, snapshot.Phase)
				} else {
					player.pulse.Stop()
				}
				fyne.Do(func() { player.renderBreath(snapshot) })
			}
		}
	}()
}

// Window exposes the underlying fyne window.
func (player *Window) Window() fyne.Window {
	return player.window
}

// Show displays the window.
func (player *Window) Show() {
	player.window.Show()
	player.window.RequestFocus()
}

// Stop ends the follow loop and any pulse animation started by Run.
func (player *Window) Stop() {
	if player.cancel != nil {
		player.cancel()
	}
}

// Close stops following the studio and closes the window.
func (player *Window) Close() {
	player.Stop()
	player.window.Close()
}

func (player *Window) selectBackdrop(index int) {
	if err := player.studio.Scenes.Select(index); err != nil {
		slog.Error("select backdrop", "error", err)
		return
	}
	player.renderBackdrop()
}

func (player *Window) selectTrack(id string) {
	if err := player.studio.Sounds.Select(id); err != nil {
		slog.Error("select track", "error", err)
	}
	player.renderSounds()
}

func (player *Window) toggleTone(id string) {
	if err := player.studio.Tones.Toggle(id); err != nil {
		slog.Error("toggle tone", "error", err)
	}
	player.renderSounds()
}

func (player *Window) stopAllSounds() {
	player.studio.StopAllSounds()
	player.renderSounds()
}

func (player *Window) toggleSession() {
	timer := player.studio.Timer
	if timer.Snapshot().Running() {
		timer.Stop()
	} else {
		player.commitMinutes()
		if err := timer.Start(); err != nil {
			slog.Debug("start session", "error", err)
		}
	}
	player.renderTimer(timer.Snapshot())
}

func (player *Window) toggleBreath() {
	player.studio.Breath.Toggle()
	player.renderBreath(player.studio.Breath.Snapshot())
}

// previewMinutes follows the entry while typing so the clock reflects the new length.
func (player *Window) previewMinutes(text string) {
	timer := player.studio.Timer
	if timer.Snapshot().Running() {
		return
	}
	minMinutes, maxMinutes := timer.Limits()
	minutes, ok := ui.ParseMinutes(text, minMinutes, maxMinutes)
	if !ok {
		return
	}
	if err := timer.Configure(minutes); err == nil {
		player.clock.Text = ui.FormatClock(timer.Snapshot().RemainingSeconds)
		player.clock.Refresh()
	}
}

// commitMinutes clamps the entry and writes the accepted value back.
func (player *Window) commitMinutes() {
	timer := player.studio.Timer
	if timer.Snapshot().Running() {
		return
	}
	player.previewMinutes(player.minutes.Text)
	player.minutes.SetText(strconv.Itoa(timer.Snapshot().DurationSeconds / 60))
}

func (player *Window) renderTimer(snapshot session.Snapshot) {
	player.clock.Text = ui.FormatClock(snapshot.RemainingSeconds)
	player.clock.Refresh()
	if snapshot.Running() {
		player.startStop.SetText("Stop")
		player.startStop.Importance = widget.WarningImportance
		player.minutes.Disable()
	} else {
		player.startStop.SetText("Start")
		player.startStop.Importance = widget.HighImportance
		player.minutes.Enable()
		if player.minutes.Text == "" {
			player.minutes.SetText(strconv.Itoa(snapshot.DurationSeconds / 60))
		}
	}
	player.startStop.Refresh()
}

func (player *Window) renderSounds() {
	active, _ := player.studio.Sounds.ActiveID()
	for id, button := range player.trackButtons {
		setHighlighted(button, id == active)
	}
	for id, playing := range player.studio.Tones.Snapshot() {
		if button, ok := player.toneButtons[id]; ok {
			setHighlighted(button, playing)
		}
	}
}

func (player *Window) renderBreath(snapshot breath.Snapshot) {
	if snapshot.Active {
		player.phaseLabel.SetText(snapshot.Phase.Label())
		player.breathButton.SetText("Pause breathing")
	} else {
		player.phaseLabel.SetText("Paused")
		player.breathButton.SetText("Resume breathing")
	}
}

func (player *Window) renderBackdrop() {
	backdrop, index, ok := player.studio.Scenes.Current()
	if !ok {
		return
	}
	for i, button := range player.backdropButtons {
		setHighlighted(button, i == index)
	}

	if cached, ok := player.images.Load(backdrop.ImageURL); ok {
		player.setBackground(cached.(fyne.Resource))
		return
	}
	go func() {
		resource, err := player.fetch(backdrop.ImageURL)
		if err != nil {
			slog.Warn("load backdrop", "name", backdrop.Name, "error", err)
			return
		}
		player.images.Store(backdrop.ImageURL, resource)
		fyne.Do(func() {
			// A later selection may have won the race.
			if current, _, _ := player.studio.Scenes.Current(); current.ImageURL == backdrop.ImageURL {
				player.setBackground(resource)
			}
		})
	}()
}

func (player *Window) setBackground(resource fyne.Resource) {
	player.background.Resource = resource
	player.background.Refresh()
}

func (player *Window) setCircleScale(scale float32) {
	size := circleSize * scale
	offset := (circleSize - size) / 2
	player.circle.Resize(fyne.NewSize(size, size))
	player.circle.Move(fyne.NewPos(offset, offset))
	player.circle.Refresh()
}

func setHighlighted(button *widget.Button, highlighted bool) {
	if highlighted {
		button.Importance = widget.HighImportance
	} else {
		button.Importance = widget.MediumImportance
	}
	button.Refresh()
}
