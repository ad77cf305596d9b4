// Package ui provides the desktop window and tray for the gesture
// media controller.
package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"log"
	"strconv"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
)

const maxLogEntries = 100

// GestureApp is the desktop window around the detection pipeline.
type GestureApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	configPath string
	core       *app.App

	dynamicSettings *fyne.Container

	videoCanvas  *canvas.Image
	gestureLabel *widget.Label
	statusLabel  *widget.Label

	logMu      sync.RWMutex
	logEntries []string
	logList    *widget.List
}

// CreateApp builds the window around an already constructed pipeline.
func CreateApp(core *app.App, cfg *config.Config, configPath string) *GestureApp {
	a := fyneapp.New()
	w := a.NewWindow("Mudra")

	w.Resize(fyne.NewSize(1100, 600))

	return &GestureApp{
		fyneApp:    a,
		mainWin:    w,
		config:     cfg,
		configPath: configPath,
		core:       core,
	}
}

// Run builds the layout, subscribes to the pipeline, and enters the
// fyne main loop. It blocks until the window is closed.
func (a *GestureApp) Run() {
	a.dynamicSettings = container.NewVBox()

	a.videoCanvas = canvas.NewImageFromImage(nil)
	a.videoCanvas.FillMode = canvas.ImageFillContain
	a.videoCanvas.SetMinSize(fyne.NewSize(640, 480))

	a.gestureLabel = widget.NewLabelWithStyle("No gesture yet", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.statusLabel = widget.NewLabel("Stopped")

	a.logList = widget.NewList(
		func() int {
			a.logMu.RLock()
			defer a.logMu.RUnlock()
			return len(a.logEntries)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			a.logMu.RLock()
			defer a.logMu.RUnlock()
			if i < len(a.logEntries) {
				o.(*widget.Label).SetText(a.logEntries[i])
			}
		},
	)

	enabledCheck := widget.NewCheck("Detection enabled", func(on bool) {
		a.core.SetEnabled(on)
	})
	enabledCheck.SetChecked(a.core.IsEnabled())

	startBtn := widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), nil)
	startBtn.OnTapped = func() {
		if a.core.IsRunning() {
			a.core.Stop()
			a.statusLabel.SetText("Stopped")
			startBtn.SetText("Start")
			startBtn.SetIcon(theme.MediaPlayIcon())
			return
		}
		if err := a.core.Start(); err != nil {
			dialog.ShowError(err, a.mainWin)
			return
		}
		a.statusLabel.SetText("Running")
		startBtn.SetText("Stop")
		startBtn.SetIcon(theme.MediaStopIcon())
	}

	sourceSelect := widget.NewSelect([]string{
		string(capture.SourceUSB),
		string(capture.SourceRTSP),
		string(capture.SourceFile),
	}, func(s string) {
		a.config.SetSource(capture.SourceType(s))
		a.refreshSettingsUI(capture.SourceType(s))
	})
	sourceSelect.SetSelected(string(a.config.Source))

	cooldownInput := widget.NewEntry()
	cooldownInput.SetText(strconv.FormatFloat(a.config.CooldownSeconds, 'f', 1, 64))
	cooldownInput.OnChanged = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return
		}
		a.config.SetCooldownSeconds(v)
		a.core.SetCooldown(a.config.Cooldown())
	}

	saveBtn := widget.NewButton("Save config", func() {
		if err := a.config.Save(a.configPath); err != nil {
			dialog.ShowError(err, a.mainWin)
		}
	})

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel("Source Type:"),
		sourceSelect,
		a.dynamicSettings,
		widget.NewSeparator(),
		widget.NewLabel("Cooldown (seconds):"),
		cooldownInput,
		widget.NewSeparator(),
		enabledCheck,
		startBtn,
		saveBtn,
	)

	videoContainer := container.NewBorder(
		container.NewHBox(a.statusLabel, widget.NewSeparator(), a.gestureLabel),
		nil, nil, nil,
		a.videoCanvas,
	)

	logPane := container.NewBorder(
		widget.NewLabelWithStyle("Action Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		a.logList,
	)

	right := container.NewVSplit(container.NewPadded(videoContainer), container.NewPadded(logPane))
	right.SetOffset(0.75)

	split := container.NewHSplit(container.NewPadded(sidebar), right)
	split.SetOffset(0.25)

	a.mainWin.SetContent(split)
	a.refreshSettingsUI(a.config.Source)

	a.core.OnFrame(a.showFrame)
	a.core.OnEvent(a.showEvent)

	a.setupTray(enabledCheck)

	a.mainWin.SetCloseIntercept(func() {
		a.config.Save(a.configPath)
		a.core.Stop()
		a.mainWin.Close()
	})

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
}

// setupTray installs a system tray menu when the driver supports one.
func (a *GestureApp) setupTray(enabledCheck *widget.Check) {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}

	toggle := fyne.NewMenuItem("Disable detection", nil)
	toggle.Action = func() {
		on := !a.core.IsEnabled()
		a.core.SetEnabled(on)
		if on {
			toggle.Label = "Disable detection"
		} else {
			toggle.Label = "Enable detection"
		}
		fyne.Do(func() { enabledCheck.SetChecked(on) })
	}

	show := fyne.NewMenuItem("Show window", func() {
		fyne.Do(func() { a.mainWin.Show() })
	})

	desk.SetSystemTrayMenu(fyne.NewMenu("Mudra", show, toggle))
}

// showFrame decodes a JPEG preview frame and paints it on the canvas.
func (a *GestureApp) showFrame(jpegData []byte) {
	img, _, err := image.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return
	}

	fyne.Do(func() {
		a.videoCanvas.Image = img
		a.videoCanvas.Refresh()
	})
}

// showEvent updates the gesture label and prepends to the action log.
func (a *GestureApp) showEvent(ev gesture.Event) {
	entry := fmt.Sprintf("%s  %d fingers -> %s",
		ev.Time.Format(time.Kitchen), ev.Fingers, ev.Action)

	a.logMu.Lock()
	a.logEntries = append([]string{entry}, a.logEntries...)
	if len(a.logEntries) > maxLogEntries {
		a.logEntries = a.logEntries[:maxLogEntries]
	}
	a.logMu.Unlock()

	fyne.Do(func() {
		a.gestureLabel.SetText(fmt.Sprintf("%d fingers -> %s", ev.Fingers, ev.Action))
		a.logList.Refresh()
	})
}

// refreshSettingsUI swaps the source-specific controls.
func (a *GestureApp) refreshSettingsUI(sourceType capture.SourceType) {
	a.dynamicSettings.Objects = nil

	switch sourceType {
	case capture.SourceUSB:
		deviceSelect := widget.NewSelect([]string{"Scanning cameras..."}, func(s string) {
			if idx, err := strconv.Atoi(s); err == nil {
				a.config.SetCameraIndex(idx)
			}
		})
		deviceSelect.SetSelected("Scanning cameras...")
		deviceSelect.Disable()

		a.dynamicSettings.Add(widget.NewLabel("Camera Index:"))
		a.dynamicSettings.Add(deviceSelect)
		a.dynamicSettings.Refresh()

		go func() {
			cameras := capture.ProbeCameras(0)

			fyne.Do(func() {
				if len(cameras) == 0 {
					deviceSelect.Options = []string{"No cameras found"}
				} else {
					options := make([]string, len(cameras))
					for i, cam := range cameras {
						options[i] = strconv.Itoa(cam.Index)
					}
					deviceSelect.Options = options
					deviceSelect.Enable()
					deviceSelect.SetSelected(strconv.Itoa(a.config.CameraIndex))
				}
				deviceSelect.Refresh()
			})
		}()

	case capture.SourceRTSP:
		urlEntry := widget.NewEntry()
		urlEntry.SetPlaceHolder("rtsp://host:554/stream")
		urlEntry.SetText(a.config.RTSPURL)
		urlEntry.OnChanged = func(s string) {
			a.config.SetRTSPURL(s)
		}

		transportSelect := widget.NewSelect([]string{"tcp", "udp"}, func(s string) {
			a.config.SetRTSPTransport(s)
		})
		transportSelect.SetSelected(a.config.RTSPTransport)

		a.dynamicSettings.Add(widget.NewLabel("RTSP URL:"))
		a.dynamicSettings.Add(urlEntry)
		a.dynamicSettings.Add(widget.NewLabel("Transport:"))
		a.dynamicSettings.Add(transportSelect)

	case capture.SourceFile:
		pathEntry := widget.NewEntry()
		pathEntry.SetPlaceHolder("/path/to/video.mp4")
		pathEntry.SetText(a.config.VideoPath)
		pathEntry.OnChanged = func(s string) {
			a.config.SetVideoPath(s)
		}

		fileBtn := widget.NewButtonWithIcon("Open File", theme.FolderOpenIcon(), func() {
			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err == nil && reader != nil {
					pathEntry.SetText(reader.URI().Path())
				}
			}, a.mainWin)
		})

		a.dynamicSettings.Add(widget.NewLabel("Video Path:"))
		a.dynamicSettings.Add(container.NewBorder(nil, nil, nil, fileBtn, pathEntry))
	}

	a.dynamicSettings.Refresh()

	if a.core.IsRunning() {
		log.Println("Source changed, restart the pipeline to apply")
	}
}
