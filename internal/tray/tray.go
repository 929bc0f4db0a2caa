package tray

import (
	"context"
	"fmt"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/Desoky231/Ramses-VR/internal/audio"
	"github.com/Desoky231/Ramses-VR/internal/config"
)

type UI struct {
	mic     audio.Device
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger
	onQuit  func()

	mDevices *systray.MenuItem
}

// Status update methods called by the capture controller and the sender

func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetRecording() {
	u.updateStatus("recording")
}

func (u *UI) SetSending() {
	u.updateStatus("sending")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

func New(mic audio.Device, cfg *config.Config, log zerolog.Logger, version, commit string, onQuit func()) *UI {
	return &UI{
		mic:     mic,
		cfg:     cfg,
		version: version,
		commit:  commit,
		log:     log,
		onQuit:  onQuit,
	}
}

// Run starts the tray UI - MUST run on the main thread
func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus("idle")
	systray.SetTooltip("Ramses-VR voice companion")

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio device")
	u.buildDeviceMenu()

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About the Ramses-VR voice daemon")
	mQuit := systray.AddMenuItem("Quit", "Stop the daemon")

	go u.handleEvents(mAbout, mQuit)
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildDeviceMenu() {
	devices, err := u.mic.ListDevices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
		return
	}

	deviceItems := make(map[string]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name, "")
		if (u.cfg.Capture.DeviceID == "" && dev.Default) || u.cfg.Capture.DeviceID == dev.ID {
			item.Check()
		}
		deviceItems[dev.ID] = item

		go func(deviceID, deviceName string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				for id, itm := range deviceItems {
					if id != deviceID {
						itm.Uncheck()
					}
				}
				menuItem.Check()
				u.cfg.Capture.DeviceID = deviceID
				u.cfg.Save()
				u.mic.SetDevice(deviceID)
				u.log.Info().Str("device", deviceName).Msg("Changed audio device")
			}
		}(dev.ID, dev.Name, item)
	}
}

func (u *UI) showAbout() {
	fmt.Printf("Ramses-VR voice daemon %s (%s)\nHold the controller trigger to ask the guide a question\n", u.version, u.commit)
}

func (u *UI) onExit() {
	if u.onQuit != nil {
		u.onQuit()
	}
}

// updateStatus sets the tray title with microphone emoji and status indicator
func (u *UI) updateStatus(status string) {
	systray.SetTitle(fmt.Sprintf("🎤 %s", emojiForStatus(status)))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "sending":
		return "🟡" // Yellow - waiting on the backend
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to ready
	}
}
