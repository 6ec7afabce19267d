// Package app assembles the player core from config and catalog.
package app

import (
	"log/slog"
	"sync"

	"sonichealing/internal/audio"
	"sonichealing/internal/config"
	"sonichealing/internal/core/bank"
	"sonichealing/internal/core/breath"
	"sonichealing/internal/core/cue"
	"sonichealing/internal/core/scene"
	"sonichealing/internal/core/schedule"
	"sonichealing/internal/core/session"
	"sonichealing/internal/notify"
	"sonichealing/internal/storage"

	"github.com/samber/lo"
)

// VoiceFactory binds audio sources to an output device.
type VoiceFactory interface {
	Voice(source audio.Source) cue.Voice
}

// Options are the collaborators a Studio is built from.
type Options struct {
	Config    config.Config
	Catalog   storage.Catalog
	Voices    VoiceFactory
	Scheduler schedule.Scheduler
	Notifier  notify.Notifier
}

// Studio owns every core component for one player window or terminal session.
type Studio struct {
	Sounds *bank.SoundBank
	Tones  *bank.ToneBank
	Timer  *session.Timer
	Breath *breath.Cycle
	Scenes *scene.Picker
	Chime  *cue.Cue

	names    map[string]string
	notifier notify.Notifier
	notice   config.NotifyConfig

	closeOnce sync.Once
	watchers  sync.WaitGroup
}

// New builds the core. Cues are bound once here and released by Close.
func New(options Options) *Studio {
	catalog := options.Catalog
	voices := options.Voices
	notifier := options.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}

	bind := func(source audio.Source) *cue.Cue {
		var voice cue.Voice
		if voices != nil {
			voice = voices.Voice(source)
		}
		return cue.New(source.ID, source.Path, source.Loop, voice)
	}

	chime := bind(catalog.ChimeSource())
	studio := &Studio{
		Sounds:   bank.NewSoundBank(lo.Map(catalog.TrackSources(), func(source audio.Source, _ int) *cue.Cue { return bind(source) })...),
		Tones:    bank.NewToneBank(lo.Map(catalog.ToneSources(), func(source audio.Source, _ int) *cue.Cue { return bind(source) })...),
		Timer:    session.New(options.Config.SessionModel(), chime, options.Scheduler),
		Breath:   breath.New(options.Config.BreathModel(), options.Scheduler),
		Scenes:   scene.NewPicker(catalog.SceneBackdrops()),
		Chime:    chime,
		names:    catalog.Names(),
		notifier: notifier,
		notice:   options.Config.Notify,
	}

	if studio.notice.OnComplete {
		events := studio.Timer.Subscribe(16)
		studio.watchers.Add(1)
		go studio.watchCompletion(events)
	}
	return studio
}

// Name returns the display name for a track, tone or chime id.
func (studio *Studio) Name(id string) string {
	if name, ok := studio.names[id]; ok {
		return name
	}
	return id
}

// StopAllSounds silences every ambient track and tone.
func (studio *Studio) StopAllSounds() {
	studio.Sounds.StopAll()
	studio.Tones.StopAll()
}

// Close stops the session, the breathing cycle and all sounds.
func (studio *Studio) Close() {
	studio.closeOnce.Do(func() {
		studio.Timer.Close()
		studio.Breath.Close()
		studio.StopAllSounds()
		studio.Chime.Stop()
		studio.watchers.Wait()
	})
}

func (studio *Studio) watchCompletion(events <-chan session.Event) {
	defer studio.watchers.Done()
	for event := range events {
		if event.Reason != session.ReasonCompleted {
			continue
		}
		slog.Info("session complete", "minutes", event.Snapshot.DurationSeconds/60)
		if err := studio.notifier.Notify(studio.notice.Title, studio.notice.Message); err != nil {
			slog.Debug("completion notice failed", "error", err)
		}
	}
}
