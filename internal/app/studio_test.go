package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sonichealing/internal/audio"
	"sonichealing/internal/config"
	"sonichealing/internal/core/breath"
	"sonichealing/internal/core/cue"
	"sonichealing/internal/core/cue/cuetest"
	"sonichealing/internal/core/schedule"
	"sonichealing/internal/storage"
	"sonichealing/resources"

	"github.com/stretchr/testify/require"
)

type fakeVoices struct {
	mu     sync.Mutex
	voices map[string]*cuetest.Voice
}

func (factory *fakeVoices) Voice(source audio.Source) cue.Voice {
	factory.mu.Lock()
	defer factory.mu.Unlock()
	voice := cuetest.NewVoice()
	factory.voices[source.ID] = voice
	return voice
}

func (factory *fakeVoices) get(id string) *cuetest.Voice {
	factory.mu.Lock()
	defer factory.mu.Unlock()
	return factory.voices[id]
}

type recordingNotifier struct {
	mu    sync.Mutex
	posts []string
}

func (notifier *recordingNotifier) Notify(title, message string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.posts = append(notifier.posts, title+"|"+message)
	return nil
}

func (notifier *recordingNotifier) count() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.posts)
}

func newStudio(t *testing.T, mutate func(*config.Config)) (*Studio, *fakeVoices, *schedule.Manual, *recordingNotifier) {
	t.Helper()
	catalog, err := storage.ParseCatalog(resources.DefaultCatalog())
	require.NoError(t, err)

	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	voices := &fakeVoices{voices: map[string]*cuetest.Voice{}}
	clock := schedule.NewManual()
	notifier := &recordingNotifier{}

	studio := New(Options{Config: cfg, Catalog: catalog, Voices: voices, Scheduler: clock, Notifier: notifier})
	t.Cleanup(studio.Close)
	return studio, voices, clock, notifier
}

func TestNew_BuildsFromCatalog(t *testing.T) {
	studio, voices, clock, _ := newStudio(t, nil)

	require.Equal(t, []string{"crystalBowl", "tibetanGong", "nature", "magical"}, studio.Sounds.IDs())
	require.Equal(t, []string{"freq528", "freq432", "freq396"}, studio.Tones.IDs())
	require.Equal(t, "gentleGong", studio.Chime.ID())
	require.False(t, studio.Chime.Looping())
	require.Len(t, studio.Scenes.All(), 4)
	require.NotNil(t, voices.get("gentleGong"))

	require.Equal(t, 600, studio.Timer.Snapshot().DurationSeconds)
	require.True(t, studio.Breath.Snapshot().Active)
	require.Equal(t, 1, clock.Pending(), "breathing starts with the studio")
}

func TestName_FallsBackToID(t *testing.T) {
	studio, _, _, _ := newStudio(t, nil)

	require.Equal(t, "Native Flute", studio.Name("crystalBowl"))
	require.Equal(t, "unknown", studio.Name("unknown"))
}

func TestSession_ChimesThroughCatalogChime(t *testing.T) {
	studio, voices, clock, notifier := newStudio(t, func(cfg *config.Config) {
		cfg.Session.DefaultMinutes = 1
		cfg.Breath.StartActive = false
	})

	require.NoError(t, studio.Timer.Start())
	clock.Advance(time.Minute)

	require.Equal(t, 2, voices.get("gentleGong").Starts())
	require.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, "Session complete|Take a moment before you return.", notifier.posts[0])
}

func TestSession_ManualStopDoesNotNotify(t *testing.T) {
	studio, _, clock, notifier := newStudio(t, nil)

	require.NoError(t, studio.Timer.Start())
	clock.Advance(5 * time.Second)
	studio.Timer.Stop()

	require.Never(t, func() bool { return notifier.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSession_NotificationsDisabled(t *testing.T) {
	studio, _, clock, notifier := newStudio(t, func(cfg *config.Config) {
		cfg.Session.DefaultMinutes = 1
		cfg.Notify.OnComplete = false
	})

	require.NoError(t, studio.Timer.Start())
	clock.Advance(time.Minute)
	studio.Close()
	require.Equal(t, 0, notifier.count())
}

func TestStopAllSounds_SilencesTracksAndTones(t *testing.T) {
	studio, voices, _, _ := newStudio(t, nil)
	require.NoError(t, studio.Sounds.Select("nature"))
	require.NoError(t, studio.Tones.Toggle("freq432"))

	studio.StopAllSounds()

	_, active := studio.Sounds.ActiveID()
	require.False(t, active)
	require.False(t, voices.get("nature").Active())
	require.False(t, voices.get("freq432").Active())
}

func TestClose_StopsEverything(t *testing.T) {
	studio, voices, clock, _ := newStudio(t, nil)
	require.NoError(t, studio.Timer.Start())
	require.NoError(t, studio.Sounds.Select("magical"))

	studio.Close()
	studio.Close()

	require.Equal(t, 0, clock.Pending())
	require.False(t, studio.Timer.Snapshot().Running())
	require.Equal(t, breath.Snapshot{Phase: breath.Inhale, Active: false}, studio.Breath.Snapshot())
	require.False(t, voices.get("magical").Active())
}

func TestNew_WithoutVoicesStillRuns(t *testing.T) {
	catalog, err := storage.ParseCatalog(resources.DefaultCatalog())
	require.NoError(t, err)
	clock := schedule.NewManual()
	cfg := config.Defaults()
	cfg.Session.DefaultMinutes = 1

	studio := New(Options{Config: cfg, Catalog: catalog, Scheduler: clock})
	defer studio.Close()

	require.NoError(t, studio.Timer.Start())
	require.NoError(t, studio.Sounds.Select("nature"))
	clock.Advance(time.Minute)
	require.Equal(t, 0, studio.Timer.Snapshot().RemainingSeconds)
}

func TestLoad_CatalogBesideConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(`
tracks:
  - id: rain
    path: rain.wav
chime:
  id: bell
`), 0o644))

	cfg, catalog, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Session.DefaultMinutes)
	require.Equal(t, "rain", catalog.Tracks[0].ID)
	require.Equal(t, dir, AudioModel(cfg, catalog).AssetsDir)
}

func TestLoad_BuiltInCatalogWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("audio:\n  assets_dir: /srv/sounds\n"), 0o644))

	cfg, catalog, err := Load(configPath)
	require.NoError(t, err)
	require.Len(t, catalog.Tracks, 4)
	require.Equal(t, "/srv/sounds", AudioModel(cfg, catalog).AssetsDir)
}

func TestLoad_ExplicitCatalogPath(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "mine.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("tones:\n  - id: hum\n    frequency: 110\nchime:\n  id: bell\n"), 0o644))
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("catalog_path: "+catalogPath+"\n"), 0o644))

	_, catalog, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, "hum", catalog.Tones[0].ID)
}

func TestLoad_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("tracks: []\nchime:\n  id: bell\n"), 0o644))

	_, _, err := Load(configPath)
	require.ErrorIs(t, err, storage.ErrInvalidCatalog)
}
