package cue

import (
	"errors"
	"testing"

	"sonichealing/internal/core/cue/cuetest"

	"github.com/stretchr/testify/require"
)

func TestPlay_StartsVoiceAndReportsPlaying(t *testing.T) {
	voice := cuetest.NewVoice()
	track := New("nature", "sounds/3.mp3", true, voice)

	require.False(t, track.IsPlaying())
	require.NoError(t, track.Play())
	require.True(t, track.IsPlaying())
	require.Equal(t, 1, voice.Starts())
	require.Equal(t, "nature", track.ID())
	require.Equal(t, "sounds/3.mp3", track.Source())
	require.True(t, track.Looping())
}

func TestPlay_WhilePlayingRestartsFromZero(t *testing.T) {
	voice := cuetest.NewVoice()
	chime := New("chime", "gong1.mp3", false, voice)

	require.NoError(t, chime.Play())
	require.NoError(t, chime.Play())

	require.Equal(t, 2, voice.Starts())
	require.True(t, chime.IsPlaying())
}

func TestStop_HaltsAndIsNoOpWhenIdle(t *testing.T) {
	voice := cuetest.NewVoice()
	track := New("magical", "sounds/4.mp3", true, voice)

	track.Stop()
	require.Equal(t, 0, voice.Halts())

	require.NoError(t, track.Play())
	track.Stop()
	require.False(t, track.IsPlaying())
	require.Equal(t, 1, voice.Halts())

	track.Stop()
	require.Equal(t, 1, voice.Halts())
}

func TestPlay_DeniedLoopStillCountsAsPlaying(t *testing.T) {
	track := New("freq528", "", true, cuetest.NewDeniedVoice())

	err := track.Play()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPlaybackDenied))
	require.True(t, errors.Is(err, cuetest.ErrDenied))
	require.True(t, track.IsPlaying())
}

func TestPlay_DeniedOneShotIsOverImmediately(t *testing.T) {
	chime := New("chime", "", false, cuetest.NewDeniedVoice())

	err := chime.Play()
	require.ErrorIs(t, err, ErrPlaybackDenied)
	require.False(t, chime.IsPlaying())
}

func TestPlay_WithoutVoiceIsDenied(t *testing.T) {
	chime := New("chime", "", false, nil)
	require.ErrorIs(t, chime.Play(), ErrPlaybackDenied)
	require.False(t, chime.IsPlaying())
}

func TestOneShot_DrainEndsPlayback(t *testing.T) {
	voice := cuetest.NewVoice()
	chime := New("chime", "", false, voice)

	require.NoError(t, chime.Play())
	voice.Drain()
	require.False(t, chime.IsPlaying())
}

func TestOneShot_StaleDrainIgnoredAfterRestart(t *testing.T) {
	voice := &capturingVoice{}
	chime := New("chime", "", false, voice)

	require.NoError(t, chime.Play())
	first := voice.last
	require.NoError(t, chime.Play())

	first()
	require.True(t, chime.IsPlaying(), "drain of a superseded play must not end the restart")

	voice.last()
	require.False(t, chime.IsPlaying())
}

func TestLoop_DrainCallbackIgnored(t *testing.T) {
	voice := cuetest.NewVoice()
	track := New("nature", "", true, voice)

	require.NoError(t, track.Play())
	voice.Drain()
	require.True(t, track.IsPlaying())
}

type capturingVoice struct {
	last func()
}

func (voice *capturingVoice) Start(onDone func()) error {
	voice.last = onDone
	return nil
}

func (voice *capturingVoice) Halt() {}
