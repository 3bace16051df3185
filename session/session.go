package session

import (
	"context"
	"errors"
	"log"

	"github.com/EfeIsmail21/live-translation/capture"
	"github.com/EfeIsmail21/live-translation/conversation"
	"github.com/EfeIsmail21/live-translation/model"
	"github.com/EfeIsmail21/live-translation/output"
	"github.com/EfeIsmail21/live-translation/pipeline"
	"github.com/EfeIsmail21/live-translation/playback"
	"github.com/EfeIsmail21/live-translation/router"
)

// ErrUnknownTurn means a playback toggle named a turn that is not in the log.
var ErrUnknownTurn = errors.New("unknown turn")

// Session ties one kiosk's components together: the conversation log, the
// language router, the capture manager, the playback controller, and the
// translation pipeline, with the hub notified of every visible change.
type Session struct {
	log      *conversation.Log
	router   *router.Router
	pipe     *pipeline.Pipeline
	capture  *capture.Manager
	playback *playback.Controller
	hub      *output.Hub
}

func New(
	convLog *conversation.Log,
	langRouter *router.Router,
	pipe *pipeline.Pipeline,
	captureMgr *capture.Manager,
	playbackCtrl *playback.Controller,
	hub *output.Hub,
) *Session {
	s := &Session{
		log:      convLog,
		router:   langRouter,
		pipe:     pipe,
		capture:  captureMgr,
		playback: playbackCtrl,
		hub:      hub,
	}
	if playbackCtrl != nil && hub != nil {
		playbackCtrl.OnComplete = hub.BroadcastPlaybackDone
	}
	return s
}

// Speak runs one complete turn: pick the target language for the speaker,
// run the pipeline, append the turn, and remember the driver's detected
// language for the clerk's next reply. On any pipeline failure nothing is
// appended and no state changes.
func (s *Session) Speak(ctx context.Context, role model.Role, clip model.Clip) (conversation.Turn, error) {
	target := s.router.TargetFor(role)

	res, err := s.pipe.Translate(ctx, clip, target)
	if err != nil {
		return conversation.Turn{}, err
	}

	turn := s.log.Append(conversation.Turn{
		Role:             role,
		OriginalText:     res.OriginalText,
		OriginalLanguage: res.OriginalLanguage,
		TranslatedText:   res.TranslatedText,
		TargetLanguage:   res.TargetLanguage,
		Audio:            res.Audio.Bytes,
		ContentType:      res.Audio.ContentType,
	})
	s.router.RecordDetected(role, res.OriginalLanguage)

	log.Printf("turn %d: %s spoke %s (%s) -> %s", turn.Seq, role, turn.OriginalLanguage, turn.OriginalText, turn.TargetLanguage)

	if s.hub != nil {
		s.hub.BroadcastTurn(turn)
	}
	return turn, nil
}

// StartRecording begins a capture session for the role's kiosk microphone.
func (s *Session) StartRecording(role model.Role) error {
	return s.capture.Begin(role)
}

// AppendAudio feeds one uploaded fragment into the role's active capture
// session, for panes that stream recorded audio in over the network instead
// of a kiosk mic. Ignored when the role is not recording.
func (s *Session) AppendAudio(role model.Role, fragment []byte) {
	s.capture.Append(role, fragment)
}

// StopRecording finalizes the role's capture session and runs the finished
// clip through Speak. Stopping a role that was not recording reports false
// with no other effect.
func (s *Session) StopRecording(ctx context.Context, role model.Role) (conversation.Turn, bool, error) {
	clip, active, err := s.capture.End(role)
	if !active {
		return conversation.Turn{}, false, nil
	}
	if err != nil {
		return conversation.Turn{}, true, err
	}

	turn, err := s.Speak(ctx, role, clip)
	return turn, true, err
}

// TogglePlayback plays or stops the stored audio of one turn. Reports
// whether the turn is now playing.
func (s *Session) TogglePlayback(turnID string) (bool, error) {
	turn, ok := s.log.Get(turnID)
	if !ok {
		return false, ErrUnknownTurn
	}
	clip := model.Clip{Bytes: turn.Audio, ContentType: turn.ContentType}
	return s.playback.Toggle(turn.ID, clip), nil
}

// Turns returns the conversation snapshot.
func (s *Session) Turns() []conversation.Turn {
	return s.log.Turns()
}

// Reset clears the conversation, forgets the detected driver language, and
// silences any active playback.
func (s *Session) Reset() {
	s.playback.StopAll()
	s.log.Clear()
	s.router.Reset()
	if s.hub != nil {
		s.hub.BroadcastClear()
	}
}
