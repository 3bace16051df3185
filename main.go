package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/EfeIsmail21/live-translation/capture"
	"github.com/EfeIsmail21/live-translation/conversation"
	"github.com/EfeIsmail21/live-translation/model"
	"github.com/EfeIsmail21/live-translation/output"
	"github.com/EfeIsmail21/live-translation/pipeline"
	"github.com/EfeIsmail21/live-translation/playback"
	"github.com/EfeIsmail21/live-translation/router"
	"github.com/EfeIsmail21/live-translation/session"
	"github.com/EfeIsmail21/live-translation/stt"
	"github.com/EfeIsmail21/live-translation/translate"
	"github.com/EfeIsmail21/live-translation/tts"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	openaiApiKey := os.Getenv("OPEN_AI_API_KEY")
	if openaiApiKey == "" {
		log.Fatal("OPEN_AI_API_KEY must be set")
	}

	facilityLang := envOr("FACILITY_LANGUAGE", "nl")
	fallbackLang := envOr("FALLBACK_LANGUAGE", "en")
	chatModel := envOr("TRANSLATION_MODEL", openai.GPT4oMini)
	port := envOr("PORT", "3000")

	// Process-wide collaborator handle, shared by all three stages.
	client := openai.NewClient(openaiApiKey)

	var synthesizer tts.Synthesizer
	switch provider := envOr("TTS_PROVIDER", "openai"); provider {
	case "openai":
		synthesizer = tts.NewOpenAIClient(client, tts.DefaultOpenAIVoices)
	case "elevenlabs":
		eleven, err := tts.NewElevenLabsClient(os.Getenv("ELEVEN_LABS_API_KEY"), tts.DefaultElevenLabsVoices)
		if err != nil {
			log.Fatalf("TTS_PROVIDER=elevenlabs: %v", err)
		}
		synthesizer = eleven
	default:
		log.Fatalf("unknown TTS_PROVIDER %q", provider)
	}

	pipe := pipeline.New(
		stt.NewWhisperClient(client),
		translate.NewOpenAIClient(client, chatModel),
		synthesizer,
	)

	micBackend := os.Getenv("MIC_BACKEND")
	micInput := envOr("MIC_INPUT", "default")
	captureMgr := capture.NewManager(func(role model.Role) capture.Device {
		if micBackend == "" {
			return &capture.NopDevice{}
		}
		return &capture.MicDevice{Backend: micBackend, Input: micInput}
	})

	hub := output.NewHub()
	sess := session.New(
		conversation.NewLog(),
		router.New(facilityLang, fallbackLang),
		pipe,
		captureMgr,
		playback.NewController(&playback.FFplayPlayer{}),
		hub,
	)

	app := newApp(sess, hub)

	addr := ":" + port
	fmt.Printf("Fiber server listening on %s\n", addr)
	log.Fatal(app.Listen(addr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newApp wires the HTTP surface. Split from main so handler tests can build
// the app around a stubbed session.
func newApp(sess *session.Session, hub *output.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // audio clips
	})

	// POST /api/translate — one finalized clip in, one turn out.
	app.Post("/api/translate", func(c *fiber.Ctx) error {
		role, err := model.ParseRole(c.FormValue("role"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`role` must be driver or counter"})
		}

		header, err := c.FormFile("audio")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`audio` file is required"})
		}
		file, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read audio upload"})
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read audio upload"})
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "audio/webm"
		}

		turn, err := sess.Speak(c.Context(), role, model.Clip{Bytes: audio, ContentType: contentType})
		if err != nil {
			return translationError(c, err)
		}
		return c.JSON(turn)
	})

	// GET /api/conversation — transcript snapshot without audio payloads.
	app.Get("/api/conversation", func(c *fiber.Ctx) error {
		turns := sess.Turns()
		views := make([]output.TurnView, 0, len(turns))
		for _, t := range turns {
			views = append(views, output.TurnView{
				ID:               t.ID,
				Seq:              t.Seq,
				Role:             string(t.Role),
				OriginalText:     t.OriginalText,
				OriginalLanguage: t.OriginalLanguage,
				TranslatedText:   t.TranslatedText,
				TargetLanguage:   t.TargetLanguage,
			})
		}
		return c.JSON(views)
	})

	// DELETE /api/conversation — clear log, reset router, stop playback.
	app.Delete("/api/conversation", func(c *fiber.Ctx) error {
		sess.Reset()
		return c.SendStatus(fiber.StatusNoContent)
	})

	// POST /api/playback/:turnID — play/stop toggle for one turn.
	app.Post("/api/playback/:turnID", func(c *fiber.Ctx) error {
		playing, err := sess.TogglePlayback(c.Params("turnID"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown turn"})
		}
		return c.JSON(fiber.Map{"playing": playing})
	})

	// POST /api/recording/:role/start — acquire the kiosk mic for the role.
	app.Post("/api/recording/:role/start", func(c *fiber.Ctx) error {
		role, err := model.ParseRole(c.Params("role"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`role` must be driver or counter"})
		}
		if err := sess.StartRecording(role); err != nil {
			if errors.Is(err, capture.ErrAlreadyRecording) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already recording"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "recording device unavailable"})
		}
		return c.JSON(fiber.Map{"state": "recording"})
	})

	// POST /api/recording/:role/audio — append one captured fragment to the
	// role's active session. Silently ignored when the role is not
	// recording, matching the capture layer's no-op policy.
	app.Post("/api/recording/:role/audio", func(c *fiber.Ctx) error {
		role, err := model.ParseRole(c.Params("role"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`role` must be driver or counter"})
		}
		// The request buffer is reused by fasthttp; the fragment must be
		// copied before it outlives the handler.
		fragment := append([]byte(nil), c.Body()...)
		sess.AppendAudio(role, fragment)
		return c.SendStatus(fiber.StatusNoContent)
	})

	// POST /api/recording/:role/stop — finalize the clip and run the turn.
	app.Post("/api/recording/:role/stop", func(c *fiber.Ctx) error {
		role, err := model.ParseRole(c.Params("role"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`role` must be driver or counter"})
		}
		turn, active, err := sess.StopRecording(c.Context(), role)
		if !active {
			return c.JSON(fiber.Map{"recorded": false})
		}
		if err != nil {
			return translationError(c, err)
		}
		return c.JSON(turn)
	})

	// Middleware to require WebSocket upgrade on /ws
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// GET /ws/transcript — live transcript fanout to both panes.
	app.Get("/ws/transcript", websocket.New(func(ws *websocket.Conn) {
		hub.Register(ws)
		defer func() {
			hub.Unregister(ws)
			ws.Close()
		}()
		for {
			// Panes only listen; the read loop just detects disconnect.
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))

	return app
}

// translationError maps pipeline failures onto the API error taxonomy:
// missing input is the client's fault, a failed stage is an upstream failure.
func translationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, pipeline.ErrEmptyClip) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio clip is empty"})
	}
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		log.Printf("pipeline failure: %s: %v", pe.Stage, pe.Unwrap())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": pe.Error()})
	}
	log.Printf("translate error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
