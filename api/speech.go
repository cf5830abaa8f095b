package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mindpath-app/mindpath/log"
	"github.com/mindpath-app/mindpath/speech"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin enforcement happens at the proxy layer
	},
}

// SpeechStream handles GET /api/speech/stream. The client streams binary
// audio frames plus JSON control frames; the server relays them to the
// configured ASR gateway and forwards transcript events back. The gateway
// speaks the same schema (speech.Message), so the relay is transparent.
func (h *Handlers) SpeechStream(c *gin.Context) {
	if h.cfg.ASRGatewayURL == "" {
		RespondFetchError(c, "Speech recognition is not configured")
		return
	}

	log.MarkHijacked(c)
	clientConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade speech stream connection")
		return
	}
	defer clientConn.Close()

	header := http.Header{}
	if h.cfg.ASRAPIKey != "" {
		header.Set("Authorization", "Bearer "+h.cfg.ASRAPIKey)
	}

	gatewayConn, _, err := websocket.DefaultDialer.Dial(h.cfg.ASRGatewayURL, header)
	if err != nil {
		log.Error().Err(err).Str("url", h.cfg.ASRGatewayURL).Msg("failed to connect to ASR gateway")
		sendSpeechError(clientConn, speech.CodeCapture, "failed to connect to speech provider")
		return
	}
	defer gatewayConn.Close()

	log.Info().Msg("speech stream session started")

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// Client -> gateway: control frames and binary audio, forwarded as-is
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer gatewayConn.Close()
		for {
			messageType, message, err := clientConn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
					errChan <- err
				}
				return
			}
			if err := gatewayConn.WriteMessage(messageType, message); err != nil {
				errChan <- err
				return
			}
		}
	}()

	// Gateway -> client: transcript, error, and end events
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer clientConn.Close()
		for {
			messageType, message, err := gatewayConn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
					errChan <- err
				}
				return
			}
			if err := clientConn.WriteMessage(messageType, message); err != nil {
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		log.Error().Err(err).Msg("speech stream relay error")
		sendSpeechError(clientConn, speech.CodeCapture, err.Error())
	}

	log.Info().Msg("speech stream session ended")
}

// sendSpeechError writes an error control frame, ignoring write failures
// on an already-closed connection.
func sendSpeechError(conn *websocket.Conn, code, detail string) {
	conn.WriteJSON(speech.Message{
		Type:   speech.TypeError,
		Code:   code,
		Detail: detail,
	})
}
