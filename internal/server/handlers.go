package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 1000
	maxRequestBytes     = 1 << 20
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBridge(c *gin.Context) {
	method := c.Param("method")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bridge.NewWireError(err)})
		return
	}
	var req bridge.Request
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Warn("Failed to decode bridge request",
				zap.String("method", method),
				zap.Error(err),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": bridge.WireError{Kind: platform.KindUnknown, Message: "invalid request body"}})
			return
		}
	}

	result, err := bridge.Invoke(c.Request.Context(), s.module, method, req.Args)
	s.metrics.RecordBridgeCall(method, err)
	if err != nil {
		s.logger.Warn("Bridge call failed",
			zap.String("method", method),
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		c.JSON(statusFor(platform.KindOf(err)), gin.H{"error": bridge.NewWireError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func statusFor(kind platform.Kind) int {
	switch kind {
	case platform.KindNotFound:
		return http.StatusNotFound
	case platform.KindPermissionDenied:
		return http.StatusForbidden
	case platform.KindUnsupported:
		return http.StatusNotImplemented
	case platform.KindTransientIO, platform.KindResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleJournal(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": bridge.WireError{Kind: platform.KindNotFound, Message: "journal disabled"}})
		return
	}

	limit := defaultJournalLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": bridge.WireError{Kind: platform.KindUnknown, Message: "invalid limit"}})
			return
		}
		limit = min(n, maxJournalLimit)
	}

	entries, err := s.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to read journal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": bridge.NewWireError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": entries, "count": len(entries)})
}

func (s *Server) handleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.serve(conn)
}
