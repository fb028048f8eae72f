package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/telegram"
)

const (
	HeaderInitData  = "X-Telegram-Init-Data"
	HeaderSessionID = "X-Session-ID"

	ownerKey = "owner"
	userKey  = "user"

	maxSessionIDLen = 64
)

// identify resolves who the request belongs to. A platform user id wins;
// without one the caller's session id is used, and a new one is issued when
// the caller has none.
func (s *Server) identify(c *gin.Context) {
	if raw := c.GetHeader(HeaderInitData); raw != "" {
		data, err := s.initData(raw)
		if err != nil {
			s.logger.Warn("rejected init data", zap.Error(err))
			writeError(c, http.StatusUnauthorized, "INVALID_INIT_DATA", "Telegram init data could not be verified")
			c.Abort()
			return
		}
		if data.User != nil {
			c.Set(ownerKey, "tg:"+strconv.FormatInt(data.User.ID, 10))
			c.Set(userKey, data.User)
			c.Next()
			return
		}
	}

	sid := c.GetHeader(HeaderSessionID)
	if sid == "" || len(sid) > maxSessionIDLen {
		sid = uuid.NewString()
	}
	c.Header(HeaderSessionID, sid)
	c.Set(ownerKey, "session:"+sid)
	c.Next()
}

func (s *Server) initData(raw string) (*telegram.InitData, error) {
	token := s.telegram.Token()
	if token == "" {
		return telegram.ParseInitData(raw)
	}
	return telegram.ValidateInitData(raw, token, s.telegram.InitDataMaxAge, s.now())
}

func owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func user(c *gin.Context) *telegram.User {
	if u, ok := c.Get(userKey); ok {
		return u.(*telegram.User)
	}
	return nil
}
