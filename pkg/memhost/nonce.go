package memhost

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const nonceLength = 10

// CreateNonce issues a token for action, bound to the current user and the
// current tick. A tick is half the nonce life.
func (s *Site) CreateNonce(ctx context.Context, action string) string {
	return s.nonce(s.tick(), action, userID(ctx))
}

// VerifyNonce accepts tokens issued during the current or the previous tick.
func (s *Site) VerifyNonce(ctx context.Context, nonce, action string) bool {
	if len(nonce) != nonceLength {
		return false
	}
	tick := s.tick()
	uid := userID(ctx)
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(nonce), []byte(s.nonce(t, action, uid))) {
			return true
		}
	}
	return false
}

func (s *Site) tick() int64 {
	half := int64(s.nonceLife / 2)
	if half <= 0 {
		half = 1
	}
	return s.now().UnixNano() / half
}

func (s *Site) nonce(tick int64, action string, uid int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(uid, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLength]
}
