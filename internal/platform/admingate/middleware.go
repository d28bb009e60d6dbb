// Package admingate は管理者向けビューを守る簡易クッキーゲートです。
// 共有トークンとの等価比較だけを行い、認証基盤は持ちません。
package admingate

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/config"
)

// IsAdmin は管理者クッキーが設定済みトークンと一致するかを返します。
// トークンが未設定の場合は常に false です。
func IsAdmin(c *gin.Context, cfg config.Admin) bool {
	if cfg.Token == "" {
		return false
	}
	v, err := c.Cookie(cfg.CookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v), []byte(cfg.Token)) == 1
}

// Required はルートグループ用のミドルウェアです。クッキーが一致しない
// リクエストを403で打ち切ります。
func Required(cfg config.Admin) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c, cfg) {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "admin only"})
			return
		}
		c.Next()
	}
}
