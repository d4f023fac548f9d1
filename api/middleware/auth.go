/*
Copyright 2026 Coffer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cofferfi/coffer/config"
)

const (
	// KeyHeader carries the master secret key for operator access.
	KeyHeader = "X-Coffer-Key"
	// AccountHeader identifies the calling account for scoped reads.
	AccountHeader = "X-Coffer-Account"
)

// SecretKeyAuthMiddleware guards every route behind the configured master
// key when secure mode is on. The root health path stays open.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		conf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}
		secretKey := conf.Server.SecretKey
		if secretKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}

		clientSecret := c.GetHeader(KeyHeader)

		if clientSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing secret key"})
			return
		}

		if !secureCompare(secretKey, clientSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret key"})
			return
		}

		c.Next()
	}
}

// CanAccessAccount reports whether the caller may read accountID's balance.
// The master key sees every account; otherwise the caller must identify as
// the account itself via the account header.
func CanAccessAccount(c *gin.Context, accountID string) bool {
	conf, err := config.Fetch()
	if err != nil {
		return false
	}
	if conf.Server.SecretKey != "" && secureCompare(conf.Server.SecretKey, c.GetHeader(KeyHeader)) {
		return true
	}
	return c.GetHeader(AccountHeader) == accountID
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
