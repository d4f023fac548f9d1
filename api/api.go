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
package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cofferfi/coffer"
	"github.com/cofferfi/coffer/api/middleware"
	"github.com/cofferfi/coffer/config"
)

type Api struct {
	coffer *coffer.Coffer
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/deposits", a.RecordDeposit)
	router.POST("/withdrawals", a.RecordWithdrawal)

	router.GET("/balances/:account_id", a.GetBalance)
	router.GET("/capacity", a.GetCapacity)
	router.GET("/stats", a.GetStats)

	router.GET("/operations/:id", a.GetOperation)
	return a.router
}

func NewAPI(c *coffer.Coffer) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.EnableTelemetry {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{coffer: c, router: r}
}
