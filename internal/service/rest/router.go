package rest

import "github.com/gin-gonic/gin"

// NewRouter собирает gin-роутер со всеми маршрутами API.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router)
	return router
}
